package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckCredentialsPlaintext(t *testing.T) {
	assert.True(t, CheckCredentials("admin@sfinpay.co.kr", "pw", "admin@sfinpay.co.kr", "pw"))
	assert.False(t, CheckCredentials("admin@sfinpay.co.kr", "pw", "admin@sfinpay.co.kr", "wrong"))
	assert.False(t, CheckCredentials("admin@sfinpay.co.kr", "pw", "other@sfinpay.co.kr", "pw"))
	assert.False(t, CheckCredentials("", "", "", ""))
}

func TestCheckCredentialsBcrypt(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))

	assert.True(t, CheckCredentials("admin@sfinpay.co.kr", hash, "admin@sfinpay.co.kr", "s3cret"))
	assert.False(t, CheckCredentials("admin@sfinpay.co.kr", hash, "admin@sfinpay.co.kr", hash))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	fallback, err := GenerateCode(0)
	require.NoError(t, err)
	assert.Len(t, fallback, 6)
}
