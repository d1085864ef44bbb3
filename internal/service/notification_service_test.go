package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sfinpay/backoffice/internal/domain"
	"github.com/sfinpay/backoffice/internal/events"
	"github.com/sfinpay/backoffice/internal/repository"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

type mockCRM struct{ mock.Mock }

func (m *mockCRM) CreateInquiryPage(ctx context.Context, inquiry domain.Inquiry) (string, error) {
	args := m.Called(ctx, inquiry)
	return args.String(0), args.Error(1)
}

func (m *mockCRM) UpdateStatus(ctx context.Context, pageID string, status domain.InquiryStatus) error {
	return m.Called(ctx, pageID, status).Error(0)
}

type mockChat struct{ mock.Mock }

func (m *mockChat) PostInquiry(ctx context.Context, inquiry domain.Inquiry) error {
	return m.Called(ctx, inquiry).Error(0)
}

type fanOut struct {
	inquiries *InquiryService
	repo      *repository.MemoryInquiryRepository
	crm       *mockCRM
	chat      *mockChat
	logs      *observer.ObservedLogs
}

func newFanOut(t *testing.T) *fanOut {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)
	repo := repository.NewMemoryInquiryRepository()
	f := &fanOut{repo: repo, crm: &mockCRM{}, chat: &mockChat{}, logs: logs}

	NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		CRM:        f.crm,
		Chat:       f.chat,
		Links:      repo,
		Logger:     logger,
	}).RegisterHandlers()

	f.inquiries = NewInquiryService(InquiryDependencies{InquiryRepo: repo, Dispatcher: dispatcher, Logger: logger})
	return f
}

var acme = CreateInquiryInput{Company: "Acme", Email: "a@b.com", Message: "hi"}

func TestFanOutCreatesCRMPageAndPostsToChat(t *testing.T) {
	f := newFanOut(t)
	f.crm.On("CreateInquiryPage", mock.Anything, mock.AnythingOfType("domain.Inquiry")).Return("page-1", nil)
	f.chat.On("PostInquiry", mock.Anything, mock.AnythingOfType("domain.Inquiry")).Return(nil)

	inquiry, err := f.inquiries.Create(context.Background(), acme)
	require.NoError(t, err)

	f.crm.AssertExpectations(t)
	f.chat.AssertExpectations(t)
	stored, err := f.repo.GetByID(context.Background(), inquiry.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CRMPageID)
	assert.Equal(t, "page-1", *stored.CRMPageID)
}

func TestFanOutFailuresAreIndependentAndSwallowed(t *testing.T) {
	f := newFanOut(t)
	f.crm.On("CreateInquiryPage", mock.Anything, mock.Anything).Return("", errors.New("notion 500"))
	f.chat.On("PostInquiry", mock.Anything, mock.Anything).Return(errors.New("webhook 404"))

	inquiry, err := f.inquiries.Create(context.Background(), acme)
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), inquiry.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CRMPageID)
	f.chat.AssertCalled(t, "PostInquiry", mock.Anything, mock.Anything)

	failures := f.logs.FilterMessage("notification failed").All()
	require.Len(t, failures, 2)
	assert.Equal(t, ChannelCRM, failures[0].ContextMap()["channel"])
	assert.Equal(t, ChannelChat, failures[1].ContextMap()["channel"])
}

func TestFanOutMissingConfigIsSkipped(t *testing.T) {
	f := newFanOut(t)
	f.crm.On("CreateInquiryPage", mock.Anything, mock.Anything).Return("", apperrors.NewConfigError("NOTION_SECRET"))
	f.chat.On("PostInquiry", mock.Anything, mock.Anything).Return(nil)

	_, err := f.inquiries.Create(context.Background(), acme)
	require.NoError(t, err)
	assert.Equal(t, 1, f.logs.FilterMessage("notification channel not configured").Len())
}

func TestStatusChangeSyncsLinkedCRMPage(t *testing.T) {
	f := newFanOut(t)
	f.crm.On("CreateInquiryPage", mock.Anything, mock.Anything).Return("page-9", nil)
	f.chat.On("PostInquiry", mock.Anything, mock.Anything).Return(nil)
	f.crm.On("UpdateStatus", mock.Anything, "page-9", domain.InquiryStatusDone).Return(errors.New("notion down")).Once()

	inquiry, err := f.inquiries.Create(context.Background(), acme)
	require.NoError(t, err)

	updated, err := f.inquiries.UpdateStatus(context.Background(), inquiry.ID, "완료", events.SourceChat)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusDone, updated.Status)
	f.crm.AssertExpectations(t)
}

func TestStatusChangeWithoutCRMPageSkipsSync(t *testing.T) {
	f := newFanOut(t)
	f.crm.On("CreateInquiryPage", mock.Anything, mock.Anything).Return("", errors.New("down"))
	f.chat.On("PostInquiry", mock.Anything, mock.Anything).Return(nil)

	inquiry, err := f.inquiries.Create(context.Background(), acme)
	require.NoError(t, err)
	_, err = f.inquiries.UpdateStatus(context.Background(), inquiry.ID, "IN_PROGRESS", events.SourceDashboard)
	require.NoError(t, err)

	f.crm.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
