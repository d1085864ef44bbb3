package dto

// AdminLoginRequest payload for the password step.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest payload for the second factor.
type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

// UpdateStatusRequest accepts the inquiry id as id or, from older
// dashboards, pageId.
type UpdateStatusRequest struct {
	ID     string `json:"id"`
	PageID string `json:"pageId"`
	Status string `json:"status"`
}

// InquiryID resolves whichever id field was sent.
func (r UpdateStatusRequest) InquiryID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.PageID
}

// SlackReply is the ephemeral response to an interactivity callback.
type SlackReply struct {
	ResponseType    string `json:"response_type"`
	Text            string `json:"text"`
	ReplaceOriginal bool   `json:"replace_original"`
}
