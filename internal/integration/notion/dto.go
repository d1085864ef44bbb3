package notion

// Property names of the inquiry database in the CRM workspace.
const (
	propCompany    = "회사명"
	propEmail      = "이메일"
	propType       = "문의유형"
	propMessage    = "내용"
	propStatus     = "상태"
	propReceivedAt = "수신일시"
)

// maxRichText is the per-object character cap of the CRM API.
const maxRichText = 2000

type parent struct {
	DatabaseID string `json:"database_id"`
}

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Text textContent `json:"text"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type property struct {
	Title    []richText    `json:"title,omitempty"`
	RichText []richText    `json:"rich_text,omitempty"`
	Email    string        `json:"email,omitempty"`
	Select   *selectOption `json:"select,omitempty"`
	Date     *dateValue    `json:"date,omitempty"`
}

type createPageRequest struct {
	Parent     parent              `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type updatePageRequest struct {
	Properties map[string]property `json:"properties"`
}

type pageResponse struct {
	ID string `json:"id"`
}
