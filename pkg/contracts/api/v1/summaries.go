// Package api contains the HTTP contract of the summary service.
// Version v1 represents the current stable API version.
package api

// Response formats accepted in the format form field.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatPrompt   = "prompt"
)

// StatusSuccess is the status of every successful JSON envelope.
const StatusSuccess = "success"

// SummaryUploadRequest holds the non-file fields of a multipart upload to
// POST /api/v1/summaries. The dataset itself travels in the "file" part.
type SummaryUploadRequest struct {
	CompanyName string `form:"company_name" validate:"omitempty,max=120,company"`
	Format      string `form:"format" validate:"omitempty,oneof=json markdown html prompt"`
}

// FormatOrDefault returns the requested format, JSON when none was given.
func (r SummaryUploadRequest) FormatOrDefault() string {
	if r.Format == "" {
		return FormatJSON
	}
	return r.Format
}

// Response is the JSON envelope around successful results.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}
