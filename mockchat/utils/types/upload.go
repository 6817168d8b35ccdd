package types

type UploadResponse struct {
	AttachmentID string `json:"attachmentId"`
	Text         string `json:"text"`
	Filename     string `json:"filename"`
}
