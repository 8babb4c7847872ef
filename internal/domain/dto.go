package domain

// UploadResponse is returned by the converter's upload endpoint.
type UploadResponse struct {
	Message          string `json:"message"`
	OriginalFilename string `json:"original_filename"`
	PDFFilename      string `json:"pdf_filename"`
}

// Conversion progress states reported by the converter.
const (
	ConvertStatusInProgress = "in_progress"
	ConvertStatusCompleted  = "completed"
	ConvertStatusError      = "error"
)

// ProgressResponse is returned by the upload-progress and convert-progress
// endpoints. Status is set only for conversion progress.
type ProgressResponse struct {
	Filename string  `json:"filename"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status,omitempty"`
}

// ErrorResponse is the uniform error body for the converter API.
type ErrorResponse struct {
	Error string `json:"error"`
}
