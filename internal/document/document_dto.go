package document

import (
	"io"
	"time"
)

type Document struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Category   string    `json:"category"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type UploadInput struct {
	EmployeeID string
	Category   string
	FileName   string
	Content    io.Reader
}
