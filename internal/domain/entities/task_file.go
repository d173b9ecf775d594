package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskFile represents a binary attachment tied to a task. Immutable after
// creation.
type TaskFile struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"taskId"`
	FileName  string    `json:"fileName"`
	FileKey   string    `json:"-"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskFileInfo is the metadata projection returned from list endpoints
type TaskFileInfo struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl"`
}
