package ai

import (
	"fmt"
	"time"
)

// AttachmentStatus is the server-side ingestion status of a file attached
// to a vector store.
type AttachmentStatus string

const (
	AttachmentQueued     AttachmentStatus = "queued"
	AttachmentInProgress AttachmentStatus = "in_progress"
	AttachmentCompleted  AttachmentStatus = "completed"
	AttachmentFailed     AttachmentStatus = "failed"
	AttachmentCancelled  AttachmentStatus = "cancelled"
	AttachmentExpired    AttachmentStatus = "expired"
)

// Terminal reports whether the status will never change again.
func (s AttachmentStatus) Terminal() bool {
	switch s {
	case AttachmentCompleted, AttachmentFailed, AttachmentCancelled, AttachmentExpired:
		return true
	}
	return false
}

// File represents an uploaded file known to the remote service.
type File struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`

	// Attachment is set once the file has been attached to a vector store.
	Attachment *Attachment `json:"attachment,omitempty"`
}

// VectorStore is a server-side collection that files are attached to for
// retrieval-augmented requests.
type VectorStore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attachment is the association between a file and a vector store.
type Attachment struct {
	FileID        string           `json:"file_id"`
	VectorStoreID string           `json:"vector_store_id"`
	Status        AttachmentStatus `json:"status"`
}

// Turn is one request/response exchange with the conversational endpoint.
type Turn struct {
	ID        string    `json:"id"`
	Request   []Message `json:"-"`
	Output    []Message `json:"-"`
	Usage     Usage     `json:"usage"`
	CreatedAt time.Time `json:"created_at"`
}

// FirstText returns the content of the first assistant message in the
// turn's output, or the empty string when there is none.
func (t Turn) FirstText() string {
	for _, msg := range t.Output {
		role, content := msg.Value()
		if role == AssistantRole && content != "" {
			return content
		}
	}
	return ""
}

// TurnOptions shapes a single conversational request.
// Pointer fields use nil to represent option not set.
type TurnOptions struct {
	Model           string
	Instructions    string
	Temperature     *float64
	MaxOutputTokens *int

	// VectorStoreIDs enables file_search over the listed stores.
	VectorStoreIDs []string
}

type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("status: %s, code: %d, error: %s", e.Status, e.StatusCode, e.ErrorMessage)
}
