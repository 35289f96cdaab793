package ai

import (
	"context"
)

// Client is the remote service boundary used by the pipeline. The ai/openai
// package provides the production implementation; NewDummyClient provides a
// configurable test double.
type Client interface {
	// UploadFile uploads the file at path and returns its remote descriptor.
	UploadFile(ctx context.Context, path string) (File, error)

	// CreateVectorStore creates a named collection for file attachments.
	CreateVectorStore(ctx context.Context, name string) (VectorStore, error)

	// AttachFile associates an uploaded file with a vector store. Ingestion
	// continues server-side after the call returns.
	AttachFile(ctx context.Context, fileID, storeID string) (Attachment, error)

	// PollAttachment fetches the current ingestion status. The nonce is
	// unique per attempt so no caching layer can serve a stale status.
	PollAttachment(ctx context.Context, fileID, storeID, nonce string) (Attachment, error)

	// GetAttachment fetches the final attachment record.
	GetAttachment(ctx context.Context, fileID, storeID string) (Attachment, error)

	// CreateTurn runs one request/response exchange over the given history
	// and returns the turn together with the updated history. The client,
	// not the caller, decides how the turn's output folds back into history.
	CreateTurn(ctx context.Context, history []Message, opts TurnOptions) (Turn, []Message, error)

	DeleteFile(ctx context.Context, fileID string) error
	DeleteVectorStore(ctx context.Context, storeID string) error
	DeleteTurn(ctx context.Context, turnID string) error
}
