package pipeline

import (
	"context"
	"log/slog"
)

// Cleanup deletes every remote resource the run created: the collection,
// then every uploaded file, then every turn. Each deletion is attempted
// independently; failures are logged and never escalate. The input Result
// is returned unchanged regardless of its tag, so Cleanup can sit at the
// end of any composition, on success and failure paths alike.
//
// Cleanup is the one stage that deliberately does not short-circuit: a
// failed run still owns remote resources worth reclaiming.
func Cleanup(ctx context.Context, r Result) Result {
	s := r.State()
	if s.Client == nil {
		return r
	}

	if s.Collection != nil {
		if err := s.Client.DeleteVectorStore(ctx, s.Collection.ID); err != nil {
			slog.Error("delete vector store failed", "vector_store_id", s.Collection.ID, "error", err)
		}
	}

	for label, file := range s.Files {
		if err := s.Client.DeleteFile(ctx, file.ID); err != nil {
			slog.Error("delete file failed", "label", label, "file_id", file.ID, "error", err)
		}
	}

	for _, turn := range s.Turns {
		if turn.ID == "" {
			continue
		}
		if err := s.Client.DeleteTurn(ctx, turn.ID); err != nil {
			slog.Error("delete turn failed", "turn_id", turn.ID, "error", err)
		}
	}

	return r
}

var _ Stage = Cleanup
