package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/r26D/openai-ex-pipeline/ai"
)

const (
	// MaxPollAttempts is the in_progress budget: polling gives up once an
	// attachment has been observed in_progress at attempts 0 through
	// MaxPollAttempts.
	MaxPollAttempts = 10

	// PollInterval is the delay between ingestion polls.
	PollInterval = time.Second
)

var (
	ErrTimeout            = errors.New("timed out waiting for file ingestion")
	ErrIngestionFailed    = errors.New("file ingestion failed")
	ErrIngestionCancelled = errors.New("file ingestion was cancelled")
	ErrIngestionExpired   = errors.New("file ingestion expired")
)

// Sleeper waits for the given duration. Tests inject one that returns
// immediately; the default honors context cancellation.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pollNonce tags a poll request so no caching layer between the client and
// the server can return a stale status for a different attempt.
func pollNonce(fileID string, attempt int) string {
	return fmt.Sprintf("%s-%d-%s", fileID, attempt, uuid.NewString())
}

// waitForIngestion polls the attachment until it reaches a terminal status.
// A queued status resets the attempt counter: a queued item is treated as
// not yet started rather than in flight. An item seen in_progress for more
// than MaxPollAttempts consecutive attempts times out.
func waitForIngestion(ctx context.Context, client ai.Client, fileID, storeID string, sleep Sleeper) (ai.Attachment, error) {
	if sleep == nil {
		sleep = sleepContext
	}

	attempt := 0
	for {
		att, err := client.PollAttachment(ctx, fileID, storeID, pollNonce(fileID, attempt))
		if err != nil {
			return ai.Attachment{}, fmt.Errorf("poll attachment %s in %s: %w", fileID, storeID, err)
		}

		switch att.Status {
		case ai.AttachmentCompleted:
			final, err := client.GetAttachment(ctx, fileID, storeID)
			if err != nil {
				return ai.Attachment{}, fmt.Errorf("get attachment %s in %s: %w", fileID, storeID, err)
			}
			return final, nil
		case ai.AttachmentFailed:
			return ai.Attachment{}, fmt.Errorf("%w: file %s in %s", ErrIngestionFailed, fileID, storeID)
		case ai.AttachmentCancelled:
			return ai.Attachment{}, fmt.Errorf("%w: file %s in %s", ErrIngestionCancelled, fileID, storeID)
		case ai.AttachmentExpired:
			return ai.Attachment{}, fmt.Errorf("%w: file %s in %s", ErrIngestionExpired, fileID, storeID)
		case ai.AttachmentQueued:
			// A server flapping between queued and in_progress can starve
			// the budget here; make the discarded progress visible.
			if attempt > 0 {
				slog.Warn("attachment back in queue, attempt budget reset",
					"file_id", fileID, "vector_store_id", storeID, "discarded_attempts", attempt)
			}
			attempt = 0
		case ai.AttachmentInProgress:
			if attempt >= MaxPollAttempts {
				return ai.Attachment{}, fmt.Errorf("%w: file %s still in progress after %d attempts", ErrTimeout, fileID, attempt+1)
			}
			attempt++
		default:
			return ai.Attachment{}, fmt.Errorf("unknown attachment status %q for file %s", att.Status, fileID)
		}

		if err := sleep(ctx, PollInterval); err != nil {
			return ai.Attachment{}, fmt.Errorf("poll attachment %s in %s: %w", fileID, storeID, err)
		}
	}
}
