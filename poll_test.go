package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r26D/openai-ex-pipeline/ai"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

// statusScript returns a poll function that replays the given statuses in
// order, then repeats the last one forever.
func statusScript(statuses ...ai.AttachmentStatus) func(fileID, storeID, nonce string) (ai.Attachment, error) {
	i := 0
	return func(fileID, storeID, nonce string) (ai.Attachment, error) {
		status := statuses[len(statuses)-1]
		if i < len(statuses) {
			status = statuses[i]
			i++
		}
		return ai.Attachment{FileID: fileID, VectorStoreID: storeID, Status: status}, nil
	}
}

func TestWaitForIngestionConverges(t *testing.T) {
	client := ai.NewDummyClient()
	client.PollAttachmentFunc = statusScript(
		ai.AttachmentInProgress,
		ai.AttachmentInProgress,
		ai.AttachmentInProgress,
		ai.AttachmentCompleted,
	)

	att, err := waitForIngestion(context.Background(), client, "file_1", "vs_1", noSleep)

	require.NoError(t, err)
	assert.Equal(t, ai.AttachmentCompleted, att.Status)
	assert.Equal(t, 4, client.Calls("PollAttachment"))
	assert.Equal(t, 1, client.Calls("GetAttachment"), "final record is fetched after completion")
}

func TestWaitForIngestionTimesOutAfterBudget(t *testing.T) {
	client := ai.NewDummyClient()
	client.PollAttachmentFunc = statusScript(ai.AttachmentInProgress)

	_, err := waitForIngestion(context.Background(), client, "file_1", "vs_1", noSleep)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, MaxPollAttempts+1, client.Calls("PollAttachment"))
}

func TestWaitForIngestionQueuedResetsAttempts(t *testing.T) {
	client := ai.NewDummyClient()
	var nonces []string
	script := statusScript(
		ai.AttachmentInProgress, // attempt 0
		ai.AttachmentInProgress, // attempt 1
		ai.AttachmentInProgress, // attempt 2
		ai.AttachmentInProgress, // attempt 3
		ai.AttachmentInProgress, // attempt 4
		ai.AttachmentQueued,     // attempt 5 -> reset
		ai.AttachmentCompleted,  // attempt 0 again
	)
	client.PollAttachmentFunc = func(fileID, storeID, nonce string) (ai.Attachment, error) {
		nonces = append(nonces, nonce)
		return script(fileID, storeID, nonce)
	}

	_, err := waitForIngestion(context.Background(), client, "file_1", "vs_1", noSleep)

	require.NoError(t, err)
	require.Len(t, nonces, 7)
	assert.True(t, strings.HasPrefix(nonces[5], "file_1-5-"), "queued observed at attempt 5")
	assert.True(t, strings.HasPrefix(nonces[6], "file_1-0-"), "queued resets the next poll to attempt 0")
}

func TestWaitForIngestionNoncesAreUnique(t *testing.T) {
	client := ai.NewDummyClient()
	seen := map[string]bool{}
	script := statusScript(ai.AttachmentInProgress, ai.AttachmentInProgress, ai.AttachmentCompleted)
	client.PollAttachmentFunc = func(fileID, storeID, nonce string) (ai.Attachment, error) {
		assert.False(t, seen[nonce], "nonce %q reused", nonce)
		seen[nonce] = true
		return script(fileID, storeID, nonce)
	}

	_, err := waitForIngestion(context.Background(), client, "file_1", "vs_1", noSleep)
	require.NoError(t, err)
}

func TestWaitForIngestionTerminalFailures(t *testing.T) {
	cases := []struct {
		status ai.AttachmentStatus
		want   error
	}{
		{ai.AttachmentFailed, ErrIngestionFailed},
		{ai.AttachmentCancelled, ErrIngestionCancelled},
		{ai.AttachmentExpired, ErrIngestionExpired},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			client := ai.NewDummyClient()
			client.PollAttachmentFunc = statusScript(tc.status)

			_, err := waitForIngestion(context.Background(), client, "file_1", "vs_1", noSleep)

			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, 1, client.Calls("PollAttachment"))
		})
	}
}

func TestWaitForIngestionSurfacesPollErrors(t *testing.T) {
	client := ai.NewDummyClient()
	client.PollAttachmentFunc = func(fileID, storeID, nonce string) (ai.Attachment, error) {
		return ai.Attachment{}, errors.New("connection reset")
	}

	_, err := waitForIngestion(context.Background(), client, "file_1", "vs_1", noSleep)

	require.ErrorContains(t, err, "connection reset")
	assert.Equal(t, 1, client.Calls("PollAttachment"))
}

func TestWaitForIngestionHonorsContextDuringSleep(t *testing.T) {
	client := ai.NewDummyClient()
	client.PollAttachmentFunc = statusScript(ai.AttachmentInProgress)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := waitForIngestion(ctx, client, "file_1", "vs_1", nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.Calls("PollAttachment"))
}
