package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentStatusTerminal(t *testing.T) {
	terminal := []AttachmentStatus{AttachmentCompleted, AttachmentFailed, AttachmentCancelled, AttachmentExpired}
	for _, status := range terminal {
		assert.True(t, status.Terminal(), "%s should be terminal", status)
	}

	assert.False(t, AttachmentQueued.Terminal())
	assert.False(t, AttachmentInProgress.Terminal())
}

func TestTurnFirstText(t *testing.T) {
	turn := Turn{Output: []Message{
		UserMessage{Role: UserRole, Content: "not this"},
		AIMessage{Role: AssistantRole, Content: ""},
		AIMessage{Role: AssistantRole, Content: "this one"},
	}}
	assert.Equal(t, "this one", turn.FirstText())

	assert.Empty(t, Turn{}.FirstText())
}

func TestDummyClientCountsCalls(t *testing.T) {
	client := NewDummyClient()
	ctx := context.Background()

	_, err := client.UploadFile(ctx, "a.txt")
	require.NoError(t, err)
	_, err = client.UploadFile(ctx, "b.txt")
	require.NoError(t, err)
	_, err = client.CreateVectorStore(ctx, "kb")
	require.NoError(t, err)

	assert.Equal(t, 2, client.Calls("UploadFile"))
	assert.Equal(t, 1, client.Calls("CreateVectorStore"))
	assert.Equal(t, 0, client.Calls("DeleteFile"))
	assert.Equal(t, 3, client.TotalCalls())
}

func TestDummyClientDefaultTurn(t *testing.T) {
	client := NewDummyClient()
	history := []Message{UserMessage{Role: UserRole, Content: "Hi"}}

	turn, newHistory, err := client.CreateTurn(context.Background(), history, TurnOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, turn.ID)
	require.Len(t, newHistory, 2)
	role, _ := newHistory[1].Value()
	assert.Equal(t, AssistantRole, role)
}
