package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r26D/openai-ex-pipeline/ai"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestUploadFileWithoutCollection(t *testing.T) {
	client := ai.NewDummyClient()
	path := writeTestFile(t, "report.pdf", "contents")

	result := Run(context.Background(), NewState(client),
		UploadFile("report", path),
	)

	require.True(t, result.IsOK())
	file := result.State().Files["report"]
	assert.NotEmpty(t, file.ID)
	assert.Nil(t, file.Attachment)
	assert.Equal(t, 1, client.Calls("UploadFile"))
	assert.Equal(t, 0, client.Calls("AttachFile"))
}

func TestUploadFileAttachesAndWaits(t *testing.T) {
	client := ai.NewDummyClient()
	path := writeTestFile(t, "report.pdf", "contents")

	result := Run(context.Background(), NewState(client),
		CreateCollection("kb"),
		UploadFile("report", path),
	)

	require.True(t, result.IsOK())
	file := result.State().Files["report"]
	require.NotNil(t, file.Attachment)
	assert.Equal(t, ai.AttachmentCompleted, file.Attachment.Status)
	assert.Equal(t, 1, client.Calls("AttachFile"))
	assert.Equal(t, 1, client.Calls("PollAttachment"))
	assert.Equal(t, 1, client.Calls("GetAttachment"))
}

func TestUploadFileWithoutWaitSkipsPolling(t *testing.T) {
	client := ai.NewDummyClient()
	path := writeTestFile(t, "report.pdf", "contents")

	result := Run(context.Background(), NewState(client),
		CreateCollection("kb"),
		UploadFile("report", path, WithoutWait()),
	)

	require.True(t, result.IsOK())
	file := result.State().Files["report"]
	require.NotNil(t, file.Attachment)
	assert.Equal(t, ai.AttachmentInProgress, file.Attachment.Status)
	assert.Equal(t, 1, client.Calls("AttachFile"))
	assert.Equal(t, 0, client.Calls("PollAttachment"))
}

func TestUploadFileWithoutAttach(t *testing.T) {
	client := ai.NewDummyClient()
	path := writeTestFile(t, "report.pdf", "contents")

	result := Run(context.Background(), NewState(client),
		CreateCollection("kb"),
		UploadFile("report", path, WithoutAttach()),
	)

	require.True(t, result.IsOK())
	assert.Nil(t, result.State().Files["report"].Attachment)
	assert.Equal(t, 0, client.Calls("AttachFile"))
}

func TestUploadFileIsIdempotentByLabel(t *testing.T) {
	client := ai.NewDummyClient()
	path := writeTestFile(t, "report.pdf", "contents")

	first := Run(context.Background(), NewState(client), UploadFile("report", path))
	require.True(t, first.IsOK())
	uploads := client.Calls("UploadFile")

	second := UploadFile("report", path)(context.Background(), first)
	require.True(t, second.IsOK())
	assert.Equal(t, uploads, client.Calls("UploadFile"), "second call must not re-upload")
	assert.Equal(t, first.State().Files, second.State().Files)
}

func TestUploadFileMissingLocalFile(t *testing.T) {
	client := ai.NewDummyClient()

	result := Run(context.Background(), NewState(client),
		UploadFile("report", filepath.Join(t.TempDir(), "missing.pdf")),
	)

	require.False(t, result.IsOK())
	assert.Contains(t, result.Err().Error(), "file does not exist")
	assert.Equal(t, 0, client.TotalCalls(), "existence is checked before any remote call")
}

func TestUploadFileRemoteFailureStoresNothing(t *testing.T) {
	client := ai.NewDummyClient()
	client.AttachFileFunc = func(fileID, storeID string) (ai.Attachment, error) {
		return ai.Attachment{}, errors.New("attach rejected")
	}
	path := writeTestFile(t, "report.pdf", "contents")

	result := Run(context.Background(), NewState(client),
		CreateCollection("kb"),
		UploadFile("report", path),
	)

	require.False(t, result.IsOK())
	assert.ErrorContains(t, result.Err(), "attach rejected")
	assert.Empty(t, result.State().Files, "no partial descriptor on failure")
}

func TestUploadContentStagesThroughTempFile(t *testing.T) {
	client := ai.NewDummyClient()
	var uploadedPath string
	client.UploadFileFunc = func(path string) (ai.File, error) {
		uploadedPath = path
		return ai.File{ID: "file_mem", Filename: filepath.Base(path)}, nil
	}

	result := Run(context.Background(), NewState(client),
		UploadContent("notes", "notes.txt", []byte("remember this")),
	)

	require.True(t, result.IsOK())
	assert.Equal(t, "notes.txt", filepath.Base(uploadedPath))
	assert.NoFileExists(t, uploadedPath, "temp file is removed after upload")
	assert.Equal(t, "file_mem", result.State().Files["notes"].ID)
}
