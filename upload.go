package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type uploadOptions struct {
	attach  bool
	wait    bool
	sleeper Sleeper
}

// UploadOption adjusts how a file upload behaves. By default the file is
// attached to the collection when one exists and the stage blocks until
// server-side ingestion reaches a terminal state.
type UploadOption func(*uploadOptions)

// WithoutAttach uploads the file without attaching it to the collection.
func WithoutAttach() UploadOption {
	return func(o *uploadOptions) { o.attach = false }
}

// WithoutWait returns as soon as the attach call is accepted, leaving
// ingestion to finish asynchronously server-side.
func WithoutWait() UploadOption {
	return func(o *uploadOptions) { o.wait = false }
}

func withSleeper(sleep Sleeper) UploadOption {
	return func(o *uploadOptions) { o.sleeper = sleep }
}

func newUploadOptions(opts []UploadOption) uploadOptions {
	o := uploadOptions{attach: true, wait: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// UploadFile uploads the local file at path and stores its descriptor
// under label. Re-running with a label that is already populated is a
// no-op success and makes no remote call.
func UploadFile(label, path string, opts ...UploadOption) Stage {
	o := newUploadOptions(opts)
	return NewStage(func(ctx context.Context, s State) Result {
		return uploadOne(ctx, s, label, path, o)
	})
}

// UploadContent uploads in-memory content as a file named filename. The
// content is staged through a temporary file which is removed afterwards.
func UploadContent(label, filename string, content []byte, opts ...UploadOption) Stage {
	o := newUploadOptions(opts)
	return NewStage(func(ctx context.Context, s State) Result {
		dir, err := os.MkdirTemp("", "pipeline-upload-"+uuid.NewString())
		if err != nil {
			return Fail(s, fmt.Errorf("stage content for %s: %w", filename, err))
		}
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, filepath.Base(filename))
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return Fail(s, fmt.Errorf("stage content for %s: %w", filename, err))
		}
		return uploadOne(ctx, s, label, path, o)
	})
}

// uploadOne is the shared upload+attach flow. It never stores a partial
// descriptor: any remote failure aborts before Files is touched.
func uploadOne(ctx context.Context, s State, label, path string, o uploadOptions) Result {
	if _, exists := s.Files[label]; exists {
		return OK(s)
	}
	if _, err := os.Stat(path); err != nil {
		return Fail(s, fmt.Errorf("file does not exist: %s", path))
	}

	file, err := s.Client.UploadFile(ctx, path)
	if err != nil {
		return Fail(s, fmt.Errorf("upload %s: %w", path, err))
	}

	if s.Collection != nil && o.attach {
		att, err := s.Client.AttachFile(ctx, file.ID, s.Collection.ID)
		if err != nil {
			return Fail(s, fmt.Errorf("attach %s to %s: %w", file.ID, s.Collection.ID, err))
		}
		if o.wait {
			att, err = waitForIngestion(ctx, s.Client, file.ID, s.Collection.ID, o.sleeper)
			if err != nil {
				return Fail(s, err)
			}
		}
		file.Attachment = &att
	}

	return OK(s.withFile(label, file))
}
