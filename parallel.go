package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// UploadRequest describes one file in a batch upload. Optional uploads may
// fail without failing the batch; their failure is logged and skipped.
type UploadRequest struct {
	Label    string
	Path     string
	Optional bool
}

// UploadFiles uploads every requested file concurrently and waits for all
// of them before deciding the outcome. The stage is deliberately not
// fail-fast: every successful descriptor is merged into Files even when
// another upload fails, so Cleanup can find and delete everything that was
// created. On failure the reported reason is the first failure in request
// order, independent of completion order.
func UploadFiles(requests []UploadRequest, opts ...UploadOption) Stage {
	o := newUploadOptions(opts)
	return NewStage(func(ctx context.Context, s State) Result {
		results := make([]Result, len(requests))

		// Each branch works on its own copy of the state; nothing shared
		// is written until the join below, so no locking is needed.
		var g errgroup.Group
		for i, req := range requests {
			g.Go(func() error {
				results[i] = uploadOne(ctx, s, req.Label, req.Path, o)
				return nil
			})
		}
		_ = g.Wait() // branches never return an error; failures land in results

		merged := s
		var firstErr error
		for i, req := range requests {
			r := results[i]
			if r.IsOK() {
				if file, ok := r.State().Files[req.Label]; ok {
					merged = merged.withFile(req.Label, file)
				}
				continue
			}
			if req.Optional {
				slog.Warn("optional upload failed", "label", req.Label, "path", req.Path, "error", r.Err())
				continue
			}
			if firstErr == nil {
				firstErr = r.Err()
			}
		}

		if firstErr != nil {
			return Fail(merged, firstErr)
		}
		return OK(merged)
	})
}

// UploadOptionalFiles uploads a caller-supplied list of paths one at a
// time, skipping blank entries. Unlike UploadFiles it halts at the first
// failure and immediately deletes every file uploaded earlier in the same
// batch, so a failed batch leaves nothing dangling.
func UploadOptionalFiles(paths []string, opts ...UploadOption) Stage {
	o := newUploadOptions(opts)
	return NewStage(func(ctx context.Context, s State) Result {
		var uploaded []string
		cur := s
		for _, path := range paths {
			if strings.TrimSpace(path) == "" {
				continue
			}
			label := filepath.Base(path)
			_, preexisting := cur.Files[label]
			r := uploadOne(ctx, cur, label, path, o)
			if !r.IsOK() {
				for _, l := range uploaded {
					file := cur.Files[l]
					if err := cur.Client.DeleteFile(ctx, file.ID); err != nil {
						slog.Error("rollback of uploaded file failed", "label", l, "file_id", file.ID, "error", err)
					}
					cur = cur.RemoveFile(l)
				}
				return Fail(cur, r.Err())
			}
			cur = r.State()
			// Only files this batch actually uploaded are rollback
			// candidates; a label from an earlier run stays untouched.
			if !preexisting {
				uploaded = append(uploaded, label)
			}
		}
		return OK(cur)
	})
}
