package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// CreateCollection creates the vector store files are attached to. A run
// has at most one collection; creating a second is a local failure and
// makes no remote call.
func CreateCollection(name string) Stage {
	return NewStage(func(ctx context.Context, s State) Result {
		if s.Collection != nil {
			return Fail(s, errors.New("vector store already exists"))
		}
		store, err := s.Client.CreateVectorStore(ctx, name)
		if err != nil {
			return Fail(s, fmt.Errorf("create vector store %q: %w", name, err))
		}
		s.Collection = &store
		return OK(s)
	})
}
