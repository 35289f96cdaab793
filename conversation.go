package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/r26D/openai-ex-pipeline/ai"
)

// TurnInput is the next input of a conversational turn: either a Literal
// message sequence appended to the running history, or a Derived function
// of the current state producing the full history for the request.
type TurnInput interface {
	history(s State) ([]ai.Message, error)
}

// Literal appends its messages to the prior history.
type Literal []ai.Message

func (l Literal) history(s State) ([]ai.Message, error) {
	combined := make([]ai.Message, 0, len(s.History)+len(l))
	combined = append(combined, s.History...)
	combined = append(combined, l...)
	return combined, nil
}

// Derived computes the request history from the current state, enabling
// context-dependent follow-up turns.
type Derived func(s State) []ai.Message

func (d Derived) history(s State) ([]ai.Message, error) {
	if d == nil {
		return nil, errors.New("turn input must be a message list or a function of state")
	}
	return d(s), nil
}

type turnOptions struct {
	fileSearch bool
	request    ai.TurnOptions
}

// TurnOption adjusts a single conversational request.
type TurnOption func(*turnOptions)

// WithFileSearch attaches collection-scoped retrieval to the request. The
// stage fails locally when no collection exists.
func WithFileSearch() TurnOption {
	return func(o *turnOptions) { o.fileSearch = true }
}

func WithModel(model string) TurnOption {
	return func(o *turnOptions) { o.request.Model = model }
}

func WithInstructions(instructions string) TurnOption {
	return func(o *turnOptions) { o.request.Instructions = instructions }
}

func WithTemperature(temperature float64) TurnOption {
	return func(o *turnOptions) { o.request.Temperature = &temperature }
}

func WithMaxOutputTokens(n int) TurnOption {
	return func(o *turnOptions) { o.request.MaxOutputTokens = &n }
}

// Respond issues one request/response turn. The new history is the prior
// history plus the literal input, or the derived function's output. The
// turn is appended to Turns, its first assistant text to Outputs, and
// History is replaced with the history returned by the client — the client
// is authoritative for how a turn folds back into history.
func Respond(input TurnInput, opts ...TurnOption) Stage {
	o := turnOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return NewStage(func(ctx context.Context, s State) Result {
		if input == nil {
			return Fail(s, errors.New("turn input must be a message list or a function of state"))
		}
		history, err := input.history(s)
		if err != nil {
			return Fail(s, err)
		}
		if len(history) == 0 {
			return Fail(s, errors.New("turn input produced an empty history"))
		}
		for i, msg := range history {
			if msg == nil {
				return Fail(s, fmt.Errorf("turn input contains a nil message at index %d", i))
			}
		}

		request := o.request
		if o.fileSearch {
			if s.Collection == nil {
				return Fail(s, errors.New("file search requested without a vector store"))
			}
			request.VectorStoreIDs = append(request.VectorStoreIDs, s.Collection.ID)
		}

		turn, newHistory, err := s.Client.CreateTurn(ctx, history, request)
		if err != nil {
			return Fail(s, fmt.Errorf("create turn: %w", err))
		}

		return OK(s.appendTurn(turn, turn.FirstText(), newHistory))
	})
}
