package pipeline

import (
	"maps"

	"github.com/r26D/openai-ex-pipeline/ai"
)

// State is the aggregate threaded through a workflow run. It is passed by
// value; stages that change a map or slice copy it first, so the caller's
// view never mutates behind its back and concurrent branches can each work
// on a private copy.
type State struct {
	// Client is the remote service collaborator. Immutable once set.
	Client ai.Client

	// Files maps caller-chosen labels to uploaded file descriptors.
	Files map[string]ai.File

	// Collection is the vector store of this run, nil until created.
	Collection *ai.VectorStore

	// Turns records every request/response exchange, in call order.
	Turns []ai.Turn

	// History is the running conversational message sequence.
	History []ai.Message

	// Outputs holds the extracted text of each turn, index-aligned with Turns.
	Outputs []string

	// Err is the last failure, set only while the Result is in the Error arm.
	Err error

	// Extra carries auxiliary values between custom stages.
	Extra map[string]any
}

// NewState creates the starting state of a workflow run.
func NewState(client ai.Client) State {
	return State{
		Client: client,
		Files:  make(map[string]ai.File),
		Extra:  make(map[string]any),
	}
}

func (s State) withFile(label string, f ai.File) State {
	files := make(map[string]ai.File, len(s.Files)+1)
	maps.Copy(files, s.Files)
	files[label] = f
	s.Files = files
	return s
}

// RemoveFile returns a state without the labeled file. The remote resource
// is not touched.
func (s State) RemoveFile(label string) State {
	files := make(map[string]ai.File, len(s.Files))
	maps.Copy(files, s.Files)
	delete(files, label)
	s.Files = files
	return s
}

// WithExtra merges values into Extra, keeping existing keys that are not
// overwritten.
func (s State) WithExtra(values map[string]any) State {
	extra := make(map[string]any, len(s.Extra)+len(values))
	maps.Copy(extra, s.Extra)
	maps.Copy(extra, values)
	s.Extra = extra
	return s
}

func (s State) appendTurn(turn ai.Turn, output string, history []ai.Message) State {
	turns := make([]ai.Turn, len(s.Turns), len(s.Turns)+1)
	copy(turns, s.Turns)
	s.Turns = append(turns, turn)

	outputs := make([]string, len(s.Outputs), len(s.Outputs)+1)
	copy(outputs, s.Outputs)
	s.Outputs = append(outputs, output)

	s.History = history
	return s
}

// PruneHistory returns a state whose history drops the messages in [from, to).
// Out-of-range bounds are clamped.
func (s State) PruneHistory(from, to int) State {
	if from < 0 {
		from = 0
	}
	if to > len(s.History) {
		to = len(s.History)
	}
	if from >= to {
		return s
	}
	history := make([]ai.Message, 0, len(s.History)-(to-from))
	history = append(history, s.History[:from]...)
	history = append(history, s.History[to:]...)
	s.History = history
	return s
}

// RemoveOutput returns a state without the i-th extracted output. The
// matching turn stays in Turns.
func (s State) RemoveOutput(i int) State {
	if i < 0 || i >= len(s.Outputs) {
		return s
	}
	outputs := make([]string, 0, len(s.Outputs)-1)
	outputs = append(outputs, s.Outputs[:i]...)
	outputs = append(outputs, s.Outputs[i+1:]...)
	s.Outputs = outputs
	return s
}

// LastOutput returns the most recent extracted output text.
func (s State) LastOutput() (string, bool) {
	if len(s.Outputs) == 0 {
		return "", false
	}
	return s.Outputs[len(s.Outputs)-1], true
}
