package ai

import (
	"context"
	"fmt"
	"sync"
)

// DummyClient is useful for testing purposes. Each endpoint has a function
// variable; leave it nil to get a canned success. Every call is counted so
// tests can assert how many remote calls a stage made.
type DummyClient struct {
	UploadFileFunc        func(path string) (File, error)
	CreateVectorStoreFunc func(name string) (VectorStore, error)
	AttachFileFunc        func(fileID, storeID string) (Attachment, error)
	PollAttachmentFunc    func(fileID, storeID, nonce string) (Attachment, error)
	GetAttachmentFunc     func(fileID, storeID string) (Attachment, error)
	CreateTurnFunc        func(history []Message, opts TurnOptions) (Turn, []Message, error)
	DeleteFileFunc        func(fileID string) error
	DeleteVectorStoreFunc func(storeID string) error
	DeleteTurnFunc        func(turnID string) error

	mu    sync.Mutex
	calls map[string]int
	seq   int
}

var _ Client = (*DummyClient)(nil)

func NewDummyClient() *DummyClient {
	return &DummyClient{calls: make(map[string]int)}
}

// Calls returns how many times the named endpoint was invoked.
func (c *DummyClient) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// TotalCalls returns the number of calls across all endpoints.
func (c *DummyClient) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

func (c *DummyClient) count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	c.seq++
	return c.seq
}

func (c *DummyClient) UploadFile(_ context.Context, path string) (File, error) {
	n := c.count("UploadFile")
	if c.UploadFileFunc != nil {
		return c.UploadFileFunc(path)
	}
	return File{ID: fmt.Sprintf("file_%d", n), Filename: path}, nil
}

func (c *DummyClient) CreateVectorStore(_ context.Context, name string) (VectorStore, error) {
	n := c.count("CreateVectorStore")
	if c.CreateVectorStoreFunc != nil {
		return c.CreateVectorStoreFunc(name)
	}
	return VectorStore{ID: fmt.Sprintf("vs_%d", n), Name: name}, nil
}

func (c *DummyClient) AttachFile(_ context.Context, fileID, storeID string) (Attachment, error) {
	c.count("AttachFile")
	if c.AttachFileFunc != nil {
		return c.AttachFileFunc(fileID, storeID)
	}
	return Attachment{FileID: fileID, VectorStoreID: storeID, Status: AttachmentInProgress}, nil
}

func (c *DummyClient) PollAttachment(_ context.Context, fileID, storeID, nonce string) (Attachment, error) {
	c.count("PollAttachment")
	if c.PollAttachmentFunc != nil {
		return c.PollAttachmentFunc(fileID, storeID, nonce)
	}
	return Attachment{FileID: fileID, VectorStoreID: storeID, Status: AttachmentCompleted}, nil
}

func (c *DummyClient) GetAttachment(_ context.Context, fileID, storeID string) (Attachment, error) {
	c.count("GetAttachment")
	if c.GetAttachmentFunc != nil {
		return c.GetAttachmentFunc(fileID, storeID)
	}
	return Attachment{FileID: fileID, VectorStoreID: storeID, Status: AttachmentCompleted}, nil
}

func (c *DummyClient) CreateTurn(_ context.Context, history []Message, opts TurnOptions) (Turn, []Message, error) {
	n := c.count("CreateTurn")
	if c.CreateTurnFunc != nil {
		return c.CreateTurnFunc(history, opts)
	}
	reply := AIMessage{Role: AssistantRole, Content: "ok"}
	turn := Turn{
		ID:      fmt.Sprintf("resp_%d", n),
		Request: history,
		Output:  []Message{reply},
	}
	return turn, append(append([]Message{}, history...), reply), nil
}

func (c *DummyClient) DeleteFile(_ context.Context, fileID string) error {
	c.count("DeleteFile")
	if c.DeleteFileFunc != nil {
		return c.DeleteFileFunc(fileID)
	}
	return nil
}

func (c *DummyClient) DeleteVectorStore(_ context.Context, storeID string) error {
	c.count("DeleteVectorStore")
	if c.DeleteVectorStoreFunc != nil {
		return c.DeleteVectorStoreFunc(storeID)
	}
	return nil
}

func (c *DummyClient) DeleteTurn(_ context.Context, turnID string) error {
	c.count("DeleteTurn")
	if c.DeleteTurnFunc != nil {
		return c.DeleteTurnFunc(turnID)
	}
	return nil
}
