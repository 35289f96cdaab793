package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/r26D/openai-ex-pipeline/ai"
)

// UploadFile uploads the file at path with purpose "assistants".
func (c *Client) UploadFile(ctx context.Context, path string) (ai.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return ai.File{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return ai.File{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return ai.File{}, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.WriteField("purpose", "assistants"); err != nil {
		return ai.File{}, fmt.Errorf("failed to add purpose field: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return ai.File{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var uploadResp struct {
		ID        string `json:"id"`
		Filename  string `json:"filename"`
		Bytes     int64  `json:"bytes"`
		CreatedAt int64  `json:"created_at"`
	}
	if err := c.do(req, &uploadResp); err != nil {
		return ai.File{}, err
	}

	return ai.File{
		ID:        uploadResp.ID,
		Filename:  uploadResp.Filename,
		Size:      uploadResp.Bytes,
		CreatedAt: time.Unix(uploadResp.CreatedAt, 0),
	}, nil
}

// CreateVectorStore creates a named vector store.
func (c *Client) CreateVectorStore(ctx context.Context, name string) (ai.VectorStore, error) {
	var storeResp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/vector_stores", map[string]any{"name": name}, &storeResp)
	if err != nil {
		return ai.VectorStore{}, err
	}
	return ai.VectorStore{ID: storeResp.ID, Name: storeResp.Name}, nil
}

// AttachFile associates an uploaded file with a vector store.
func (c *Client) AttachFile(ctx context.Context, fileID, storeID string) (ai.Attachment, error) {
	var attachResp struct {
		ID            string `json:"id"`
		VectorStoreID string `json:"vector_store_id"`
		Status        string `json:"status"`
	}
	path := fmt.Sprintf("/vector_stores/%s/files", storeID)
	err := c.doJSON(ctx, http.MethodPost, path, map[string]any{"file_id": fileID}, &attachResp)
	if err != nil {
		return ai.Attachment{}, err
	}
	return ai.Attachment{
		FileID:        attachResp.ID,
		VectorStoreID: attachResp.VectorStoreID,
		Status:        ai.AttachmentStatus(attachResp.Status),
	}, nil
}

// PollAttachment fetches the current ingestion status. The nonce rides
// along as a query parameter so no intermediate cache can serve a stale
// status for a different attempt.
func (c *Client) PollAttachment(ctx context.Context, fileID, storeID, nonce string) (ai.Attachment, error) {
	path := fmt.Sprintf("/vector_stores/%s/files/%s", storeID, fileID)
	if nonce != "" {
		path += "?nonce=" + url.QueryEscape(nonce)
	}
	return c.getAttachment(ctx, path)
}

// GetAttachment fetches the attachment record.
func (c *Client) GetAttachment(ctx context.Context, fileID, storeID string) (ai.Attachment, error) {
	return c.getAttachment(ctx, fmt.Sprintf("/vector_stores/%s/files/%s", storeID, fileID))
}

func (c *Client) getAttachment(ctx context.Context, path string) (ai.Attachment, error) {
	var attachResp struct {
		ID            string `json:"id"`
		VectorStoreID string `json:"vector_store_id"`
		Status        string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &attachResp); err != nil {
		return ai.Attachment{}, err
	}
	return ai.Attachment{
		FileID:        attachResp.ID,
		VectorStoreID: attachResp.VectorStoreID,
		Status:        ai.AttachmentStatus(attachResp.Status),
	}, nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/files/"+fileID, nil, nil)
}

func (c *Client) DeleteVectorStore(ctx context.Context, storeID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/vector_stores/"+storeID, nil, nil)
}

// doJSON sends a JSON request to the given API path and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
	if c.project != "" {
		req.Header.Set("OpenAI-Project", c.project)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	return ai.StatusError{
		StatusCode:   resp.StatusCode,
		Status:       resp.Status,
		ErrorMessage: message,
	}
}
