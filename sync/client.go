// ABOUTME: HTTP client for the remote sync API
// ABOUTME: Lead batch upload, audio processing, and notification delivery
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// SyncError indicates a lead batch call failed. The whole batch stays
// pending; no lead is partially marked.
type SyncError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lead batch sync failed: %v", e.Err)
	}
	return fmt.Sprintf("lead batch sync failed: server responded %d: %s", e.StatusCode, e.Body)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// MediaSyncError indicates a single audio upload failed. Only that outbox
// entry stays pending; other uploads are unaffected.
type MediaSyncError struct {
	FileName string
	Err      error
}

func (e *MediaSyncError) Error() string {
	return fmt.Sprintf("audio upload %s failed: %v", e.FileName, e.Err)
}

func (e *MediaSyncError) Unwrap() error {
	return e.Err
}

// Client talks to the remote lead management API.
type Client struct {
	baseURL string
	ownerID string
	http    *http.Client
}

// NewClient creates an API client. ownerID identifies the acting user and is
// sent on every request.
func NewClient(baseURL, ownerID string) *Client {
	return &Client{
		baseURL: baseURL,
		ownerID: ownerID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.ownerID != "" {
		req.Header.Set("X-User-ID", c.ownerID)
	}
	return c.http.Do(req)
}

// SyncLeads uploads one batch of lead projections. Any non-2xx response is a
// total-batch failure.
func (c *Client) SyncLeads(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
	body, err := json.Marshal(SyncRequest{Leads: leads})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, &SyncError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &SyncError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	var ack SyncAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, &SyncError{Err: fmt.Errorf("failed to decode acknowledgment: %w", err)}
	}
	return &ack, nil
}

// ProcessAudio uploads one recording for transcription and enrichment. Each
// call is independent so one bad recording cannot starve the rest.
func (c *Client) ProcessAudio(ctx context.Context, leadID, fileName string, data []byte) (*AudioResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("lead_id", leadID); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-audio", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, &MediaSyncError{FileName: fileName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &MediaSyncError{FileName: fileName, Err: fmt.Errorf("server responded %d: %s", resp.StatusCode, text)}
	}

	var result AudioResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &MediaSyncError{FileName: fileName, Err: fmt.Errorf("failed to decode result: %w", err)}
	}
	return &result, nil
}

// SendNotification delivers one queued meeting invitation.
func (c *Client) SendNotification(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notify", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notification failed: server responded %d: %s", resp.StatusCode, text)
	}
	return nil
}
