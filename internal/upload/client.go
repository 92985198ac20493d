package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vvka-141/updater/pkg/updater"
)

const (
	stepUpload = "upload"
	stepReload = "reload"
)

// Client talks to one ingestion service on behalf of one run.
type Client struct {
	apiURL     string
	apiKey     string
	runID      string
	httpClient *http.Client
}

// NewClient creates a Client. apiURL must end with "/".
// A nil httpClient selects http.DefaultClient.
func NewClient(apiURL, apiKey, runID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		runID:      runID,
		httpClient: httpClient,
	}
}

// NewUploaderFactory returns an updater.UploaderFactory producing Clients
// that share httpClient.
func NewUploaderFactory(httpClient *http.Client) updater.UploaderFactory {
	return func(apiURL, apiKey, runID string) updater.Uploader {
		return NewClient(apiURL, apiKey, runID, httpClient)
	}
}

// Upload sends every slot of batch in one multipart POST.
func (c *Client) Upload(ctx context.Context, batch *updater.Batch) updater.CallResult {
	result := updater.CallResult{Step: stepUpload}

	body, contentType, err := encodeBatch(batch)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", updater.ErrUploadFailed, err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+updater.UploadPath, body)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", updater.ErrUploadFailed, err)
		return result
	}
	req.Header.Set("Content-Type", contentType)
	// Set directly: Header.Set would canonicalize the name to "Api_key".
	req.Header[updater.APIKeyHeader] = []string{c.apiKey}
	c.setRunID(req)

	return c.do(req, result, updater.ErrUploadFailed)
}

// Reload asks the service to reload its resources.
func (c *Client) Reload(ctx context.Context) updater.CallResult {
	result := updater.CallResult{Step: stepReload}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+updater.ReloadPath, nil)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", updater.ErrReloadFailed, err)
		return result
	}
	c.setRunID(req)

	return c.do(req, result, updater.ErrReloadFailed)
}

func (c *Client) setRunID(req *http.Request) {
	if c.runID != "" {
		req.Header.Set(updater.RunIDHeader, c.runID)
	}
}

func (c *Client) do(req *http.Request, result updater.CallResult, sentinel error) updater.CallResult {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", sentinel, err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Body = readBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, result.Body)
	}
	return result
}

// readBody keeps at most MaxErrorBodyLength bytes and drains the rest so
// the connection can be reused.
func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, updater.MaxErrorBodyLength))
	_, _ = io.Copy(io.Discard, r)
	return strings.TrimSpace(string(b))
}

func encodeBatch(batch *updater.Batch) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, slot := range batch.Slots() {
		part, err := mw.CreateFormFile(slot.Field, slot.Artifact.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", slot.Field, err)
		}
		if _, err := part.Write(slot.Artifact.Ciphertext); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", slot.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

var _ updater.Uploader = (*Client)(nil)
