package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/skillmerge/internal/adapters/export"
	"github.com/okian/skillmerge/internal/adapters/http/api"
	service "github.com/okian/skillmerge/internal/app"
)

// HTTPClient submits batches to a running server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// SubmitResult is the workbook returned by POST /merge?format=xlsx.
type SubmitResult struct {
	BatchID  string
	Warnings int
	Workbook []byte
}

// NewHTTPClient creates a client for the server at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Submit uploads one batch and returns the merged workbook.
func (c *HTTPClient) Submit(ctx context.Context, uploads []service.Upload) (*SubmitResult, error) {
	body, contentType, err := encodeUploads(uploads)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/merge?format=xlsx", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", export.ContentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
			return nil, fmt.Errorf("%w: %d %s: %s", ErrServer, resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Status)
	}

	warnings, _ := strconv.Atoi(resp.Header.Get(api.HeaderWarnings))
	return &SubmitResult{
		BatchID:  resp.Header.Get(api.HeaderBatchID),
		Warnings: warnings,
		Workbook: data,
	}, nil
}

// encodeUploads writes uploads as repeated parts of the files field.
func encodeUploads(uploads []service.Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(api.FilesField, u.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(u.Data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
