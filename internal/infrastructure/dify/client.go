// Package dify implements the two-step analysis call sequence against a
// Dify-compatible workflow service: upload the binary, then run the
// workflow against the returned handle.
package dify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ymdk/docrenamer/internal/core/ports"
)

type Client struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client

	uploadTimeout   time.Duration
	workflowTimeout time.Duration
}

type Option func(*Client)

func WithTimeouts(upload, workflow time.Duration) Option {
	return func(c *Client) {
		if upload > 0 {
			c.uploadTimeout = upload
		}
		if workflow > 0 {
			c.workflowTimeout = workflow
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL, apiKey, userID string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		userID:          userID,
		httpClient:      &http.Client{},
		uploadTimeout:   15 * time.Second,
		workflowTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload pushes the binary to /files/upload and returns the opaque file
// handle. A 2xx response without an id field is treated as a failure.
func (c *Client) Upload(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	var response struct {
		ID string `json:"id"`
	}
	if err := c.postMultipart(callCtx, "/files/upload", filename, mimeType, data, &response); err != nil {
		return "", fmt.Errorf("dify upload: %w", asCallTimeout("upload", ctx, c.uploadTimeout, err))
	}
	if response.ID == "" {
		return "", fmt.Errorf("dify upload: response carries no file id")
	}
	return response.ID, nil
}

// RunWorkflow executes the analysis workflow against an uploaded handle in
// blocking mode. A completed run whose status is not "succeeded" is an
// error carrying the service-reported cause.
func (c *Client) RunWorkflow(ctx context.Context, fileID, mimeType string) (ports.WorkflowResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.workflowTimeout)
	defer cancel()

	payload := map[string]any{
		"inputs": map[string]any{
			"file": []map[string]any{{
				"transfer_method": "local_file",
				"upload_file_id":  fileID,
				"type":            inputFileType(mimeType),
			}},
		},
		"response_mode": "blocking",
		"user":          c.userID,
	}

	var response struct {
		Data struct {
			Status  string         `json:"status"`
			Outputs map[string]any `json:"outputs"`
			Error   string         `json:"error"`
		} `json:"data"`
	}
	if err := c.postJSON(callCtx, "/workflows/run", payload, &response); err != nil {
		return ports.WorkflowResult{}, fmt.Errorf("dify workflow: %w", asCallTimeout("workflow", ctx, c.workflowTimeout, err))
	}

	if response.Data.Status != "succeeded" {
		cause := strings.TrimSpace(response.Data.Error)
		if cause == "" {
			cause = "status " + response.Data.Status
		}
		return ports.WorkflowResult{}, fmt.Errorf("dify workflow: run did not succeed: %s", cause)
	}

	return ports.WorkflowResult{
		Status:  response.Data.Status,
		Outputs: response.Data.Outputs,
	}, nil
}

func inputFileType(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return "image"
	}
	return "document"
}
