package dify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestUploadSendsMultipartAndParsesID(t *testing.T) {
	var gotAuth, gotUser, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotUser = r.FormValue("user")
		if fhs := r.MultipartForm.File["file"]; len(fhs) == 1 {
			gotFilename = fhs[0].Filename
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "file-123"})
	}))
	defer server.Close()

	client := New(server.URL, "app-key", "renamer-user")
	id, err := client.Upload(context.Background(), "請求書.pdf", "application/pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if id != "file-123" {
		t.Fatalf("expected file-123, got %q", id)
	}
	if gotAuth != "Bearer app-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotUser != "renamer-user" {
		t.Fatalf("unexpected user field %q", gotUser)
	}
	if gotFilename != "請求書.pdf" {
		t.Fatalf("unexpected filename %q", gotFilename)
	}
}

func TestUploadRejectsResponseWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "x"})
	}))
	defer server.Close()

	client := New(server.URL, "app-key", "u")
	if _, err := client.Upload(context.Background(), "a.pdf", "application/pdf", []byte("x")); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestUploadReturnsHTTPStatusErrorWithSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer server.Close()

	client := New(server.URL, "app-key", "u")
	_, err := client.Upload(context.Background(), "a.pdf", "application/pdf", []byte("x"))

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", statusErr.StatusCode)
	}
	if len(statusErr.Body) > bodySnippetLimit {
		t.Fatalf("body snippet not bounded: %d bytes", len(statusErr.Body))
	}
}

func TestRunWorkflowSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workflows/run" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["response_mode"] != "blocking" {
			t.Errorf("expected blocking mode, got %v", req["response_mode"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"status": "succeeded",
				"outputs": map[string]any{
					"issuing_organization": "楽天",
					"document_type":        "請求書",
				},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "app-key", "u")
	result, err := client.RunWorkflow(context.Background(), "file-123", "application/pdf")
	if err != nil {
		t.Fatalf("RunWorkflow() error = %v", err)
	}
	if result.Outputs["issuing_organization"] != "楽天" {
		t.Fatalf("unexpected outputs: %+v", result.Outputs)
	}
}

func TestRunWorkflowReportsServiceFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"status": "failed",
				"error":  "model quota exceeded",
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "app-key", "u")
	_, err := client.RunWorkflow(context.Background(), "file-123", "application/pdf")
	if err == nil || !strings.Contains(err.Error(), "model quota exceeded") {
		t.Fatalf("expected service-reported failure, got %v", err)
	}
}

func TestUploadCallTimeoutIsRetryable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client := New(server.URL, "app-key", "u", WithTimeouts(20*time.Millisecond, time.Second))
	_, err := client.Upload(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var callTimeout *CallTimeoutError
	if !errors.As(err, &callTimeout) {
		t.Fatalf("expected CallTimeoutError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("call timeout must still read as deadline expiry, got %v", err)
	}
	class := ClassifyError(err)
	if !class.Retryable {
		t.Fatalf("a hung call within its own allowance must be retryable, got %+v (err=%v)", class, err)
	}
}

func TestUploadCallerExpiryIsNotRetryable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := New(server.URL, "app-key", "u", WithTimeouts(time.Second, time.Second))
	_, err := client.Upload(ctx, "a.pdf", "application/pdf", []byte("x"))
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var callTimeout *CallTimeoutError
	if errors.As(err, &callTimeout) {
		t.Fatalf("caller expiry must not be reported as a call timeout, got %v", err)
	}
	class := ClassifyError(err)
	if class.Retryable {
		t.Fatalf("caller expiry must not be retryable, got %+v (err=%v)", class, err)
	}
}
