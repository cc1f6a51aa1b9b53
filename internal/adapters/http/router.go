package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ymdk/docrenamer/internal/config"
	"github.com/ymdk/docrenamer/internal/core/domain"
	"github.com/ymdk/docrenamer/internal/core/ports"
	"github.com/ymdk/docrenamer/internal/observability/metrics"
)

const serviceName = "doc-renamer"

type Router struct {
	cfg     config.Config
	batch   ports.BatchProcessor
	file    ports.FileProcessor
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	batch ports.BatchProcessor,
	file ports.FileProcessor,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:     cfg,
		batch:   batch,
		file:    file,
		metrics: serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/rename/batch", cors(rt.renameBatch))
	mux.HandleFunc("/v1/rename", cors(rt.renameSingle))
	mux.HandleFunc("/v1/files/", cors(rt.downloadPlaceholder))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"dify_configured":   rt.cfg.ServiceConfigured(),
		"max_batch_files":   rt.cfg.MaxBatchFiles,
		"max_file_size_mb":  rt.cfg.MaxFileSizeMB,
		"supported_formats": []string{"PDF", "JPEG", "PNG", "GIF", "WebP", "BMP", "TIFF"},
	})
}

type batchRequest struct {
	Files []domain.InputFile `json:"files"`
}

type batchEnvelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Timestamp string              `json:"timestamp"`
	Results   []domain.FileResult `json:"results"`
	Summary   domain.BatchSummary `json:"summary"`
}

// renameBatch accepts {files:[{name,data}]} and always answers 200 once
// validation passed, even when every file failed; per-file status carries
// the outcome.
func (rt *Router) renameBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "POSTメソッドのみ対応しています", "")
		return
	}

	// Aggregate ceiling: decoded per-file ceiling plus Base64 overhead.
	limit := rt.cfg.MaxFileSizeBytes()*int64(rt.cfg.MaxBatchFiles)*4/3 + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large",
				"リクエストサイズが上限を超えています", fmt.Sprintf("limit=%d bytes", maxBytesErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json", "リクエストボディを解析できません", err.Error())
		return
	}

	result, err := rt.batch.ProcessBatch(r.Context(), req.Files)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		writeError(w, status, http.StatusText(status), batchErrorMessage(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, batchEnvelope{
		Success:   true,
		Message:   fmt.Sprintf("%d件中%d件のファイルを処理しました", result.Summary.Total, result.Summary.Successful),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   result.Results,
		Summary:   result.Summary,
	})
}

// renameSingle accepts one multipart file under field "file".
func (rt *Router) renameSingle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "POSTメソッドのみ対応しています", "")
		return
	}
	if !rt.cfg.ServiceConfigured() {
		writeError(w, http.StatusInternalServerError, "configuration error",
			"Dify API設定が不完全です。環境変数を確認してください。", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxFileSizeBytes()*4/3+1<<20)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large",
				"ファイルサイズが上限を超えています", "")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request", "multipartフィールド'file'が必要です", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "ファイル本文を読み取れません", err.Error())
		return
	}

	start := time.Now()
	record, newName, err := rt.file.Process(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		writeError(w, status, http.StatusText(status), "ファイル処理に失敗しました", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"result": domain.FileResult{
			OriginalFilename: fileHeader.Filename,
			NewFilename:      newName,
			Analysis:         &record,
			Status:           domain.StatusSuccess,
			ProcessingTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// downloadPlaceholder keeps the download URL shape stable while storage
// stays out of scope: the service is stateless and never retains bodies.
func (rt *Router) downloadPlaceholder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "GETメソッドのみ対応しています", "")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/v1/files/")
	name = strings.TrimSuffix(name, "/download")
	writeError(w, http.StatusNotImplemented, "download not available",
		"ダウンロード機能は未実装です。リネーム結果をもとにクライアント側で保存してください。", name)
}

func batchErrorMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrConfiguration):
		return "Dify API設定が不完全です。環境変数を確認してください。"
	case domain.IsKind(err, domain.ErrValidation):
		return "リクエスト内容が不正です"
	default:
		return "バッチ処理中にエラーが発生しました"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, errLabel, message, debug string) {
	body := map[string]any{
		"success":   false,
		"error":     errLabel,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if debug != "" {
		body["debug"] = truncate(debug, 400)
	}
	writeJSON(w, status, body)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// cors mirrors the permissive browser policy of the original deployment.
func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}
