package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpadapter "github.com/ymdk/docrenamer/internal/adapters/http"
	"github.com/ymdk/docrenamer/internal/config"
	"github.com/ymdk/docrenamer/internal/core/usecase"
	"github.com/ymdk/docrenamer/internal/infrastructure/dify"
	"github.com/ymdk/docrenamer/internal/infrastructure/extractor/pdftext"
	"github.com/ymdk/docrenamer/internal/infrastructure/heuristic"
	"github.com/ymdk/docrenamer/internal/infrastructure/resilience"
	"github.com/ymdk/docrenamer/internal/observability/logging"
	"github.com/ymdk/docrenamer/internal/observability/metrics"
)

const serviceName = "doc-renamer"

// App holds the wired application graph for cmd/api.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Server *http.Server
}

// New assembles the full dependency graph from environment configuration.
func New(cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)
	pipelineMetrics := metrics.NewPipelineMetrics(serviceName)
	serverMetrics.Register(pipelineMetrics.Collectors()...)

	client := dify.New(
		cfg.DifyBaseURL,
		cfg.DifyAPIKey,
		cfg.DifyUserID,
		dify.WithTimeouts(cfg.UploadTimeout, cfg.WorkflowTimeout),
	)

	execCfg := resilience.DefaultConfig()
	execCfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	execCfg.RetryInitialBackoff = time.Duration(cfg.RetryBackoffMS) * time.Millisecond
	execCfg.RetryMaxBackoff = execCfg.RetryInitialBackoff
	execCfg.BreakerEnabled = cfg.BreakerEnabled
	exec := resilience.NewExecutor(execCfg)

	table := heuristic.DefaultTable()
	if cfg.ClassifierTablePath != "" {
		loaded, err := heuristic.LoadTable(cfg.ClassifierTablePath)
		if err != nil {
			return nil, fmt.Errorf("load classifier table %s: %w", cfg.ClassifierTablePath, err)
		}
		table = loaded
	}
	classifier := heuristic.NewClassifier(table)

	fileUC := usecase.NewProcessFileUseCase(
		client,
		exec,
		classifier,
		pdftext.New(),
		cfg.MaxFileSizeBytes(),
		cfg.MaxNameLength,
	)
	batchUC := usecase.NewProcessBatchUseCase(
		fileUC,
		cfg.ServiceConfigured(),
		usecase.BatchConfig{
			MaxFiles:     cfg.MaxBatchFiles,
			FileTimeout:  cfg.FileTimeout,
			BatchTimeout: cfg.BatchTimeout,
			FileInterval: time.Duration(cfg.FileIntervalMS) * time.Millisecond,
			ServiceName:  serviceName,
		},
		pipelineMetrics,
	)

	router := httpadapter.NewRouter(cfg, batchUC, fileUC, serverMetrics)

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Batch requests legitimately run for minutes; keep write headroom
		// above the batch budget.
		WriteTimeout: cfg.BatchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if !cfg.ServiceConfigured() {
		logger.Warn("analysis service credentials missing, batch requests will be rejected")
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Server: server,
	}, nil
}
