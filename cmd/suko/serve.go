package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "svw.info/suko/internal/adapters/http"
	"svw.info/suko/internal/config"
	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/generator"
	"svw.info/suko/internal/hint"
	"svw.info/suko/internal/infrastructure/storage"
	"svw.info/suko/internal/solver"
	"svw.info/suko/internal/usecase"
	"svw.info/suko/internal/validator"
)

var (
	serveConfig string
	serveAddr   string
	serveData   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON/websocket API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "YAML config file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "data directory (overrides config)")
}

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes, and duration per request.
func requestLogger(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Info("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Int("bytes", sw.bytes),
			zap.Duration("dur", time.Since(start).Round(time.Millisecond)),
		)
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveData != "" {
		cfg.DataDir = serveData
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	// Wire providers → use cases → HTTP adapter.
	s := solver.New()
	uc := usecase.NewService(
		s,
		generator.NewUniqueGenerator(s),
		validator.New(),
		hint.New(),
		storage.NewFS(cfg.DataDir),
		storage.NewHighscoreFile(cfg.HighscorePath),
	)
	h := httpadapter.New(uc)
	h.DefaultMode = domain.ParseSolveMode(cfg.Mode)

	mux := http.NewServeMux()
	h.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.String("data", cfg.DataDir),
		zap.String("mode", cfg.Mode))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
