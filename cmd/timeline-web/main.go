package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/timeline/internal/config"
	"github.com/ehr/timeline/internal/domain/changes"
	"github.com/ehr/timeline/internal/domain/diagnosis"
	"github.com/ehr/timeline/internal/domain/documents"
	"github.com/ehr/timeline/internal/domain/medication"
	"github.com/ehr/timeline/internal/domain/timeline"
	"github.com/ehr/timeline/internal/platform/middleware"
	"github.com/ehr/timeline/internal/platform/recordsapi"
	"github.com/ehr/timeline/internal/platform/reporting"
	"github.com/ehr/timeline/internal/platform/web"
	"github.com/ehr/timeline/internal/viewmodel"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "timeline-web",
		Short:        "Patient timeline frontend for the medical records API",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(fetchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func timelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Print the patient timeline, medications, diagnoses and changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cliLogger()
			vm := newViewModel(newClient(cfg, logger), logger)
			defer vm.Close()

			// Failed sections are printed inline, like the web page does.
			_ = vm.LoadAll(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(vm.Snapshot()))
			return nil
		},
	}
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file.med...]",
		Short: "Upload .med files to the records API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runUpload(cmd.Context(), newClient(cfg, cliLogger()), args, cmd.OutOrStdout())
		},
	}
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Ask the records API to fetch new records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			msg, err := newClient(cfg, cliLogger()).TriggerFetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

type uploader interface {
	Upload(ctx context.Context, files []recordsapi.UploadFile) (*recordsapi.UploadResult, error)
}

// runUpload sends paths as one upload. No paths means nothing is sent.
func runUpload(ctx context.Context, client uploader, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return nil
	}

	files := make([]recordsapi.UploadFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		defer f.Close()
		files = append(files, recordsapi.UploadFile{Name: filepath.Base(p), Reader: f})
	}

	res, err := client.Upload(ctx, files)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	fmt.Fprintln(out, res.Text())
	if !res.OK {
		return fmt.Errorf("upload rejected")
	}
	return nil
}

func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}

func newClient(cfg *config.Config, logger zerolog.Logger) *recordsapi.Client {
	return recordsapi.New(cfg.RecordsAPIURL,
		recordsapi.WithTimeout(cfg.RecordsAPITimeout),
		recordsapi.WithLogger(logger),
	)
}

func newViewModel(client *recordsapi.Client, logger zerolog.Logger) *viewmodel.ViewModel {
	return viewmodel.New(viewmodel.Services{
		Timeline:    timeline.NewService(client, logger),
		Medications: medication.NewService(client, logger),
		Diagnoses:   diagnosis.NewService(client, logger),
		Changes:     changes.NewService(client, logger),
	}, logger)
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Error reporting
	reporter, err := reporting.New(cfg.SentryDSN, cfg.Env, version, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize error reporting")
	}
	defer reporter.Flush(2 * time.Second)

	// Records API
	client := newClient(cfg, logger)
	vm := newViewModel(client, logger)
	defer vm.Close()
	logger.Info().Str("records_api", cfg.RecordsAPIURL).Msg("using records api")

	// Echo server
	e := newServer(cfg, vm, client, reporter, logger)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newServer(cfg *config.Config, vm *viewmodel.ViewModel, records web.Records, reporter reporting.Reporter, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = web.NewRenderer()

	// Global middleware
	e.Use(middleware.RecoveryWithReporter(logger, reporter))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
	}
	if cfg.RateLimitBurst > 0 {
		rateLimitCfg.BurstSize = cfg.RateLimitBurst
	}

	web.NewHandler(vm, records, reporter, web.Options{
		ReloadDelay:   cfg.ReloadDelay,
		UploadMaxSize: cfg.UploadMaxSize,
		RateLimit:     rateLimitCfg,
	}, logger).RegisterRoutes(e)
	documents.NewHandler(vm).RegisterRoutes(e)

	return e
}
