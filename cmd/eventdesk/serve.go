package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventdesk/internal/auth"
	"eventdesk/internal/db"
	httpx "eventdesk/internal/http"
	"eventdesk/internal/jobs"
	"eventdesk/internal/logx"
	"eventdesk/internal/messaging"
	"eventdesk/internal/upload"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the invite worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.close()
			return serve(cmd.Context(), e, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply migrations before serving")
	return cmd
}

func serve(parent context.Context, e *env, migrate bool) error {
	cfg, log := e.cfg, e.log

	if migrate {
		if err := db.AutoMigrateAndIndexes(e.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	cipher, err := messaging.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return err
	}
	gateway := &messaging.Gateway{
		DB:       e.db,
		Cipher:   cipher,
		Phones:   messaging.PhoneNormalizer{CountryCode: cfg.PhoneCountryCode},
		Provider: messaging.NewClient(cfg.MessagingAPIBase),
		Log:      logx.Component(log, "messaging"),
	}

	relay := &upload.Relay{RootFolder: cfg.StorageRootFolder, Log: logx.Component(log, "upload")}
	if cfg.UploadsEnabled() {
		storage, err := upload.NewDriveStorage(parent, cfg.StorageServiceCredential)
		if err != nil {
			return err
		}
		relay.Storage = storage
	} else {
		log.Warn().Msg("DRIVE_SERVICE_ACCOUNT_JSON or DRIVE_ROOT_FOLDER_ID unset; uploads disabled")
	}

	jobsRepo := &jobs.Repo{DB: e.db}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	waitWorker := func() {}
	if cfg.WorkerEnabled {
		host, _ := os.Hostname()
		worker := &jobs.Worker{
			ID:            fmt.Sprintf("%s-%d", host, os.Getpid()),
			Repo:          jobsRepo,
			DB:            e.db,
			Sender:        gateway,
			PublicBaseURL: cfg.PublicBaseURL,
			Log:           logx.Component(log, "worker"),
		}
		waitWorker = runInBackground(ctx, worker.Run)
	}
	// The worker must be gone before the caller closes the pool.
	defer func() {
		stop()
		waitWorker()
	}()

	r := httpx.NewRouter(httpx.Deps{
		Config:   cfg,
		DB:       e.db,
		Log:      log,
		Sessions: auth.NewSessionJWT(cfg.SessionSecret),
		Gateway:  gateway,
		Relay:    relay,
		Jobs:     jobsRepo,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runInBackground starts run on its own goroutine. The returned wait blocks
// until run has returned.
func runInBackground(ctx context.Context, run func(context.Context)) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		run(ctx)
	}()
	return func() { <-done }
}
