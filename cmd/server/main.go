// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"iana-intake/internal/common/auth"
	"iana-intake/internal/common/aws"
	"iana-intake/internal/common/botcheck"
	"iana-intake/internal/common/config"
	"iana-intake/internal/common/database"
	"iana-intake/internal/common/logger"
	"iana-intake/internal/common/observability"
	"iana-intake/internal/forms"
	"iana-intake/internal/notify"
	"iana-intake/internal/server"
	"iana-intake/internal/store"
	"iana-intake/internal/workflows/respond"
	"iana-intake/internal/workflows/review"
	"iana-intake/internal/workflows/submission"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake server...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS clients ---
	sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}

	var snsClient *aws.SNSClient
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
	}

	s3Client, err := aws.NewS3Client(ctx, aws.S3Config{
		Bucket:        cfg.Integrations.AWS.S3.Bucket,
		Region:        cfg.Integrations.AWS.Region,
		Endpoint:      cfg.Integrations.AWS.S3.Endpoint,
		PublicBaseURL: cfg.Integrations.AWS.S3.PublicBaseURL,
	})
	if err != nil {
		zapLog.Fatal("s3 client init failed", zap.Error(err))
	}

	zapLog.Info("All external service clients initialized")

	// --- Assemble the application ---
	registry, err := forms.NewRegistry()
	if err != nil {
		zapLog.Fatal("form registry init failed", zap.Error(err))
	}

	appStore := store.NewApplicationStore(pg.DB)
	linkStore := store.NewResponseLinkStore(pg.DB)
	adminStore := store.NewAdminUserStore(pg.DB)

	dispatcher := notify.NewDispatcher(
		notify.NewSESMailer(sesClient),
		snsService(snsClient),
		notify.Config{
			FromEmail:         cfg.Integrations.AWS.SES.FromEmail,
			ApplicationsEmail: cfg.Notifications.ApplicationsEmail,
			BaseURL:           cfg.App.BaseURL,
			StaffPhone:        cfg.Integrations.AWS.SNS.StaffPhone,
			SMSSenderID:       cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
		},
		log, obs,
	)

	var checker submission.BotChecker
	if cfg.Security.BotCheck.Enabled {
		checker = botcheck.NewHTTPChecker(cfg.Security.BotCheck.SecretKey, cfg.Security.BotCheck.VerifyURL)
	}

	submissionSvc := submission.NewService(registry, appStore, linkStore, dispatcher, checker, log, obs)
	respondSvc := respond.NewService(linkStore, appStore, log, obs)
	reviewSvc := review.NewService(appStore, linkStore, log)

	srv := server.New(cfg, server.Deps{
		Submission: submissionSvc,
		Respond:    respondSvc,
		Review:     reviewSvc,
		Uploader:   s3Client,
		Verifier:   auth.NewProviderClient(cfg.Auth.Provider.BaseURL, cfg.Auth.Provider.UserinfoPath),
		AdminUsers: adminStore,
		Redis:      rdb.Client,
		Logger:     log,
		Obs:        obs,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("shutdown did not complete cleanly", zap.Error(err))
		}
	}

	zapLog.Info("Intake server stopped")
}

// snsService keeps the dispatcher's SNS dependency nil when SNS is disabled
// so the staff ping stays a no-op.
func snsService(client *aws.SNSClient) notify.SNSService {
	if client == nil {
		return nil
	}
	return client
}
