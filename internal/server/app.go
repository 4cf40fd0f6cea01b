// Package server assembles and runs the resumehub backend: it opens the
// database, applies migrations, wires repositories, services, the
// notification dispatcher and object storage, and serves the HTTP API until
// a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/resumehub/internal/logging"
	"github.com/dmitrijs2005/resumehub/internal/server/auth"
	"github.com/dmitrijs2005/resumehub/internal/server/config"
	"github.com/dmitrijs2005/resumehub/internal/server/httpapi"
	"github.com/dmitrijs2005/resumehub/internal/server/notify"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/resumehub/internal/server/services"
	"github.com/dmitrijs2005/resumehub/internal/server/storage"
	"github.com/redis/go-redis/v9"
)

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRedisClient = func(opts *redis.Options) redis.UniversalClient {
		return redis.NewClient(opts)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      redis.UniversalClient
	dispatcher *notify.Dispatcher
	http       *httpapi.HTTPServer
}

// NewApp opens the database, migrates it and builds every component.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var opts []repomanager.Option
	if c.RefreshTokenStore == config.StoreRedis {
		app.redis = newRedisClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		opts = append(opts, repomanager.WithRedisRefreshTokens(app.redis))
	}

	m := newRepositoryManager(opts...)
	if err := m.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app.dispatcher = notify.NewDispatcher(app.notifier(), logger, notify.DefaultSendTimeout)

	tokens := services.NewTokenService(db, m, c)
	recorder := services.NewHistoryRecorder(db, m)
	objects := storage.NewS3Storage(storage.S3Config{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	app.http = httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, httpapi.Services{
		Accounts: services.NewAccountService(db, m, tokens, auth.NewBcryptHasher(c.BcryptCost), app.dispatcher, c.AdminSecret, logger),
		Tokens:   tokens,
		Profiles: services.NewProfileService(db, m, recorder),
		Resumes:  services.NewResumeService(db, m, recorder, objects, logger),
	}, c.CORSAllowedOrigins)

	return app, nil
}

// notifier mails codes when SMTP is configured and logs them otherwise.
func (app *App) notifier() notify.Notifier {
	if app.config.SMTPHost == "" {
		app.logger.Warn(context.Background(), "SMTP host not set, verification codes are logged")
		return notify.NewLogNotifier(app.logger)
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     app.config.SMTPHost,
		Port:     app.config.SMTPPort,
		Username: app.config.SMTPUsername,
		Password: app.config.SMTPPassword,
		From:     app.config.MailFrom,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// waits for in-flight verification emails and releases connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.dispatcher.Wait()
	app.close()

	app.logger.Info(ctx, "App stopped")
}

func (app *App) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(context.Background(), "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
}
