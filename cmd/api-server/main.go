package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/protomem/medicall/internal/account"
	"github.com/protomem/medicall/internal/auth"
	"github.com/protomem/medicall/internal/env"
	"github.com/protomem/medicall/internal/marketplace"
	"github.com/protomem/medicall/internal/media"
	"github.com/protomem/medicall/internal/notify"
	"github.com/protomem/medicall/internal/rates"
	"github.com/protomem/medicall/internal/reminder"
	"github.com/protomem/medicall/internal/version"
	"github.com/redis/go-redis/v9"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

// @title MediCall
// @description Healthcare staffing marketplace API
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token
func main() {
	flag.Parse()

	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return
	}

	if *_cfgFile != "" {
		if err := env.Load(*_cfgFile); err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(env.GetString("LOG_LEVEL", "debug")),
	}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	baseURL  string
	httpHost string
	httpPort int
	env      string
	db       struct {
		dsn         string
		automigrate bool
	}
	redisURL string
	jwt      struct {
		secret     string
		accessTTL  time.Duration
		refreshTTL time.Duration
	}
	rates struct {
		timeout  time.Duration
		cacheTTL time.Duration
	}
	media struct {
		dir    string
		bucket string
		region string
	}
	reminder struct {
		spec string
		lead time.Duration
	}
}

func (cfg config) production() bool {
	return cfg.env == "production"
}

type application struct {
	config config
	logger *slog.Logger

	accounts *account.Service
	catalog  *marketplace.Catalog
	workflow *marketplace.Workflow
	ledger   *marketplace.Ledger
	inbox    *notify.Service
	rates    *rates.Service

	// mediaDir is served under /media when pictures are kept on local disk.
	mediaDir string
}

func loadConfig() config {
	var cfg config

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.baseURL = env.GetString("BASE_URL", "http://"+fmtHTTPAddr(cfg.httpHost, cfg.httpPort))
	cfg.env = env.GetString("APP_ENV", "development")
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/medicall")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.redisURL = env.GetString("REDIS_URL", "")
	cfg.jwt.secret = env.GetString("JWT_SECRET", "")
	cfg.jwt.accessTTL = env.GetDuration("JWT_ACCESS_TTL", auth.DefaultAccessTTL)
	cfg.jwt.refreshTTL = env.GetDuration("JWT_REFRESH_TTL", auth.DefaultRefreshTTL)
	cfg.rates.timeout = env.GetDuration("RATES_PROVIDER_TIMEOUT", rates.DefaultTimeout)
	cfg.rates.cacheTTL = env.GetDuration("RATES_CACHE_TTL", rates.DefaultCacheTTL)
	cfg.media.dir = env.GetString("MEDIA_DIR", "media")
	cfg.media.bucket = env.GetString("MEDIA_BUCKET", "")
	cfg.media.region = env.GetString("AWS_REGION", "us-east-1")
	cfg.reminder.spec = env.GetString("REMINDER_SPEC", reminder.DefaultSpec)
	cfg.reminder.lead = env.GetDuration("REMINDER_LEAD", reminder.DefaultLead)

	return cfg
}

func run(logger *slog.Logger) error {
	cfg := loadConfig()

	if cfg.jwt.secret == "" {
		if cfg.production() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.jwt.secret = "insecure-development-secret"
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(logger, cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer st.Close()

	var rdb *redis.Client
	if cfg.redisURL != "" {
		rdb, err = newRedisClient(ctx, cfg.redisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	app := &application{
		config: cfg,
		logger: logger,
	}

	pictures, err := app.pictureStorage(ctx)
	if err != nil {
		return err
	}

	var publisher notify.Publisher = notify.NopPublisher{}
	rateService := rates.NewService(logger, rates.DefaultProviders(), cfg.rates.timeout)
	if rdb != nil {
		publisher = notify.NewRedisPublisher(rdb)
		rateService.WithCache(rates.NewRedisCache(rdb), cfg.rates.cacheTTL)
	}

	app.inbox = notify.NewService(logger, st.notifications, st.preferences, publisher)
	app.accounts = account.NewService(logger, account.Deps{
		Users:     st.users,
		Workers:   st.workers,
		Hospitals: st.hospitals,
		Tokens:    st.tokens,
		Pictures:  pictures,
		Issuer:    auth.NewIssuer(cfg.jwt.secret, cfg.jwt.accessTTL, cfg.jwt.refreshTTL),
	})
	app.catalog = marketplace.NewCatalog(logger, st.shifts)
	app.workflow = marketplace.NewWorkflow(logger, st.shifts, st.applications, app.inbox)
	app.ledger = marketplace.NewLedger(logger, st.reviews)
	app.rates = rateService

	scheduler := reminder.New(logger, st.applications, app.inbox, st.tokens, cfg.reminder.spec, cfg.reminder.lead)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	return app.serveHTTP(ctx, scheduler)
}

func (app *application) pictureStorage(ctx context.Context) (account.PictureStorage, error) {
	if app.config.media.bucket != "" {
		return media.LoadS3Storage(ctx, app.config.media.bucket, app.config.media.region)
	}

	disk, err := media.NewDiskStorage(app.config.media.dir, app.config.baseURL)
	if err != nil {
		return nil, err
	}
	if !app.config.production() {
		app.mediaDir = disk.Dir()
	}
	return disk, nil
}

func newRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelDebug
	}
	return level
}
