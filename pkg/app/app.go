package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"grocerease/pkg/assistant"
	"grocerease/pkg/httpapi"
	"grocerease/pkg/inventory"
	"grocerease/pkg/logging"
	"grocerease/pkg/shopping"
	"grocerease/pkg/storage"
	"grocerease/pkg/version"

	catalogdb "grocerease/internal/inventory"
	sessionstore "grocerease/internal/shopping"
)

// DefaultDataFile is the document written by convert-inventory.
const DefaultDataFile = "inventory.json"

// Config captures CLI flags so the store service can run with a single Run call.
type Config struct {
	showVersion bool
	envFile     string
	port        int
	dataFile    string
	dbType      string
	dbDSN       string
	redisAddr   string
	redisPass   string
	redisDB     int
	sessionTTL  time.Duration
	sampleSize  int
	logLevel    string
	logFormat   string
}

// Run loads the catalog, starts the session service and serves HTTP until ctx is done.
func Run(ctx context.Context, args []string, logger *logrus.Logger) error {
	cfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if logger == nil {
		logger = logging.New(cfg.logLevel, cfg.logFormat)
	} else {
		logging.Configure(logger, cfg.logLevel, cfg.logFormat)
	}

	if cfg.showVersion {
		logger.Infof("grocerease version %s", version.Version())
		return nil
	}

	catalog, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"items": catalog.Len(),
		"faces": len(catalog.UniqueFaceIDs()),
	}).Info("catalog loaded")

	opts := shopping.Options{TTL: cfg.sessionTTL, SweepEvery: sweepInterval(cfg.sessionTTL), Logger: logger}
	if cfg.redisAddr != "" {
		rdb, err := sessionstore.Connect(ctx, cfg.redisAddr, cfg.redisPass, cfg.redisDB)
		if err != nil {
			return fmt.Errorf("unable to connect to redis: %w", err)
		}
		defer rdb.Close()
		opts.Store = sessionstore.NewRedisRepository(rdb, cfg.sessionTTL)
		logger.WithField("addr", cfg.redisAddr).Info("sessions mirrored to redis")
	}
	sessions := shopping.NewService(opts)
	defer sessions.Stop()

	srv, err := httpapi.New(catalog, sessions, assistant.New(catalog), cfg.sampleSize, logger)
	if err != nil {
		return fmt.Errorf("unable to build http server: %w", err)
	}

	addr := cfg.address()
	server := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.LogError(logger, "app", "Run", "graceful shutdown", addr, err)
		}
	}()

	logger.Infof("GrocerEase service is running on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	}
	return nil
}

// loadCatalog reads from the database when a db type is configured, otherwise from the JSON document.
func loadCatalog(ctx context.Context, cfg Config, logger *logrus.Logger) (*inventory.Catalog, error) {
	if cfg.dbType == "" {
		doc, err := inventory.LoadDocument(cfg.dataFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load catalog: %w", err)
		}
		logger.WithField("file", cfg.dataFile).Debug("catalog read from document")
		return doc.Catalog(), nil
	}

	db, err := storage.Open(cfg.dbType, cfg.dbDSN)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	defer storage.Close(db)

	doc, err := catalogdb.NewRepository(db).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load catalog from %s: %w", cfg.dbType, err)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("catalog in %s database is empty; run convert-inventory with -db-type first", cfg.dbType)
	}
	logger.WithField("db_type", cfg.dbType).Debug("catalog read from database")
	return doc.Catalog(), nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = shopping.DefaultTTL
	}
	every := ttl / 4
	if every < time.Second {
		every = time.Second
	}
	return every
}

// address converts CLI port configuration into a binding string.
func (c Config) address() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":" + strconv.Itoa(c.port)
}

// parseFlags uses a dedicated FlagSet so Run can be called from multiple entry points.
// Environment values, optionally loaded from an env file, become the flag defaults.
func parseFlags(args []string) (Config, error) {
	_ = godotenv.Load(envFileArg(args))

	set := flag.NewFlagSet("grocerease", flag.ContinueOnError)
	set.SetOutput(io.Discard)

	var cfg Config
	set.BoolVar(&cfg.showVersion, "version", false, "Show the application version")
	set.StringVar(&cfg.envFile, "env-file", ".env", "Optional dotenv file read before flags are parsed")
	set.IntVar(&cfg.port, "port", 8765, "Port for the HTTP server; PORT overrides it")
	set.StringVar(&cfg.dataFile, "data-file", envString("DATA_FILE", DefaultDataFile), "Catalog document produced by convert-inventory")
	set.StringVar(&cfg.dbType, "db-type", envString("DB_TYPE", ""), "Load the catalog from sqlite, postgres or mysql instead of the data file")
	set.StringVar(&cfg.dbDSN, "db-dsn", envString("DB_DSN", ""), "Database DSN; sqlite defaults to "+storage.DefaultSQLiteFile)
	set.StringVar(&cfg.redisAddr, "redis-addr", envString("REDIS_ADDR", ""), "Mirror sessions to this Redis address")
	set.StringVar(&cfg.redisPass, "redis-password", envString("REDIS_PASSWORD", ""), "Redis password")
	set.IntVar(&cfg.redisDB, "redis-db", envInt("REDIS_DB", 0), "Redis database number")
	set.DurationVar(&cfg.sessionTTL, "session-ttl", envDuration("SESSION_TTL", shopping.DefaultTTL), "Idle time before a shopping session expires")
	set.IntVar(&cfg.sampleSize, "sample-size", envInt("SAMPLE_SIZE", httpapi.DefaultSampleSize), "Items placed on the list by each floor map load")
	set.StringVar(&cfg.logLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level")
	set.StringVar(&cfg.logFormat, "log-format", envString("LOG_FORMAT", "text"), "Log format: text or json")

	if err := set.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.sampleSize <= 0 {
		return Config{}, fmt.Errorf("sample-size must be positive, got %d", cfg.sampleSize)
	}
	if cfg.sessionTTL <= 0 {
		return Config{}, fmt.Errorf("session-ttl must be positive, got %s", cfg.sessionTTL)
	}
	return cfg, nil
}

// envFileArg finds -env-file before the flag set exists, since the file feeds the defaults.
func envFileArg(args []string) string {
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == "env-file" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(name, "env-file="); ok {
			return v
		}
	}
	return ".env"
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
