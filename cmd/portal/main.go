package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/forvalt/klientportal/pkg/clientregistry"
	registryapi "github.com/forvalt/klientportal/pkg/clientregistry/api"
	"github.com/forvalt/klientportal/pkg/config"
	"github.com/forvalt/klientportal/pkg/digdir"
	"github.com/forvalt/klientportal/pkg/notify"
	"github.com/forvalt/klientportal/pkg/scopecatalog"
	"github.com/forvalt/klientportal/pkg/validation"
)

type Config struct {
	BaseUrl       string `env:"BASE_URL" env-default:"http://localhost:4000"`
	EncryptionKey string `env:"CLIENT_SECRET_ENCRYPTION_KEY" env-default:""`
	ScopeFile     string `env:"SCOPE_CATALOG_FILE" env-default:""`
	DbConfig      config.DatabaseConfig
	AppConfig     app.AppConfig
	JwtConfig     config.JwtConfig
	EmailConfig   config.EmailConfig
	DigdirConfig  config.DigdirConfig
}

// loadEnvFile loads environment variables from .env file if it exists
// Only sets variables that are not already set in the environment
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Error("Failed to get executable path", "error", err)
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")

	// Also check current working directory
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to get current working directory", "error", err)
			return
		}
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Info("No .env file found", "path", envFile)
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "error", err, "path", envFile)
		return
	}
}

// newDigdirClient builds the self-service API client, or returns nil
// when the integration is not configured.
func newDigdirClient(cfg Config) *digdir.Client {
	if !cfg.DigdirConfig.IsConfigured() {
		return nil
	}
	if errs := cfg.DigdirConfig.Validate(); len(errs) > 0 {
		slog.Error("Invalid self-service API configuration", "error", errs.Error())
		os.Exit(-1)
	}
	clientConfig, err := cfg.DigdirConfig.ToClientConfig()
	if err != nil {
		slog.Error("Failed to load self-service API credentials", "error", err)
		os.Exit(-1)
	}
	apiClient, err := digdir.NewClient(clientConfig)
	if err != nil {
		slog.Error("Failed to create self-service API client", "error", err)
		os.Exit(-1)
	}
	return apiClient
}

// newScopeRepository picks the catalog backing in order of preference:
// the self-service API when configured, otherwise a JSON file, otherwise
// an empty in-memory catalog.
func newScopeRepository(cfg Config, apiClient *digdir.Client) (scopecatalog.ScopeRepository, func()) {
	if apiClient != nil {
		adapter := digdir.NewCatalogAdapter(apiClient, cfg.DigdirConfig.CacheTTL)
		slog.Info("Scope catalog backed by the self-service API", "base_url", cfg.DigdirConfig.BaseURL)
		return adapter, adapter.Stop
	}

	if cfg.ScopeFile != "" {
		repo, err := scopecatalog.NewFileScopeRepository(cfg.ScopeFile)
		if err != nil {
			slog.Error("Failed to load scope catalog file", "error", err, "path", cfg.ScopeFile)
			os.Exit(-1)
		}
		slog.Info("Scope catalog backed by file", "path", cfg.ScopeFile)
		return repo, func() {}
	}

	slog.Warn("No scope catalog configured, lifetime analysis will find no conflicts")
	return scopecatalog.NewInMemoryScopeRepository(), func() {}
}

func main() {
	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	// Load .env file if it exists (before reading environment variables)
	loadEnvFile()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	if errs := cfg.JwtConfig.Validate(); len(errs) > 0 {
		slog.Error("Invalid JWT configuration", "error", errs.Error())
		os.Exit(-1)
	}

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)

	// Client registration storage. Falls back to in-memory when no
	// database host is configured, useful for local development.
	var clientRepo clientregistry.ClientRepository
	if cfg.DbConfig.IsConfigured() {
		if errs := cfg.DbConfig.Validate(); len(errs) > 0 {
			slog.Error("Invalid database configuration", "error", errs.Error())
			os.Exit(-1)
		}
		pool, err := dbutils.NewDbPool(context.Background(), cfg.DbConfig.ToDbConfig())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", cfg.DbConfig.Database, "host", cfg.DbConfig.Host,
				"port", cfg.DbConfig.Port, "user", cfg.DbConfig.User, "schema", cfg.DbConfig.Schema)
			os.Exit(-1)
		}
		defer pool.Close()

		clientRepo, err = clientregistry.NewPostgresClientRepository(pool)
		if err != nil {
			slog.Error("Failed creating client repository", "error", err)
			os.Exit(-1)
		}
	} else {
		slog.Warn("No database configured, using in-memory client storage")
		clientRepo = clientregistry.NewInMemoryClientRepository()
	}

	apiClient := newDigdirClient(cfg)
	scopeRepo, stopCatalog := newScopeRepository(cfg, apiClient)
	defer stopCatalog()
	catalogService := scopecatalog.NewCatalogService(scopeRepo)

	registryOpts := []clientregistry.Option{
		clientregistry.WithValidator(validation.NewValidator()),
		clientregistry.WithCatalog(catalogService),
	}

	if cfg.EncryptionKey != "" {
		encryption, err := clientregistry.NewEncryptionService(cfg.EncryptionKey)
		if err != nil {
			slog.Error("Failed to initialize secret encryption", "error", err)
			os.Exit(-1)
		}
		registryOpts = append(registryOpts, clientregistry.WithEncryption(encryption))
	} else {
		slog.Warn("No encryption key configured, client secrets are stored in plain text")
	}

	if cfg.EmailConfig.IsConfigured() {
		if errs := cfg.EmailConfig.Validate(); len(errs) > 0 {
			slog.Error("Invalid email configuration", "error", errs.Error())
			os.Exit(-1)
		}
		emailNotifier, err := notify.NewEmailNotifier(cfg.EmailConfig.ToSMTPConfig())
		if err != nil {
			slog.Error("Failed to initialize email notifier", "error", err)
			os.Exit(-1)
		}
		manager := notify.NewManager(emailNotifier)
		registryOpts = append(registryOpts, clientregistry.WithNotifier(manager, cfg.EmailConfig.To))
	}

	// Without a registrar, Submit keeps registrations in the
	// submitted state.
	if apiClient != nil {
		registryOpts = append(registryOpts, clientregistry.WithRegistrar(apiClient))
	}

	registryService := clientregistry.NewRegistryServiceWithOptions(clientRepo, registryOpts...)

	handle := registryapi.NewHandle(
		registryapi.WithRegistryService(registryService),
		registryapi.WithCatalogService(catalogService),
	)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.Secret), nil)
	server.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))

		apiRouter := chi.NewRouter()
		handle.RegisterRoutes(apiRouter)
		r.Mount("/api/v1", apiRouter)
	})

	slog.Info("Starting portal", "base_url", cfg.BaseUrl)
	server.Run()
}
