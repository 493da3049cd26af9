package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"github.com/aretw0/intervista/internal/config"
	"github.com/aretw0/intervista/internal/logging"
	"github.com/aretw0/intervista/pkg/adapters/file"
	"github.com/aretw0/intervista/pkg/adapters/redis"
	"github.com/aretw0/intervista/pkg/api"
	"github.com/aretw0/intervista/pkg/contract"
	"github.com/aretw0/intervista/pkg/controller"
	"github.com/aretw0/intervista/pkg/credentials"
	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/observability"
	"github.com/aretw0/intervista/pkg/persistence/middleware"
	"github.com/aretw0/intervista/pkg/ports"
	"github.com/aretw0/intervista/pkg/transport"
)

// App holds the collaborators every command shares.
type App struct {
	Config      config.Config
	Logger      *slog.Logger
	API         *api.Client
	Credentials ports.CredentialProvider
	Registry    *prometheus.Registry
	Metrics     *observability.Metrics

	store   ports.TokenStore
	closers []func() error
}

// ErrNoTokenStore is returned when neither auth.token_file nor auth.redis_addr is configured.
var ErrNoTokenStore = errors.New("no token store configured (set auth.token_file or auth.redis_addr)")

// NewApp wires the transport, credentials and metrics described by cfg.
// debug forces debug logging regardless of log.level.
func NewApp(cfg config.Config, debug bool) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	app := &App{
		Config:   cfg,
		Logger:   logging.New(level),
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = observability.NewMetrics(app.Registry)
	if err := app.wire(); err != nil {
		return nil, err
	}
	return app, nil
}

// wire builds the credential chain and the API client. On failure every
// resource opened so far is closed.
func (a *App) wire() (err error) {
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	creds, err := a.credentials()
	if err != nil {
		return err
	}
	a.Credentials = creds

	opts := []transport.Option{
		transport.WithCredentials(a.Credentials),
		transport.WithLogger(a.Logger),
	}
	if a.Config.API.ValidateResponses {
		v, err := contract.NewValidator()
		if err != nil {
			return fmt.Errorf("failed to load contract: %w", err)
		}
		opts = append(opts, transport.WithValidator(v))
	}
	tc, err := transport.New(a.Config.API.BaseURL, opts...)
	if err != nil {
		return err
	}
	a.API = api.New(tc)
	return nil
}

// credentials builds the provider chain: explicit token, environment, then the
// writable store (token file or redis).
func (a *App) credentials() (ports.CredentialProvider, error) {
	var providers []ports.CredentialProvider
	if a.Config.Auth.Token != "" {
		providers = append(providers, credentials.Static(a.Config.Auth.Token))
	}
	providers = append(providers, credentials.FromEnv(credentials.EnvToken))

	store, err := a.openTokenStore()
	if err != nil {
		return nil, err
	}
	if store != nil {
		providers = append(providers, store)
	}
	a.store = store
	return credentials.Chain(providers...), nil
}

// openTokenStore opens the configured writable token store, encrypted when
// auth.token_key is set. It returns nil when neither a file nor redis is configured.
func (a *App) openTokenStore() (ports.TokenStore, error) {
	var store ports.TokenStore
	switch {
	case a.Config.Auth.TokenFile != "":
		store = file.New(a.Config.Auth.TokenFile)
	case a.Config.Auth.RedisAddr != "":
		var opts []redis.Option
		if a.Config.Auth.RedisKey != "" {
			opts = append(opts, redis.WithKey(a.Config.Auth.RedisKey))
		}
		rs := redis.New(a.Config.Auth.RedisAddr, "", 0, opts...)
		a.closers = append(a.closers, rs.Close)
		store = rs
	default:
		return nil, nil
	}

	if a.Config.Auth.TokenKey == "" {
		return store, nil
	}
	key, err := middleware.ParseKey(a.Config.Auth.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("invalid auth.token_key: %w", err)
	}
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		return nil, err
	}
	return encrypt(store), nil
}

// TokenStore returns the writable token store, or ErrNoTokenStore.
func (a *App) TokenStore() (ports.TokenStore, error) {
	if a.store == nil {
		return nil, ErrNoTokenStore
	}
	return a.store, nil
}

// Controller creates a practice controller for the configured role, reporting
// to the app's logger and metrics.
func (a *App) Controller(role *domain.JobRole, opts ...controller.Option) *controller.Controller {
	if role == nil && a.Config.Practice.JobRole != "" {
		role = &domain.JobRole{Title: a.Config.Practice.JobRole}
	}
	base := []controller.Option{
		controller.WithLogger(a.Logger),
		controller.WithRole(role),
		controller.WithDebounce(a.Config.Practice.Debounce),
		controller.WithRecorder(a.API),
		controller.WithLifecycleHooks(a.Metrics.Hooks()),
		controller.WithLifecycleHooks(observability.LoggingHooks(a.Logger)),
	}
	return controller.New(a.API, append(base, opts...)...)
}

// ServeMetrics exposes /metrics on metrics.addr in the background. It is a
// no-op when no address is configured.
func (a *App) ServeMetrics() {
	if a.Config.Metrics.Addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: a.Config.Metrics.Addr, Handler: mux}
	a.closers = append(a.closers, srv.Close)
	go func() {
		a.Logger.Info("metrics listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Close releases the redis client and the metrics listener.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
