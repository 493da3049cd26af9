package intervista

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/intervista/pkg/api"
	"github.com/aretw0/intervista/pkg/contract"
	"github.com/aretw0/intervista/pkg/controller"
	"github.com/aretw0/intervista/pkg/credentials"
	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/ports"
	"github.com/aretw0/intervista/pkg/transport"
)

// Practice is the high-level entry point: a controller bound to a backend.
type Practice struct {
	*controller.Controller
	api *api.Client
}

type options struct {
	credentials ports.CredentialProvider
	httpClient  *http.Client
	logger      *slog.Logger
	role        *domain.JobRole
	hooks       []domain.LifecycleHooks
	debounce    time.Duration
	validate    bool
}

// Option defines a functional option for New.
type Option func(*options)

// WithToken attaches a static bearer token to every request.
func WithToken(token string) Option {
	return func(o *options) {
		o.credentials = credentials.Static(token)
	}
}

// WithCredentials sets the credential provider consulted on every request.
func WithCredentials(p ports.CredentialProvider) Option {
	return func(o *options) {
		o.credentials = p
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRole selects the job role by title.
func WithRole(title string) Option {
	return func(o *options) {
		o.role = &domain.JobRole{Title: title}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks)
	}
}

// WithDebounce drops repeated start, regenerate and submit intents arriving within d.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithResponseValidation checks every response body against the published contract.
func WithResponseValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

// New creates a practice session against the backend at baseURL.
func New(baseURL string, opts ...Option) (*Practice, error) {
	o := &options{
		credentials: credentials.FromEnv(credentials.EnvToken),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	topts := []transport.Option{
		transport.WithCredentials(o.credentials),
		transport.WithLogger(o.logger),
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	if o.validate {
		v, err := contract.NewValidator()
		if err != nil {
			return nil, err
		}
		topts = append(topts, transport.WithValidator(v))
	}
	tc, err := transport.New(baseURL, topts...)
	if err != nil {
		return nil, err
	}
	client := api.New(tc)

	copts := []controller.Option{
		controller.WithLogger(o.logger),
		controller.WithRole(o.role),
		controller.WithDebounce(o.debounce),
		controller.WithRecorder(client),
	}
	for _, h := range o.hooks {
		copts = append(copts, controller.WithLifecycleHooks(h))
	}

	return &Practice{
		Controller: controller.New(client, copts...),
		api:        client,
	}, nil
}

// JobRoles lists the roles the backend offers.
func (p *Practice) JobRoles(ctx context.Context) ([]domain.JobRole, error) {
	return p.api.ListJobRoles(ctx)
}

// Ping probes the backend.
func (p *Practice) Ping(ctx context.Context) error {
	_, err := p.api.Ping(ctx)
	return err
}
