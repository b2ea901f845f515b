package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/google"
	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/logging"
	"github.com/teemow/drivekit/internal/platform"
)

// ErrShutdown is returned for client lookups after Shutdown.
var ErrShutdown = errors.New("server is shutting down")

// ClientFactory creates the Drive client for an account.
type ClientFactory func(ctx context.Context, account string) (*drive.Client, error)

// Authorizer runs the OAuth code flow for an account.
// *google.FileTokenProvider implements it.
type Authorizer interface {
	AuthURL(account string) string
	SaveToken(ctx context.Context, account, authCode string) error
}

// ServerContext holds the state shared by all MCP handlers.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	tokens      google.TokenProvider
	authorizer  Authorizer
	driveConfig drive.ClientConfig
	newClient   ClientFactory
	platform    platform.Client
	metrics     *instrumentation.Metrics
	audit       *instrumentation.AuditLogger
	logger      *slog.Logger
	account     string

	mu       sync.RWMutex
	clients  map[string]*drive.Client // account name -> client
	registry *drive.OperationRegistry
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithTokenProvider sets the token source for Drive clients.
func WithTokenProvider(tp google.TokenProvider) Option {
	return func(sc *ServerContext) { sc.tokens = tp }
}

// WithAuthorizer enables the OAuth tools.
func WithAuthorizer(a Authorizer) Option {
	return func(sc *ServerContext) { sc.authorizer = a }
}

// WithDriveConfig sets the template used for every account's client. The
// account, logger, metrics, audit and registry fields are filled in.
func WithDriveConfig(cfg drive.ClientConfig) Option {
	return func(sc *ServerContext) { sc.driveConfig = cfg }
}

// WithClientFactory replaces client creation, mainly for tests.
func WithClientFactory(f ClientFactory) Option {
	return func(sc *ServerContext) { sc.newClient = f }
}

// WithPlatform sets the platform adapter serving bundled resources.
func WithPlatform(p platform.Client) Option {
	return func(sc *ServerContext) { sc.platform = p }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithAuditLogger sets the audit logger.
func WithAuditLogger(a *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.audit = a }
}

// WithDefaultAccount sets the account used when a request names none.
func WithDefaultAccount(account string) Option {
	return func(sc *ServerContext) {
		if account != "" {
			sc.account = account
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// NewServerContext creates a server context. Drive clients are created
// lazily on first use.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		logger:   slog.Default(),
		account:  google.DefaultAccount,
		clients:  make(map[string]*drive.Client),
		registry: drive.NewOperationRegistry(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.logger = logging.WithComponent(sc.logger, "server")

	if sc.newClient == nil {
		if sc.tokens == nil {
			cancel()
			return nil, errors.New("either a token provider or a client factory is required")
		}
		sc.newClient = sc.defaultClientFactory
	}
	return sc, nil
}

func (sc *ServerContext) defaultClientFactory(ctx context.Context, account string) (*drive.Client, error) {
	cfg := sc.driveConfig
	cfg.Account = account
	cfg.Logger = sc.logger
	cfg.Metrics = sc.metrics
	cfg.Audit = sc.audit
	cfg.Registry = sc.registry
	return drive.NewClientForAccount(ctx, sc.tokens, cfg)
}

// Context returns the server context. It is cancelled by Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// DefaultAccount returns the account used when a request names none.
func (sc *ServerContext) DefaultAccount() string {
	return sc.account
}

// DriveClientForAccount returns the cached Drive client for account,
// creating it on first use. An empty account selects DefaultAccount.
func (sc *ServerContext) DriveClientForAccount(account string) (*drive.Client, error) {
	if account == "" {
		account = sc.account
	}
	if err := google.ValidateAccountName(account); err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, ErrShutdown
	}
	if client, ok := sc.clients[account]; ok {
		return client, nil
	}

	if sc.tokens != nil && !sc.tokens.HasTokenForAccount(account) {
		return nil, fmt.Errorf("%s", google.AuthenticationErrorMessage(account))
	}

	client, err := sc.newClient(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Drive client", logging.Account(account), logging.Err(err))
		return nil, fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
	}

	sc.clients[account] = client
	return client, nil
}

// SetDriveClientForAccount replaces the cached client for account.
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.clients[account] = client
}

// Accounts returns the number of accounts with a cached client.
func (sc *ServerContext) Accounts() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.clients)
}

// Authorizer returns the OAuth authorizer, or nil.
func (sc *ServerContext) Authorizer() Authorizer {
	return sc.authorizer
}

// Platform returns the platform adapter, or nil.
func (sc *ServerContext) Platform() platform.Client {
	return sc.platform
}

// Metrics returns the metrics recorder, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.audit
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Registry returns the operation registry shared by default clients.
func (sc *ServerContext) Registry() *drive.OperationRegistry {
	return sc.registry
}

// InFlight returns the number of Drive operations started by default clients
// that have not completed.
func (sc *ServerContext) InFlight() int {
	return sc.registry.Len()
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and every in-flight Drive operation.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.registry.CancelAll()
	sc.cancel()
	return nil
}
