package drive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	drive "google.golang.org/api/drive/v2"

	"github.com/teemow/drivekit/internal/google"
	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/loop"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// Account names the stored OAuth token to use. Defaults to "default".
	Account string

	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// RateLimit is the maximum number of requests per second; 0 disables
	// limiting. RateBurst is the token bucket size.
	RateLimit float64
	RateBurst int

	Retry RetryConfig

	Logger   *slog.Logger
	Metrics  *instrumentation.Metrics
	Audit    *instrumentation.AuditLogger
	Registry *OperationRegistry
}

// Client is a synchronous Drive client bound to one account. Each call starts
// an operation, runs a private main loop until the callback has fired and
// returns the converted result. Calls are safe for concurrent use.
type Client struct {
	runner  *Runner
	urls    *URLGenerator
	account string
	logger  *slog.Logger
}

// NewClient creates a Client that sends requests with httpClient, which must
// already carry authentication.
func NewClient(httpClient *http.Client, cfg ClientConfig) (*Client, error) {
	if cfg.Account == "" {
		cfg.Account = google.DefaultAccount
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	urls, err := NewURLGenerator(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	// Each call supplies its own loop through StartWith.
	runner := NewRunner(httpClient, nil,
		WithLogger(cfg.Logger),
		WithMetrics(cfg.Metrics),
		WithAudit(cfg.Audit),
		WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		WithRegistry(cfg.Registry),
		WithAccount(cfg.Account),
	)

	return &Client{
		runner:  runner,
		urls:    urls,
		account: cfg.Account,
		logger:  cfg.Logger,
	}, nil
}

// NewClientForAccount creates a Client using the token stored for
// cfg.Account. Requests are retried on 429, 5xx and connection errors.
// Returns an error if no valid token exists.
func NewClientForAccount(ctx context.Context, auth google.TokenProvider, cfg ClientConfig) (*Client, error) {
	if cfg.Account == "" {
		cfg.Account = google.DefaultAccount
	}
	httpClient, err := google.HTTPClientForAccount(ctx, auth, cfg.Account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s. Please authorize access first: %w", cfg.Account, err)
	}
	return NewClient(NewRetryingHTTPClient(httpClient, cfg.Retry, cfg.Logger), cfg)
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// Runner returns the runner executing this client's operations. Its
// dispatcher is nil, so callers must use StartWith.
func (c *Client) Runner() *Runner {
	return c.runner
}

// URLs returns the URL generator for this client's base URL.
func (c *Client) URLs() *URLGenerator {
	return c.urls
}

// Registry returns the registry of this client's in-flight operations.
func (c *Client) Registry() *OperationRegistry {
	return c.runner.Registry()
}

// do runs op to completion on a fresh loop and returns the delivered code.
// Cancelling ctx cancels the operation.
func (c *Client) do(ctx context.Context, op Operation) (Code, error) {
	l := loop.NewWithLogger(c.logger)
	h := c.runner.StartWith(ctx, l, op)
	stop := context.AfterFunc(ctx, h.Cancel)
	defer stop()

	go func() {
		<-h.Done()
		l.Quit()
	}()
	if err := l.Run(context.WithoutCancel(ctx)); err != nil {
		return CodeOtherError, fmt.Errorf("%s: main loop: %w", op.Name(), err)
	}

	code := h.Code()
	return code, newError(op.Name(), code)
}

func emptyResponse(op string) error {
	return fmt.Errorf("%s: %w", op, ErrEmptyResponse)
}

// About returns information about the user's Drive.
func (c *Client) About(ctx context.Context) (*AboutInfo, error) {
	var about *drive.About
	if _, err := c.do(ctx, NewGetAboutOperation(c.urls, func(_ Code, a *drive.About) { about = a })); err != nil {
		return nil, err
	}
	if about == nil {
		return nil, emptyResponse(OpGetAbout)
	}
	return convertToAboutInfo(about), nil
}

// Apps lists the apps installed for the user.
func (c *Client) Apps(ctx context.Context) ([]*AppInfo, error) {
	var list *drive.AppList
	if _, err := c.do(ctx, NewGetAppListOperation(c.urls, func(_ Code, l *drive.AppList) { list = l })); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, emptyResponse(OpGetAppList)
	}
	return convertToAppInfos(list), nil
}

// Changes returns one page of the change feed. pageURL, when non-empty, is
// a NextLink from a previous page and takes precedence. Otherwise only
// changes at or after startChangestamp are returned (0 for all).
func (c *Client) Changes(ctx context.Context, pageURL string, startChangestamp int64) (*ChangePage, error) {
	var list *drive.ChangeList
	op := NewGetChangeListOperation(c.urls, pageURL, startChangestamp, func(_ Code, l *drive.ChangeList) { list = l })
	if _, err := c.do(ctx, op); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, emptyResponse(OpGetChangeList)
	}
	return convertToChangePage(list), nil
}

// Files returns one page of the file listing, optionally filtered by a Drive
// search query such as "title contains 'report'".
func (c *Client) Files(ctx context.Context, pageURL, search string) (*FilePage, error) {
	var list *drive.FileList
	op := NewGetFileListOperation(c.urls, pageURL, search, func(_ Code, l *drive.FileList) { list = l })
	if _, err := c.do(ctx, op); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, emptyResponse(OpGetFileList)
	}
	return convertToFilePage(list), nil
}

// File retrieves metadata for a file or folder.
func (c *Client) File(ctx context.Context, fileID string) (*FileInfo, error) {
	return c.fileOperation(ctx, func(cb GetFileCallback) Operation {
		return NewGetFileOperation(c.urls, fileID, cb)
	})
}

// CreateDirectory creates a folder named name inside parentID.
func (c *Client) CreateDirectory(ctx context.Context, parentID, name string) (*FileInfo, error) {
	return c.fileOperation(ctx, func(cb GetFileCallback) Operation {
		return NewCreateDirectoryOperation(c.urls, parentID, name, cb)
	})
}

// fileOperation runs an operation whose callback receives a drive.File.
func (c *Client) fileOperation(ctx context.Context, build func(GetFileCallback) Operation) (*FileInfo, error) {
	var file *drive.File
	op := build(func(_ Code, f *drive.File) { file = f })
	if _, err := c.do(ctx, op); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, emptyResponse(op.Name())
	}
	return convertToFileInfo(file), nil
}

// Rename changes the title of a file or folder.
func (c *Client) Rename(ctx context.Context, resourceID, newName string) error {
	_, err := c.do(ctx, NewRenameResourceOperation(c.urls, resourceID, newName, func(Code) {}))
	return err
}

// Trash moves a file or folder to the trash.
func (c *Client) Trash(ctx context.Context, resourceID string) error {
	_, err := c.do(ctx, NewTrashResourceOperation(c.urls, resourceID, func(Code) {}))
	return err
}

// AddChild adds an existing resource to the folder parentID.
func (c *Client) AddChild(ctx context.Context, parentID, resourceID string) error {
	_, err := c.do(ctx, NewInsertResourceOperation(c.urls, parentID, resourceID, func(Code) {}))
	return err
}

// RemoveChild removes a resource from the folder parentID.
func (c *Client) RemoveChild(ctx context.Context, parentID, resourceID string) error {
	_, err := c.do(ctx, NewDeleteResourceOperation(c.urls, parentID, resourceID, func(Code) {}))
	return err
}
