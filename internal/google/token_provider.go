package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth token sources per account.
type TokenProvider interface {
	// TokenSourceForAccount returns a token source for account.
	TokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error)

	// HasTokenForAccount checks if a token exists for account.
	HasTokenForAccount(account string) bool
}

// FileTokenProvider stores tokens as JSON files, one per account.
type FileTokenProvider struct {
	config Config
}

// NewFileTokenProvider creates a file-based token provider.
func NewFileTokenProvider(config Config) *FileTokenProvider {
	return &FileTokenProvider{config: config.withDefaults()}
}

// TokenFilePath returns the token file for account.
func (p *FileTokenProvider) TokenFilePath(account string) string {
	return filepath.Join(p.config.TokenDir, "google-"+account+".token")
}

// HasTokenForAccount checks if a token file exists for account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	if ValidateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(p.TokenFilePath(account))
	return err == nil
}

// AuthURL returns the URL the user visits to authorize account. The account
// name is passed as the OAuth state.
func (p *FileTokenProvider) AuthURL(account string) string {
	return p.config.OAuth2Config().AuthCodeURL(account, oauth2.AccessTypeOffline)
}

// SaveToken exchanges an authorization code and stores the token for account.
func (p *FileTokenProvider) SaveToken(ctx context.Context, account, authCode string) error {
	if err := ValidateAccountName(account); err != nil {
		return err
	}
	token, err := p.config.OAuth2Config().Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return p.WriteToken(account, token)
}

// WriteToken stores token for account.
func (p *FileTokenProvider) WriteToken(account string, token *oauth2.Token) error {
	if err := ValidateAccountName(account); err != nil {
		return err
	}
	if err := os.MkdirAll(p.config.TokenDir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(p.TokenFilePath(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// ReadToken loads the stored token for account.
func (p *FileTokenProvider) ReadToken(account string) (*oauth2.Token, error) {
	if err := ValidateAccountName(account); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.TokenFilePath(account))
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found for account %s: %w", account, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file for account %s: %w", account, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("invalid token file for account %s: no access or refresh token", account)
	}
	return &token, nil
}

// TokenSourceForAccount returns a refreshing token source for account. The
// token is checked once up front, and refreshed tokens are written back.
func (p *FileTokenProvider) TokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	token, err := p.ReadToken(account)
	if err != nil {
		return nil, err
	}

	ts := &persistingTokenSource{
		base:     p.config.OAuth2Config().TokenSource(ctx, token),
		provider: p,
		account:  account,
		last:     token.AccessToken,
	}
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}
	return ts, nil
}

// persistingTokenSource writes a token back to disk whenever it changes.
type persistingTokenSource struct {
	base     oauth2.TokenSource
	provider *FileTokenProvider
	account  string

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := s.provider.WriteToken(s.account, token); err != nil {
			return nil, err
		}
	}
	return token, nil
}

// HTTPClientForAccount returns an HTTP client that authenticates as account.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func HTTPClientForAccount(ctx context.Context, provider TokenProvider, account string) (*http.Client, error) {
	ts, err := provider.TokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   &http.Transport{ForceAttemptHTTP2: false, Proxy: http.ProxyFromEnvironment},
		},
	}, nil
}
