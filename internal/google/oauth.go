package google

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultAccount is the account used when none is given.
	DefaultAccount = "default"

	// OOBRedirectURL makes Google display the authorization code instead of
	// redirecting.
	OOBRedirectURL = "urn:ietf:wg:oauth:2.0:oob"
)

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Config holds the OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// TokenDir is where token files are stored. Defaults to DefaultTokenDir().
	TokenDir string

	// Scopes defaults to DefaultOAuthScopes.
	Scopes []string
}

func (c Config) withDefaults() Config {
	if c.RedirectURL == "" {
		c.RedirectURL = OOBRedirectURL
	}
	if c.TokenDir == "" {
		c.TokenDir = DefaultTokenDir()
	}
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultOAuthScopes
	}
	return c
}

// OAuth2Config returns the oauth2 configuration for Google's endpoint.
func (c Config) OAuth2Config() *oauth2.Config {
	c = c.withDefaults()
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
	}
}

// ValidateAccountName checks that account is usable as part of a file name.
func ValidateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", account)
	}
	return nil
}

// AuthenticationErrorMessage explains how to authorize an account.
func AuthenticationErrorMessage(account string) string {
	return fmt.Sprintf("Google OAuth token not found or invalid for account %q. "+
		"Run 'drivekit auth --account %s' to authorize access.", account, account)
}

// DefaultTokenDir returns the default token directory.
func DefaultTokenDir() string {
	return filepath.Join(userCacheDir(), "drivekit")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		return os.TempDir()
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
