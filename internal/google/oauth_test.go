package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid with hyphen", "work-drive", false},
		{"valid with underscore", "personal_drive", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "../escape", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountName(tt.account)
			assert.Equal(t, tt.wantErr, err != nil, "ValidateAccountName(%q) error = %v", tt.account, err)
		})
	}
}

func TestFileTokenProvider_TokenFilePath(t *testing.T) {
	dir := t.TempDir()
	p := NewFileTokenProvider(Config{TokenDir: dir})

	assert.Equal(t, filepath.Join(dir, "google-default.token"), p.TokenFilePath("default"))
	assert.Equal(t, filepath.Join(dir, "google-work.token"), p.TokenFilePath("work"))
}

func TestFileTokenProvider_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	p := NewFileTokenProvider(Config{TokenDir: filepath.Join(dir, "nested")})

	assert.False(t, p.HasTokenForAccount("work"))

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, p.WriteToken("work", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}))
	assert.True(t, p.HasTokenForAccount("work"))

	info, err := os.Stat(p.TokenFilePath("work"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err := p.ReadToken("work")
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, token.Expiry.Equal(expiry))
}

func TestFileTokenProvider_InvalidAccount(t *testing.T) {
	p := NewFileTokenProvider(Config{TokenDir: t.TempDir()})

	assert.False(t, p.HasTokenForAccount("invalid account"))
	assert.False(t, p.HasTokenForAccount(""))
	assert.Error(t, p.WriteToken("../x", &oauth2.Token{AccessToken: "a"}))

	_, err := p.ReadToken("a/b")
	assert.Error(t, err)
}

func TestFileTokenProvider_ReadTokenErrors(t *testing.T) {
	dir := t.TempDir()
	p := NewFileTokenProvider(Config{TokenDir: dir})

	_, err := p.ReadToken("missing")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p.TokenFilePath("garbage"), []byte("not json"), 0600))
	_, err = p.ReadToken("garbage")
	assert.ErrorContains(t, err, "invalid token file")

	require.NoError(t, os.WriteFile(p.TokenFilePath("empty"), []byte(`{}`), 0600))
	_, err = p.ReadToken("empty")
	assert.ErrorContains(t, err, "no access or refresh token")
}

func TestFileTokenProvider_TokenSourceForAccount(t *testing.T) {
	p := NewFileTokenProvider(Config{TokenDir: t.TempDir()})
	require.NoError(t, p.WriteToken("default", &oauth2.Token{
		AccessToken: "still-valid",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	ts, err := p.TokenSourceForAccount(context.Background(), "default")
	require.NoError(t, err)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "still-valid", token.AccessToken)
}

func TestHTTPClientForAccount(t *testing.T) {
	var gotAuth string
	srv := newEchoAuthServer(t, &gotAuth)

	p := NewFileTokenProvider(Config{TokenDir: t.TempDir()})
	require.NoError(t, p.WriteToken("work", &oauth2.Token{
		AccessToken: "secret-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	client, err := HTTPClientForAccount(context.Background(), p, "work")
	require.NoError(t, err)

	resp, err := client.Get(srv)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer secret-token", gotAuth)

	_, err = HTTPClientForAccount(context.Background(), p, "missing")
	assert.Error(t, err)
}

func TestAuthURL(t *testing.T) {
	p := NewFileTokenProvider(Config{ClientID: "client-123", ClientSecret: "shh"})

	raw := p.AuthURL("work")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "work", q.Get("state"))
	assert.Equal(t, OOBRedirectURL, q.Get("redirect_uri"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Contains(t, q.Get("scope"), "https://www.googleapis.com/auth/drive")
	assert.NotContains(t, raw, "shh")
}

func TestAuthenticationErrorMessage(t *testing.T) {
	for _, account := range []string{"default", "work"} {
		msg := AuthenticationErrorMessage(account)
		assert.True(t, strings.Contains(msg, account), "message should mention %s", account)
		assert.Contains(t, msg, "OAuth")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, OOBRedirectURL, cfg.RedirectURL)
	assert.Equal(t, DefaultOAuthScopes, cfg.Scopes)
	assert.Equal(t, "drivekit", filepath.Base(cfg.TokenDir))
}

func newEchoAuthServer(t *testing.T, gotAuth *string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
