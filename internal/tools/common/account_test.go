package common

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/server"
)

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	opts = append([]server.Option{
		server.WithClientFactory(func(_ context.Context, account string) (*drive.Client, error) {
			return drive.NewClient(http.DefaultClient, drive.ClientConfig{Account: account})
		}),
	}, opts...)
	sc, err := server.NewServerContext(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestGetAccountFromArgs(t *testing.T) {
	sc := newServerContext(t)

	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{name: "no account", args: map[string]interface{}{}, expected: "default"},
		{name: "account", args: map[string]interface{}{"account": "work"}, expected: "work"},
		{name: "empty account", args: map[string]interface{}{"account": ""}, expected: "default"},
		{name: "other params", args: map[string]interface{}{"account": "personal", "fileId": "f1"}, expected: "personal"},
		{name: "nil args", args: nil, expected: "default"},
		{name: "non-string account", args: map[string]interface{}{"account": 123}, expected: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetAccountFromArgs(sc, tt.args))
		})
	}
}

func TestGetAccountFromArgs_ServerDefault(t *testing.T) {
	sc := newServerContext(t, server.WithDefaultAccount("work"))

	assert.Equal(t, "work", GetAccountFromArgs(sc, nil))
	assert.Equal(t, "personal", GetAccountFromArgs(sc, map[string]interface{}{"account": "personal"}))
}
