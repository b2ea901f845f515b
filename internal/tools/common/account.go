package common

import (
	"github.com/teemow/drivekit/internal/server"
)

// AccountArgument is the optional tool argument naming the Google account.
const AccountArgument = "account"

// GetAccountFromArgs returns the "account" argument, or the server's default
// account when the argument is missing, empty or not a string.
func GetAccountFromArgs(sc *server.ServerContext, args map[string]interface{}) string {
	if accountVal, ok := args[AccountArgument].(string); ok && accountVal != "" {
		return accountVal
	}
	return sc.DefaultAccount()
}
