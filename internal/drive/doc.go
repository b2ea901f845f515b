// Package drive implements the Google Drive v2 REST operations used by
// drivekit.
//
// Each endpoint has an operation builder (NewGetAboutOperation,
// NewRenameResourceOperation, ...) that only describes the request: HTTP
// verb, URL, headers and JSON body. A Runner performs the request on a worker
// goroutine and posts the completion to a loop.Dispatcher, so callbacks always
// run on the main loop. Every callback fires exactly once with a Code, which
// is either an HTTP status or one of the negative client codes such as
// CodeParseError or CodeCancelled.
//
// Successful responses with a body are decoded into the google.golang.org/api
// drive/v2 types after checking their kind. A body that fails to decode turns
// the code into CodeParseError and the callback receives a nil result.
//
// Client wraps the asynchronous API in blocking calls for the CLI and the MCP
// server:
//
//	client, err := drive.NewClientForAccount(ctx, tokens, drive.ClientConfig{Account: "work"})
//	if err != nil {
//	    return err
//	}
//	page, err := client.Files(ctx, "", "title contains 'report'")
package drive
