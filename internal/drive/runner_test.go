package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v2"

	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/loop"
)

// runUntilDone drives l on the calling goroutine until h's callback has run.
func runUntilDone(t *testing.T, l *loop.Loop, h *Handle) {
	t.Helper()
	go func() {
		<-h.Done()
		l.Quit()
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, l.Run(ctx))
}

// capturingDispatcher hands posted tasks to the test instead of running them.
type capturingDispatcher struct {
	tasks chan func()
}

func (d *capturingDispatcher) Post(task func()) { d.tasks <- task }

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *URLGenerator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	urls, err := NewURLGenerator(srv.URL)
	require.NoError(t, err)
	return srv, urls
}

func TestRunner_GetAbout(t *testing.T) {
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/drive/v2/about", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"kind":"drive#about","rootFolderId":"root1","largestChangeId":"12"}`)
	})

	l := loop.New()
	runner := NewRunner(srv.Client(), l)

	var calls int
	var gotCode Code
	var gotAbout *drive.About
	h := runner.Start(context.Background(), NewGetAboutOperation(urls, func(code Code, about *drive.About) {
		calls++
		gotCode = code
		gotAbout = about
	}))
	runUntilDone(t, l, h)

	assert.Equal(t, 1, calls)
	assert.Equal(t, HTTPSuccess, gotCode)
	assert.Equal(t, HTTPSuccess, h.Code())
	require.NotNil(t, gotAbout)
	assert.Equal(t, "root1", gotAbout.RootFolderId)
	assert.Equal(t, int64(12), gotAbout.LargestChangeId)
	assert.Equal(t, 0, runner.Registry().Len())
}

func TestRunner_ParseErrorReplacesCode(t *testing.T) {
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"kind":"drive#fileList"}`)
	})

	l := loop.New()
	runner := NewRunner(srv.Client(), l)

	var gotCode Code
	var gotAbout *drive.About
	h := runner.Start(context.Background(), NewGetAboutOperation(urls, func(code Code, about *drive.About) {
		gotCode = code
		gotAbout = about
	}))
	runUntilDone(t, l, h)

	assert.Equal(t, CodeParseError, gotCode)
	assert.Nil(t, gotAbout)
}

func TestRunner_ErrorStatusForwarded(t *testing.T) {
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"File not found: nope","errors":[{"reason":"notFound"}]}}`)
	})

	var logs bytes.Buffer
	l := loop.New()
	runner := NewRunner(srv.Client(), l, WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	var gotCode Code
	h := runner.Start(context.Background(), NewGetFileOperation(urls, "nope", func(code Code, f *drive.File) {
		gotCode = code
		assert.Nil(t, f)
	}))
	runUntilDone(t, l, h)

	assert.Equal(t, HTTPNotFound, gotCode)
	assert.Contains(t, logs.String(), "File not found: nope")
	assert.Contains(t, logs.String(), "notFound")
}

func TestRunner_InvalidArgumentSendsNothing(t *testing.T) {
	var requests atomic.Int32
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	l := loop.New()
	runner := NewRunner(srv.Client(), l)

	var gotCode Code
	h := runner.Start(context.Background(), NewCreateDirectoryOperation(urls, "", "name", func(code Code, _ *drive.File) {
		gotCode = code
	}))
	runUntilDone(t, l, h)

	assert.Equal(t, CodeOtherError, gotCode)
	assert.Equal(t, int32(0), requests.Load())
}

func TestRunner_NoConnection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	urls, err := NewURLGenerator(srv.URL)
	require.NoError(t, err)
	srv.Close()

	l := loop.New()
	runner := NewRunner(&http.Client{}, l)

	var gotCode Code
	h := runner.Start(context.Background(), NewTrashResourceOperation(urls, "f1", func(code Code) { gotCode = code }))
	runUntilDone(t, l, h)

	assert.Equal(t, CodeNoConnection, gotCode)
}

func TestRunner_CancelInFlight(t *testing.T) {
	started := make(chan struct{})
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	l := loop.New()
	runner := NewRunner(srv.Client(), l)

	var calls int
	var gotCode Code
	h := runner.Start(context.Background(), NewGetAboutOperation(urls, func(code Code, about *drive.About) {
		calls++
		gotCode = code
		assert.Nil(t, about)
	}))

	<-started
	assert.Equal(t, 1, runner.Registry().Len())
	h.Cancel()
	runUntilDone(t, l, h)

	assert.Equal(t, 1, calls)
	assert.Equal(t, CodeCancelled, gotCode)
	assert.Equal(t, 0, runner.Registry().Len())

	// Cancelling again after completion does nothing.
	h.Cancel()
	assert.Equal(t, 1, calls)
}

func TestRunner_CancelAfterResponseBeforeCallback(t *testing.T) {
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"kind":"drive#about"}`)
	})

	d := &capturingDispatcher{tasks: make(chan func(), 1)}
	runner := NewRunner(srv.Client(), d)

	var gotCode Code
	h := runner.Start(context.Background(), NewGetAboutOperation(urls, func(code Code, _ *drive.About) { gotCode = code }))

	task := <-d.tasks
	h.Cancel()
	task()

	<-h.Done()
	assert.Equal(t, CodeCancelled, gotCode)
}

func TestRunner_ContextCancelled(t *testing.T) {
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := loop.New()
	runner := NewRunner(srv.Client(), l, WithRateLimit(100, 1))

	var gotCode Code
	h := runner.Start(ctx, NewGetAboutOperation(urls, func(code Code, _ *drive.About) { gotCode = code }))
	runUntilDone(t, l, h)

	assert.Equal(t, CodeCancelled, gotCode)
}

func TestRunner_SendsHeadersAndBody(t *testing.T) {
	type captured struct {
		method, path, ifMatch, contentType string
		body                               map[string]any
	}
	got := make(chan captured, 1)
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		c := captured{
			method:      r.Method,
			path:        r.URL.Path,
			ifMatch:     r.Header.Get("If-Match"),
			contentType: r.Header.Get("Content-Type"),
		}
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		got <- c
		_, _ = io.WriteString(w, `{"kind":"drive#file","id":"f1","title":"New"}`)
	})

	l := loop.New()
	runner := NewRunner(srv.Client(), l)

	var gotCode Code
	h := runner.Start(context.Background(), NewRenameResourceOperation(urls, "f1", "New", func(code Code) { gotCode = code }))
	runUntilDone(t, l, h)

	c := <-got
	assert.Equal(t, HTTPSuccess, gotCode)
	assert.Equal(t, http.MethodPatch, c.method)
	assert.Equal(t, "/drive/v2/files/f1", c.path)
	assert.Equal(t, "*", c.ifMatch)
	assert.Equal(t, "application/json", c.contentType)
	assert.Equal(t, map[string]any{"title": "New"}, c.body)
}

func TestRunner_AuditsMutatingOperations(t *testing.T) {
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"kind":"drive#about"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	var logs bytes.Buffer
	audit := instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&logs, nil)))

	l := loop.New()
	runner := NewRunner(srv.Client(), l, WithAudit(audit), WithAccount("work"), WithMetrics(&instrumentation.Metrics{}))

	h := runner.Start(context.Background(), NewGetAboutOperation(urls, func(Code, *drive.About) {}))
	runUntilDone(t, l, h)
	assert.Empty(t, logs.String(), "reads are not audited")

	l = loop.New()
	h = runner.StartWith(context.Background(), l, NewDeleteResourceOperation(urls, "folder1", "file1", func(Code) {}))
	runUntilDone(t, l, h)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "drive_operation", entry["msg"])
	assert.Equal(t, OpDeleteResource, entry["operation"])
	assert.Equal(t, "DELETE", entry["method"])
	assert.Equal(t, "work", entry["account"])
	assert.Equal(t, "file1", entry["resource_id"])
	assert.Equal(t, float64(204), entry["code"])
}

func TestOperationRegistry_CancelAll(t *testing.T) {
	release := make(chan struct{})
	srv, urls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	d := &capturingDispatcher{tasks: make(chan func(), 3)}
	reg := NewOperationRegistry()
	runner := NewRunner(srv.Client(), d, WithRegistry(reg))

	codes := make([]Code, 3)
	handles := make([]*Handle, 3)
	for i := range handles {
		i := i
		handles[i] = runner.Start(context.Background(), NewTrashResourceOperation(urls, "f", func(code Code) { codes[i] = code }))
	}
	assert.Equal(t, 3, reg.Len())

	reg.CancelAll()
	for range handles {
		(<-d.tasks)()
	}

	assert.Equal(t, 0, reg.Len())
	for i, h := range handles {
		<-h.Done()
		assert.Equal(t, CodeCancelled, codes[i])
	}
}
