package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultConcurrency bounds the number of items processed at once.
const DefaultConcurrency = 4

// Result is the outcome for one resource id.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult is the JSON document returned by batch tools.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseIDList accepts a single id, a list of ids, or a string holding a
// JSON list of ids. A string that starts with "[" but is not valid JSON is
// treated as one id. arg names the argument in errors.
func ParseIDList(value any, arg string) ([]string, error) {
	var items []any
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", arg)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", arg)
		}
		if !strings.HasPrefix(strings.TrimSpace(v), "[") || json.Unmarshal([]byte(v), &items) != nil {
			return []string{v}, nil
		}
	case []string:
		for _, id := range v {
			items = append(items, id)
		}
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", arg)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", arg)
	}
	ids := make([]string, len(items))
	for i, item := range items {
		id, ok := item.(string)
		switch {
		case !ok:
			return nil, fmt.Errorf("%s[%d] must be a string", arg, i)
		case id == "":
			return nil, fmt.Errorf("%s[%d] cannot be empty", arg, i)
		}
		ids[i] = id
	}
	return ids, nil
}

// Summarize counts the results.
func Summarize(results []Result) BatchResult {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == StatusSuccess {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	return br
}

// FormatResults renders the summary of results as indented JSON.
func FormatResults(results []Result) string {
	out, _ := json.MarshalIndent(Summarize(results), "", "  ")
	return string(out)
}

// ProcessBatch runs fn for every id, at most DefaultConcurrency at a time,
// and returns the results in input order. A failing item does not stop the
// others.
func ProcessBatch(ctx context.Context, ids []string, fn func(ctx context.Context, id string) (string, error)) []Result {
	return ProcessBatchWithLimit(ctx, ids, DefaultConcurrency, fn)
}

// ProcessBatchWithLimit is ProcessBatch with an explicit concurrency limit.
// A limit below one processes items one at a time.
func ProcessBatchWithLimit(ctx context.Context, ids []string, limit int, fn func(ctx context.Context, id string) (string, error)) []Result {
	if limit < 1 {
		limit = 1
	}
	results := make([]Result, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			res, err := fn(gctx, id)
			if err != nil {
				results[i] = NewErrorResult(id, err)
			} else {
				results[i] = NewSuccessResult(id, res)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// NewSuccessResult reports one item that succeeded with message.
func NewSuccessResult(id, message string) Result {
	return Result{ID: id, Status: StatusSuccess, Result: message}
}

// NewErrorResult reports one item that failed with err.
func NewErrorResult(id string, err error) Result {
	return Result{ID: id, Status: StatusError, Error: err.Error()}
}
