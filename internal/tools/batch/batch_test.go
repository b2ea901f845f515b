package batch

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr bool
	}{
		{name: "single string", input: "0B1a", want: []string{"0B1a"}},
		{name: "array", input: []interface{}{"0B1a", "0B2b"}, want: []string{"0B1a", "0B2b"}},
		{name: "string slice", input: []string{"0B1a"}, want: []string{"0B1a"}},
		{name: "JSON string array", input: `["0B1a", "0B2b", "0B3c"]`, want: []string{"0B1a", "0B2b", "0B3c"}},
		{name: "invalid JSON stays a single id", input: `[invalid json`, want: []string{`[invalid json`}},
		{name: "bracketed title", input: `[draft] notes`, want: []string{`[draft] notes`}},
		{name: "nil", input: nil, wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "empty array", input: []interface{}{}, wantErr: true},
		{name: "empty JSON array", input: `[]`, wantErr: true},
		{name: "non-string item", input: []interface{}{"0B1a", 7}, wantErr: true},
		{name: "empty item", input: []interface{}{"0B1a", ""}, wantErr: true},
		{name: "number", input: 123, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList(tt.input, "resourceIds")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "resourceIds")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatResults(t *testing.T) {
	output := FormatResults([]Result{
		NewSuccessResult("a", "trashed"),
		NewSuccessResult("b", "trashed"),
		NewErrorResult("c", errors.New("drive.trash_resource: HTTP_NOT_FOUND (404)")),
	})

	var br BatchResult
	require.NoError(t, json.Unmarshal([]byte(output), &br))
	assert.Equal(t, 3, br.Total)
	assert.Equal(t, 2, br.Successful)
	assert.Equal(t, 1, br.Failed)
	assert.Equal(t, StatusError, br.Results[2].Status)
	assert.Contains(t, br.Results[2].Error, "404")
}

func TestProcessBatch_KeepsOrderAndPartialFailures(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	results := ProcessBatch(context.Background(), ids, func(_ context.Context, id string) (string, error) {
		if id == "c" {
			return "", errors.New("not found")
		}
		// Later items finish first.
		time.Sleep(time.Duration(len(ids)-int(id[0]-'a')) * time.Millisecond)
		return "done " + id, nil
	})

	require.Len(t, results, len(ids))
	for i, r := range results {
		assert.Equal(t, ids[i], r.ID)
	}
	assert.Equal(t, StatusError, results[2].Status)
	assert.Equal(t, "not found", results[2].Error)
	assert.Equal(t, "done e", results[4].Result)
	assert.Equal(t, 1, Summarize(results).Failed)
}

func TestProcessBatchWithLimit(t *testing.T) {
	var running, peak atomic.Int32
	ids := []string{"1", "2", "3", "4", "5", "6"}

	ProcessBatchWithLimit(context.Background(), ids, 2, func(context.Context, string) (string, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return "", nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestProcessBatch_Empty(t *testing.T) {
	results := ProcessBatch(context.Background(), nil, func(context.Context, string) (string, error) {
		t.Fatal("fn called for empty input")
		return "", nil
	})
	assert.Empty(t, results)
}
