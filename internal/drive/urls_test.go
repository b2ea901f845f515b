package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewURLGenerator(t *testing.T) {
	g, err := NewURLGenerator("")
	require.NoError(t, err)
	assert.Equal(t, "https://www.googleapis.com/drive/v2/about", g.AboutURL())

	g, err = NewURLGenerator("http://127.0.0.1:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/drive/v2/apps", g.AppListURL())

	_, err = NewURLGenerator("not a url")
	assert.Error(t, err)
	_, err = NewURLGenerator("://bad")
	assert.Error(t, err)
}

func TestURLGenerator_ChangeListURL(t *testing.T) {
	g, err := NewURLGenerator(DefaultBaseURL)
	require.NoError(t, err)

	tests := []struct {
		name     string
		override string
		start    int64
		want     string
	}{
		{"default", "", 0, "https://www.googleapis.com/drive/v2/changes"},
		{"negative start ignored", "", -5, "https://www.googleapis.com/drive/v2/changes"},
		{"start changestamp", "", 123, "https://www.googleapis.com/drive/v2/changes?startChangeId=123"},
		{"override", "https://example.com/next?pageToken=x", 0, "https://example.com/next?pageToken=x"},
		{"override with start", "https://example.com/next?pageToken=x", 7, "https://example.com/next?pageToken=x&startChangeId=7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.ChangeListURL(tt.override, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLGenerator_FileListURL(t *testing.T) {
	g, err := NewURLGenerator(DefaultBaseURL)
	require.NoError(t, err)

	got, err := g.FileListURL("", "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.googleapis.com/drive/v2/files", got)

	got, err = g.FileListURL("", "title = 'a b'")
	require.NoError(t, err)
	assert.Equal(t, "https://www.googleapis.com/drive/v2/files?q=title+%3D+%27a+b%27", got)

	got, err = g.FileListURL("https://example.com/files?pageToken=p2", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/files?pageToken=p2", got)

	_, err = g.FileListURL("%zz", "x")
	assert.Error(t, err)
}

func TestURLGenerator_ResourceURLs(t *testing.T) {
	g, err := NewURLGenerator(DefaultBaseURL)
	require.NoError(t, err)

	assert.Equal(t, "https://www.googleapis.com/drive/v2/files/abc", g.FileURL("abc"))
	assert.Equal(t, "https://www.googleapis.com/drive/v2/files/a%2Fb", g.FileURL("a/b"))
	assert.Equal(t, "https://www.googleapis.com/drive/v2/files/abc/trash", g.FileTrashURL("abc"))
	assert.Equal(t, "https://www.googleapis.com/drive/v2/files/p1/children", g.ChildrenURL("p1"))
	assert.Equal(t, "https://www.googleapis.com/drive/v2/files/p1/children/c1", g.ChildrenURLForRemoval("p1", "c1"))
}
