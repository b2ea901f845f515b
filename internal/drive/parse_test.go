package drive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbout(t *testing.T) {
	about, err := ParseAbout([]byte(`{
		"kind": "drive#about",
		"name": "Jane",
		"rootFolderId": "root123",
		"quotaBytesTotal": "1000",
		"quotaBytesUsed": "250",
		"largestChangeId": "5",
		"user": {"displayName": "Jane", "emailAddress": "jane@example.com"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "root123", about.RootFolderId)
	assert.Equal(t, int64(1000), about.QuotaBytesTotal)
	assert.Equal(t, int64(5), about.LargestChangeId)
	assert.Equal(t, "jane@example.com", about.User.EmailAddress)
}

func TestParseChangeList(t *testing.T) {
	list, err := ParseChangeList([]byte(`{
		"kind": "drive#changeList",
		"largestChangeId": "9",
		"nextLink": "https://www.googleapis.com/drive/v2/changes?pageToken=2",
		"items": [{"kind": "drive#change", "id": "8", "fileId": "f1", "deleted": true}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9), list.LargestChangeId)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(8), list.Items[0].Id)
	assert.True(t, list.Items[0].Deleted)
}

func TestParseFileList(t *testing.T) {
	list, err := ParseFileList([]byte(`{"kind":"drive#fileList","items":[{"kind":"drive#file","id":"a"},{"kind":"drive#file","id":"b"}]}`))
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "b", list.Items[1].Id)
}

func TestParseAppList(t *testing.T) {
	list, err := ParseAppList([]byte(`{"kind":"drive#appList","items":[{"kind":"drive#app","id":"app1","name":"Editor"}]}`))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Editor", list.Items[0].Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not json", "<html>"},
		{"missing kind", `{"id":"a"}`},
		{"other kind", `{"kind":"drive#fileList"}`},
		{"bad field type", `{"kind":"drive#file","fileSize":"lots"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFile([]byte(tt.data))
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, ErrParse), "got %v", err)
		})
	}
}
