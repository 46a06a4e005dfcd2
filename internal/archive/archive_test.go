package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ng-daniel/depresjon-go/internal/conf"
)

const archiveURL = "https://datasets.example.org/depresjon.zip"

// buildZip assembles a zip archive from name to content pairs.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()

	fetcher := NewFetcher(&conf.DatasetSettings{
		ArchiveURL: archiveURL,
		Dir:        t.TempDir(),
	})

	httpmock.ActivateNonDefault(fetcher.Client)
	t.Cleanup(httpmock.DeactivateAndReset)

	return fetcher
}

func TestFetch(t *testing.T) {
	fetcher := newTestFetcher(t)

	// The published archive wraps the dataset in a data/ folder and carries
	// macOS metadata entries
	zipData := buildZip(t, map[string]string{
		"data/scores.csv":                 "number,days\ncondition_1,11\n",
		"data/condition/condition_1.csv":  "timestamp,date,activity\n",
		"data/control/control_1.csv":      "timestamp,date,activity\n",
		"data/condition/notes.txt":        "ignored",
		"__MACOSX/data/._scores.csv":      "junk",
		"data/__MACOSX/condition/._x.csv": "junk",
		"unrelated/readme.md":             "ignored",
	})

	httpmock.RegisterResponder(http.MethodGet, archiveURL,
		httpmock.NewBytesResponder(http.StatusOK, zipData))

	count, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	scores, err := os.ReadFile(filepath.Join(fetcher.Dir, "scores.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(scores), "condition_1")

	assert.FileExists(t, filepath.Join(fetcher.Dir, "condition", "condition_1.csv"))
	assert.FileExists(t, filepath.Join(fetcher.Dir, "control", "control_1.csv"))
	assert.NoFileExists(t, filepath.Join(fetcher.Dir, "condition", "notes.txt"))
}

func TestFetchFlatArchive(t *testing.T) {
	fetcher := newTestFetcher(t)

	zipData := buildZip(t, map[string]string{
		"scores.csv":            "number,days\n",
		"control/control_2.csv": "timestamp,date,activity\n",
	})

	httpmock.RegisterResponder(http.MethodGet, archiveURL,
		httpmock.NewBytesResponder(http.StatusOK, zipData))

	count, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.FileExists(t, filepath.Join(fetcher.Dir, "scores.csv"))
}

func TestFetchHTTPError(t *testing.T) {
	fetcher := newTestFetcher(t)

	httpmock.RegisterResponder(http.MethodGet, archiveURL,
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	_, err := fetcher.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchEmptyArchive(t *testing.T) {
	fetcher := newTestFetcher(t)

	zipData := buildZip(t, map[string]string{"readme.txt": "nothing here"})

	httpmock.RegisterResponder(http.MethodGet, archiveURL,
		httpmock.NewBytesResponder(http.StatusOK, zipData))

	_, err := fetcher.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dataset files")
}

func TestFetchNotAZip(t *testing.T) {
	fetcher := newTestFetcher(t)

	httpmock.RegisterResponder(http.MethodGet, archiveURL,
		httpmock.NewStringResponder(http.StatusOK, "<html>definitely not a zip</html>"))

	_, err := fetcher.Fetch(context.Background())
	require.Error(t, err)
}

func TestDatasetPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		entry string
		want  string
		ok    bool
	}{
		{"scores.csv", "scores.csv", true},
		{"data/scores.csv", "scores.csv", true},
		{"depresjon/condition/condition_12.csv", filepath.Join("condition", "condition_12.csv"), true},
		{"control/control_3.csv", filepath.Join("control", "control_3.csv"), true},
		{`data\control\control_3.csv`, filepath.Join("control", "control_3.csv"), true},
		{"data/condition/", "", false},
		{"__MACOSX/scores.csv", "", false},
		{"condition/notes.txt", "", false},
		{"readme.md", "", false},
		{"deep/nested/scores.csv/other", "", false},
	}

	for _, tc := range cases {
		got, ok := datasetPath(tc.entry)
		assert.Equal(t, tc.ok, ok, "entry %q", tc.entry)
		assert.Equal(t, tc.want, got, "entry %q", tc.entry)
	}
}
