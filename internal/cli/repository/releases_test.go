package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blankon/repackage-go/pkg/httputil"
)

func TestGitHubReleases(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest":
			httputil.ResponseJSON(map[string]interface{}{
				"tag_name": "v0.4.0",
				"assets": []map[string]interface{}{
					{"name": "repackage-cli_linux_amd64", "browser_download_url": server.URL + "/bin", "size": 3},
				},
			}, http.StatusOK, w)
		case "/bin":
			w.Write([]byte("bin"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	releases := GitHubReleases{URL: server.URL + "/latest", Client: server.Client()}

	release, err := releases.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v0.4.0", release.TagName)
	require.Len(t, release.Assets, 1)
	assert.Equal(t, int64(3), release.Assets[0].Size)

	body, err := releases.Download(context.Background(), release.Assets[0].BrowserDownloadURL)
	require.NoError(t, err)
	content, _ := io.ReadAll(body)
	body.Close()
	assert.Equal(t, "bin", string(content))

	_, err = releases.Download(context.Background(), server.URL+"/nope")
	assert.Error(t, err)
}

func TestBinaryUpdaterApply(t *testing.T) {
	target := filepath.Join(t.TempDir(), "repackage-cli")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	err := BinaryUpdater{TargetPath: target}.Apply(strings.NewReader("new"))

	require.NoError(t, err)
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}
