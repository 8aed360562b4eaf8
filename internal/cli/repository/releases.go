package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/inconshreveable/go-update"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/pkg/httputil"
)

const DefaultReleaseURL = "https://api.github.com/repos/blankon/repackage-go/releases/latest"

// GitHubReleases reads the latest published release.
type GitHubReleases struct {
	URL    string
	Client *http.Client
}

func (g GitHubReleases) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}

func (g GitHubReleases) FetchLatest(ctx context.Context) (entity.GitHubRelease, error) {
	var release entity.GitHubRelease
	url := g.URL
	if url == "" {
		url = DefaultReleaseURL
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return release, err
	}
	request.Header.Set("Accept", "application/vnd.github+json")

	response, err := g.client().Do(request)
	if err != nil {
		return release, err
	}
	defer response.Body.Close()
	if err := httputil.CheckResponse(response); err != nil {
		return release, err
	}
	if err := json.NewDecoder(response.Body).Decode(&release); err != nil {
		return release, fmt.Errorf("decode release: %w", err)
	}
	return release, nil
}

func (g GitHubReleases) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := g.client().Do(request)
	if err != nil {
		return nil, err
	}
	if err := httputil.CheckResponse(response); err != nil {
		response.Body.Close()
		return nil, err
	}
	return response.Body, nil
}

// BinaryUpdater replaces the running executable.
type BinaryUpdater struct {
	TargetPath string
}

func (b BinaryUpdater) Apply(reader io.Reader) error {
	return update.Apply(reader, update.Options{TargetPath: b.TargetPath})
}
