package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

var ErrReleaseAssetMissing = errors.New("no release asset for this platform")

// SelfUpdate replaces the running binary with the latest released one and
// returns the release tag.
func (u *RepackageUsecase) SelfUpdate(ctx context.Context, goos, goarch string) (string, error) {
	if u.Releases == nil || u.Updater == nil {
		return "", errors.New("self-update is not available")
	}
	release, err := u.Releases.FetchLatest(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}

	assetName := entity.ReleaseAssetName(goos, goarch)
	var downloadURL string
	for _, asset := range release.Assets {
		if asset.Name == assetName {
			downloadURL = asset.BrowserDownloadURL
			break
		}
	}
	if downloadURL == "" {
		return "", fmt.Errorf("%w: %s", ErrReleaseAssetMissing, assetName)
	}

	u.log.Info().Str("tag", release.TagName).Str("asset", assetName).Msg("self-updating")
	body, err := u.Releases.Download(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", assetName, err)
	}
	defer body.Close()

	if err := u.Updater.Apply(body); err != nil {
		return "", fmt.Errorf("apply update: %w", err)
	}
	return release.TagName, nil
}
