package entity

import "fmt"

type GitHubReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

type GitHubRelease struct {
	URL     string               `json:"url"`
	TagName string               `json:"tag_name"`
	Assets  []GitHubReleaseAsset `json:"assets"`
}

// ReleaseAssetName is the binary name published for a platform.
func ReleaseAssetName(goos, goarch string) string {
	name := fmt.Sprintf("repackage-cli_%s_%s", goos, goarch)
	if goos == "windows" {
		name += ".exe"
	}
	return name
}
