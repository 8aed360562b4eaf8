package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ResolveDownloadTarget returns name, or the current download target, or the
// first artifact of the last successful run.
func (u *RepackageUsecase) ResolveDownloadTarget(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if u.State.DownloadTarget != "" {
		return u.State.DownloadTarget, nil
	}
	if u.Runs != nil {
		run, err := u.Runs.LastSuccessfulRun()
		if err != nil {
			return "", err
		}
		if run != nil && len(run.Artifacts) > 0 {
			return run.Artifacts[0], nil
		}
	}
	return "", ErrNoDownloadTarget
}

// Download fetches an artifact into dir and returns the written path.
func (u *RepackageUsecase) Download(ctx context.Context, name, dir string) (path string, err error) {
	name, err = u.ResolveDownloadTarget(name)
	if err != nil {
		return "", err
	}
	// Names come from server output; never let one escape dir.
	base := filepath.Base(name)
	if base != name || base == "." || base == string(filepath.Separator) {
		return "", NewUsecaseError(400, "invalid artifact name: "+name)
	}
	if dir == "" {
		dir = u.DownloadDir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("prepare download dir: %w", err)
	}

	u.log.Info().Str("file", name).Str("dir", dir).Msg("downloading artifact")
	body, err := u.API.Download(ctx, name)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", name, err)
	}
	defer body.Close()

	path = filepath.Join(dir, name)
	if err := writeFileAtomic(path, body); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return path, nil
}

// writeFileAtomic streams r into a temporary sibling of path and renames it
// into place once fully written.
func writeFileAtomic(path string, r io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
