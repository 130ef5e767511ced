package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// questionExts are the file extensions ImportDir reads.
var questionExts = map[string]bool{".md": true, ".txt": true}

// Checkout clones the repository at url into dir, or pulls the latest
// changes if dir already holds a clone.
func Checkout(ctx context.Context, url, dir string, logger *slog.Logger) error {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("Cloning question repository", "url", url, "dir", dir)
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
	case err == nil:
		logger.Info("Pulling question repository", "dir", dir)
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", dir, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", dir, err)
		}
		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", dir, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", dir, err)
	}
	return nil
}

// ImportDir imports every question file under dir, in lexical order.
// Categories are fetched once for the whole directory.
func ImportDir(ctx context.Context, api API, dir string, logger *slog.Logger) (Result, error) {
	var res Result

	known, err := api.Categories(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to fetch categories: %w", err)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !questionExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		entries, err := Parse(f)
		if err != nil {
			return fmt.Errorf("failed to read questions from %s: %w", path, err)
		}
		return importEntries(ctx, api, known, entries, logger.With("file", path), &res)
	})
	return res, err
}
