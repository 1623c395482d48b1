package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// maxRepoContentBytes is the hard ceiling on aggregated repository
// content; files beyond it are skipped.
const maxRepoContentBytes = 1_800_000

// skippedDirs are dependency and build output directories never worth
// auditing.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	".venv":        true,
	"dist":         true,
	"build":        true,
}

// skippedExtensions are binary-ish files excluded from the aggregate.
var skippedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".ico": true, ".webp": true, ".pdf": true, ".zip": true, ".gz": true,
	".tar": true, ".woff": true, ".woff2": true, ".ttf": true, ".exe": true,
	".so": true, ".dylib": true, ".bin": true,
}

// cloneAndRead shallow-clones a repository into a temporary directory and
// concatenates its readable files with per-file separators, up to the
// aggregate size ceiling.
func cloneAndRead(ctx context.Context, repoURL string, progress func(string)) (string, error) {
	dir, err := os.MkdirTemp("", "scamscan-audit-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	if err != nil {
		return "", fmt.Errorf("cloning %s: %w", repoURL, err)
	}

	if progress != nil {
		progress("Reading files from repository...")
	}
	return readRepo(dir)
}

// readRepo walks the tree, skipping dot-directories, dependency/build
// directories and binary-ish extensions.
func readRepo(root string) (string, error) {
	var sb strings.Builder
	fileCount := 0
	totalSize := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || skippedExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			log.Printf("Could not stat %s: %v", rel, err)
			return nil
		}
		if totalSize+int(info.Size()) > maxRepoContentBytes {
			log.Printf("Reached content size limit of %d bytes, skipping remaining files", maxRepoContentBytes)
			return filepath.SkipAll
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Could not read %s: %v", rel, err)
			return nil
		}

		fmt.Fprintf(&sb, "\n\n--- FILE: %s ---\n\n%s", rel, content)
		fileCount++
		totalSize += len(content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading repository: %w", err)
	}

	log.Printf("Read %d files, total content size %d bytes", fileCount, totalSize)
	return sb.String(), nil
}
