// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package paths confines operator supplied file names to the data directory.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var allowedPlaylistExt = map[string]struct{}{
	".m3u":  {},
	".m3u8": {},
}

// ResolveDataFilePath resolves a relative path inside dataDir, rejecting traversal and
// symlink escapes. With allowMissing the file may be absent; the parent is still checked.
func ResolveDataFilePath(dataDir, relPath string, allowMissing bool) (string, error) {
	if strings.Contains(relPath, `\`) {
		return "", fmt.Errorf("data file path must use forward slashes: %s", relPath)
	}
	clean := filepath.Clean(relPath)
	if clean == "." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("data file path is empty")
	}
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("data file path must be relative: %s", relPath)
	}
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("data file path contains traversal: %s", relPath)
	}

	root, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	full := filepath.Join(root, clean)

	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		// data dir not created yet
		resolvedRoot = root
	}

	resolved := full
	info, statErr := os.Stat(full)
	switch {
	case statErr == nil:
		if info.IsDir() {
			return "", fmt.Errorf("data file path points to directory: %s", relPath)
		}
		if p, evalErr := filepath.EvalSymlinks(full); evalErr == nil {
			resolved = p
		}
	case !errors.Is(statErr, os.ErrNotExist):
		return "", fmt.Errorf("stat data file: %w", statErr)
	default:
		if !allowMissing {
			return "", fmt.Errorf("data file not found: %s", relPath)
		}
		if realDir, evalErr := filepath.EvalSymlinks(filepath.Dir(full)); evalErr == nil {
			resolved = filepath.Join(realDir, filepath.Base(full))
		}
	}

	relToRoot, err := filepath.Rel(resolvedRoot, resolved)
	if err != nil {
		return "", fmt.Errorf("resolve relative path: %w", err)
	}
	if strings.HasPrefix(relToRoot, "..") || filepath.IsAbs(relToRoot) {
		return "", fmt.Errorf("data file escapes data directory: %s", relPath)
	}
	return resolved, nil
}

// ValidatePlaylistPath returns a safe path for the on-disk playlist under baseDir.
// Only .m3u and .m3u8 names are accepted.
func ValidatePlaylistPath(baseDir, userValue string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", fmt.Errorf("playlist base directory is empty")
	}
	raw := strings.TrimSpace(userValue)
	if raw == "" {
		return "", fmt.Errorf("playlist path is empty")
	}
	ext := strings.ToLower(filepath.Ext(raw))
	if _, ok := allowedPlaylistExt[ext]; !ok {
		return "", fmt.Errorf("playlist path must end with .m3u or .m3u8: %s", userValue)
	}

	path, err := ResolveDataFilePath(baseDir, raw, true)
	if err != nil {
		return "", fmt.Errorf("playlist path rejected: %w", err)
	}
	return path, nil
}
