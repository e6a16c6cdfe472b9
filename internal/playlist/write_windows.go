// SPDX-License-Identifier: MIT

//go:build windows

package playlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/matchcast/internal/log"
)

// WriteFile replaces path with the rendered playlist via temp file and rename.
// Windows has no atomic rename with fsync, so this is best effort.
func WriteFile(ctx context.Context, path string, items []Item) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".matchcast-m3u-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp playlist file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := WriteM3U(tmpFile, items); err != nil {
		return fmt.Errorf("write playlist data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp playlist file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename playlist file: %w", err)
	}
	log.FromContext(ctx).Debug().Str("path", path).Msg("wrote playlist file")
	return nil
}
