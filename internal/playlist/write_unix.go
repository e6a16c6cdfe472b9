// SPDX-License-Identifier: MIT

//go:build !windows

package playlist

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/matchcast/internal/log"
)

// WriteFile atomically replaces path with the rendered playlist.
func WriteFile(ctx context.Context, path string, items []Item) error {
	logger := log.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending playlist file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending playlist file")
		}
	}()

	if err := WriteM3U(pendingFile, items); err != nil {
		return fmt.Errorf("write playlist data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace playlist file: %w", err)
	}
	return nil
}
