// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package translit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/metrics"
)

// ParseFile decodes a YAML table file. Unknown fields are rejected.
func ParseFile(path string) (Tables, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return Tables{}, fmt.Errorf("read translit file: %w", err)
	}
	var t Tables
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tables{}, fmt.Errorf("parse translit file %s: %w", path, err)
	}
	return t, nil
}

// NewFileSource loads path over the built-in tables. An empty path serves
// the defaults.
func NewFileSource(path string) (*Source, error) {
	s := NewSource(Default())
	if path == "" {
		return s, nil
	}
	s.path = path
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the file. On error the active tables are kept.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	t, err := ParseFile(s.path)
	if err != nil {
		metrics.RecordTranslitReload(0, err)
		return err
	}
	def := Default()
	merged := def.Merge(t)
	s.Replace(merged)
	metrics.RecordTranslitReload(merged.Len(), nil)
	return nil
}

// Watch reloads the file whenever it changes until ctx is done. Editors that
// replace the file by rename are handled by watching the parent directory.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	logger := log.WithComponent("translit")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}
	target := filepath.Base(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher channel closed")
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn().Err(err).Str(log.FieldPath, s.path).Msg("translit reload failed, keeping previous tables")
				continue
			}
			logger.Info().Str(log.FieldPath, s.path).Int("entries", s.Tables().Len()).Msg("translit tables reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("fsnotify watcher error")
		}
	}
}
