package speaker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nadzzz/flextts/internal/errdefs"
)

// ErrRootNotFound is returned when the speaker root directory is missing.
var ErrRootNotFound = &rootNotFoundError{}

type rootNotFoundError struct{}

func (*rootNotFoundError) Error() string { return "Speakers directory not found" }
func (*rootNotFoundError) Unwrap() error { return errdefs.ErrNotFound }

// LanguageNotFoundError is returned for a language without a directory. It
// carries the languages that do exist as a hint for the caller.
type LanguageNotFoundError struct {
	Language  string
	Available []string
}

func (e *LanguageNotFoundError) Error() string {
	return "Language not found: " + e.Language
}

func (e *LanguageNotFoundError) Unwrap() error { return errdefs.ErrNotFound }

var _ Catalog = (*Dir)(nil)

// Dir is a Catalog backed directly by the filesystem.
type Dir struct {
	root string
}

// NewDir creates a catalog rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the catalog root directory.
func (d *Dir) Root() string { return d.root }

// Languages implements Catalog.
func (d *Dir) Languages(_ context.Context) (map[string][]string, error) {
	names, err := d.languageNames()
	if err != nil {
		return nil, err
	}

	languages := make(map[string][]string, len(names))
	for _, lang := range names {
		speakers, err := d.speakers(lang)
		if err != nil {
			return nil, err
		}
		if len(speakers) > 0 {
			languages[lang] = speakers
		}
	}

	return languages, nil
}

// LanguageNames implements Catalog.
func (d *Dir) LanguageNames(_ context.Context) ([]string, error) {
	return d.languageNames()
}

// Speakers implements Catalog. An existing language directory without any
// samples yields an empty list rather than an error.
func (d *Dir) Speakers(_ context.Context, lang string) ([]string, error) {
	if !ValidKey(lang) || !isDir(filepath.Join(d.root, lang)) {
		available, err := d.languageNames()
		if err != nil && !errors.Is(err, ErrRootNotFound) {
			return nil, err
		}
		return nil, &LanguageNotFoundError{Language: lang, Available: available}
	}

	return d.speakers(lang)
}

// Resolve implements Catalog.
func (d *Dir) Resolve(_ context.Context, lang, key string) (string, error) {
	if !ValidKey(lang) {
		return "", errdefs.InvalidArgument("Invalid language name")
	}
	if !ValidKey(key) {
		return "", errdefs.InvalidArgument("Invalid speaker name")
	}

	path := filepath.Join(d.root, lang, key+Ext)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("checking speaker file %s: %w", path, err)
		}
		return "", errdefs.NotFound(fmt.Sprintf("Speaker not found: %s (language: %s)", key, lang))
	}

	return path, nil
}

func (d *Dir) languageNames() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrRootNotFound
		}
		return nil, fmt.Errorf("reading speaker root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if isDir(filepath.Join(d.root, entry.Name())) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	return names, nil
}

func (d *Dir) speakers(lang string) ([]string, error) {
	dir := filepath.Join(d.root, lang)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading language %s: %w", lang, err)
	}

	speakers := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		if display := DisplayName(strings.TrimSuffix(name, Ext)); display != "" {
			speakers = append(speakers, display)
		}
	}
	slices.Sort(speakers)

	return slices.Compact(speakers), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
