// Package speaker discovers the reference voices available for cloning.
//
// Speakers live on disk as <root>/<language>/<key>.wav. The key is the
// normalized form of a speaker name (lowercase, spaces as underscores); the
// display name is what listings show to users ("jane_doe" -> "Jane Doe").
package speaker

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ext is the file extension of speaker reference samples.
const Ext = ".wav"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Catalog lists languages and speakers and resolves reference files.
//
// Dir scans the filesystem on every call; Index serves an in-memory snapshot
// of a Dir. Both satisfy Catalog so callers do not care which one they get.
type Catalog interface {
	// Languages returns every language that has at least one speaker, mapped
	// to its sorted display names.
	Languages(ctx context.Context) (map[string][]string, error)

	// LanguageNames returns the sorted names of all language directories,
	// including those without speakers.
	LanguageNames(ctx context.Context) ([]string, error)

	// Speakers returns the sorted display names for one language. A missing
	// language yields a *LanguageNotFoundError.
	Speakers(ctx context.Context, lang string) ([]string, error)

	// Resolve returns the path of the reference sample for an already
	// normalized speaker key. The key must pass ValidKey.
	Resolve(ctx context.Context, lang, key string) (string, error)
}

// Normalize converts a display or key form into a key.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// ValidKey reports whether key is safe to use as a filename stem. Only
// letters, digits, underscores and dashes are allowed.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// DisplayName turns a key (or file stem) into a title-cased name.
func DisplayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	title := cases.Title(language.Und)
	for i, w := range words {
		words[i] = title.String(w)
	}
	return strings.Join(words, " ")
}
