package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/nadzzz/flextts/internal/errdefs"
	"github.com/nadzzz/flextts/internal/message"
	"github.com/nadzzz/flextts/internal/speaker"
)

//go:embed templates/*.html
var templates embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return t, nil
}

// pageData feeds templates/index.html.
type pageData struct {
	Languages        map[string][]string
	LanguageNames    []string
	SelectedLanguage string
	SelectedSpeaker  string
	InputText        string

	// AudioSrc is a URL or data URI for the player; empty hides it.
	AudioSrc string
}

// AudioURL marks AudioSrc as trusted so data URIs survive escaping. The
// value is always built by this package.
func (p pageData) AudioURL() template.URL { return template.URL(p.AudioSrc) }

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	languages, err := s.svc.Catalog().Languages(r.Context())
	if err != nil {
		s.logger.Error("listing speakers for form", "error", err)
		languages = map[string][]string{}
	}

	data.Languages = languages
	data.LanguageNames = make([]string, 0, len(languages))
	for lang := range languages {
		data.LanguageNames = append(data.LanguageNames, lang)
	}
	slices.Sort(data.LanguageNames)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("rendering page", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError answers a failed synthesis request in the negotiated format.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		s.writeJSONError(w, r, err)
		return
	}

	code := s.logError(r.Context(), err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "Error: %s", err.Error())
}

// writeJSONError answers with a JSON error body. Unknown languages also list
// the languages that exist.
func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	code := s.logError(r.Context(), err)

	var notFound *speaker.LanguageNotFoundError
	if errors.As(err, &notFound) {
		available := notFound.Available
		if available == nil {
			available = []string{}
		}
		writeJSON(w, code, message.LanguageNotFound{Error: err.Error(), AvailableLanguages: available})
		return
	}

	writeJSON(w, code, message.Error{Error: err.Error()})
}

// logError logs err and returns its status code.
func (s *Server) logError(ctx context.Context, err error) int {
	code := errdefs.HTTPStatus(err)

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "request failed", "status", code, "error", strings.TrimSpace(err.Error()))

	return code
}
