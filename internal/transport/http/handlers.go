package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nadzzz/flextts/internal/message"
	"github.com/nadzzz/flextts/internal/speaker"
	"github.com/nadzzz/flextts/internal/synthesis"
	"github.com/nadzzz/flextts/internal/tts/wav"
)

// urlPort matches the port segment of an absolute URL.
var urlPort = regexp.MustCompile(`:\d+/`)

// handleIndex serves the capability document or the browser form.
//
//	@Summary		API info or HTML form
//	@Description	Returns the capability document when JSON is requested, otherwise the HTML form.
//	@Tags			synthesis
//	@Produce		json
//	@Produce		html
//	@Success		200	{object}	message.Info
//	@Router			/ [get]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	defaults := s.svc.Defaults()

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, message.NewInfo(defaults.Language, defaults.Speaker))
		return
	}

	s.renderPage(w, r, pageData{
		SelectedLanguage: defaults.Language,
		SelectedSpeaker:  speaker.DisplayName(defaults.Speaker),
	})
}

// handleSynthesize renders text in the voice of a reference speaker.
//
//	@Summary		Synthesize speech
//	@Description	Clones the selected speaker's voice. Form and query values take precedence over JSON body fields.
//	@Description	response_type=url returns a link, base64 embeds the audio, file streams the WAV bytes.
//	@Tags			synthesis
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Accept			multipart/form-data
//	@Produce		json
//	@Produce		audio/wav
//	@Produce		html
//	@Param			request	body		message.Request	false	"Synthesis request (JSON)"
//	@Param			text			formData	string	false	"Text to convert to speech"
//	@Param			language		formData	string	false	"Language code"
//	@Param			speaker			formData	string	false	"Speaker display name or file key"
//	@Param			response_type	formData	string	false	"url, base64 or file"	Enums(url, base64, file)
//	@Param			trackingid		formData	string	false	"Echoed back in the response"
//	@Success		200	{object}	message.Response
//	@Failure		400	{object}	message.Error	"Invalid request"
//	@Failure		404	{object}	message.Error	"Unknown speaker or language"
//	@Failure		413	{object}	message.Error	"Request body too large"
//	@Failure		500	{object}	message.Error	"Synthesis failed"
//	@Router			/ [post]
func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	art, err := s.svc.Synthesize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := message.Response{
		Text:       art.Request.Text,
		Format:     message.AudioFormat,
		TrackingID: art.Request.TrackingID,
	}

	var audioSrc string

	switch art.Request.ResponseType {
	case message.ResponseFile:
		s.serveArtifact(w, r, art)
		return

	case message.ResponseBase64:
		audio, err := s.svc.Consume(art)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.SetAudioBytes(audio)
		audioSrc = "data:" + wav.ContentType + ";base64," + resp.AudioData

	default:
		resp.URL = s.audioURL(r, art.Name)
		audioSrc = resp.URL
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	s.renderPage(w, r, pageData{
		SelectedLanguage: art.Request.Language,
		SelectedSpeaker:  speaker.DisplayName(art.Request.Speaker),
		InputText:        art.Request.Text,
		AudioSrc:         audioSrc,
	})
}

// handleAllSpeakers lists every language with its speakers.
//
//	@Summary	List all speakers
//	@Tags		speakers
//	@Produce	json
//	@Success	200	{object}	map[string][]string	"Language code to speaker display names"
//	@Failure	404	{object}	message.Error		"Speakers directory not found"
//	@Failure	500	{object}	message.Error
//	@Router		/speakers [get]
//	@Router		/speakers [post]
func (s *Server) handleAllSpeakers(w http.ResponseWriter, r *http.Request) {
	languages, err := s.svc.Catalog().Languages(r.Context())
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, languages)
}

// handleLanguageSpeakers lists the speakers of one language.
//
//	@Summary	List speakers of a language
//	@Tags		speakers
//	@Produce	json
//	@Param		language	path		string	true	"Language code"
//	@Success	200			{object}	message.LanguageSpeakers
//	@Failure	404			{object}	message.LanguageNotFound
//	@Failure	500			{object}	message.Error
//	@Router		/speakers/{language} [get]
//	@Router		/speakers/{language} [post]
func (s *Server) handleLanguageSpeakers(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "language")

	speakers, err := s.svc.Catalog().Speakers(r.Context(), lang)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, message.LanguageSpeakers{Language: lang, Speakers: speakers})
}

// handleAudio serves a generated artifact.
//
//	@Summary	Download generated audio
//	@Tags		synthesis
//	@Produce	audio/wav
//	@Param		name	path	string	true	"Artifact file name"
//	@Success	200
//	@Failure	404
//	@Router		/static/audio/{name} [get]
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || !strings.HasSuffix(name, wav.Ext) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", wav.ContentType)
	http.ServeFile(w, r, filepath.Join(s.opts.AudioDir, name))
}

// serveArtifact streams the artifact inline. The file stays on disk until
// the janitor sweeps it.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, art *synthesis.Artifact) {
	f, err := os.Open(art.Path)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("opening artifact: %w", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, r, fmt.Errorf("reading artifact: %w", err))
		return
	}

	w.Header().Set("Content-Type", wav.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", art.Name))
	if art.Request.TrackingID != "" {
		w.Header().Set("X-Tracking-Id", art.Request.TrackingID)
	}
	http.ServeContent(w, r, art.Name, info.ModTime(), f)
}

// audioURL builds the absolute URL of an artifact as seen by the caller.
func (s *Server) audioURL(r *http.Request, name string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	u := fmt.Sprintf("%s://%s/static/audio/%s", scheme, r.Host, name)
	if s.opts.PublicPort != "" {
		u = urlPort.ReplaceAllLiteralString(u, ":"+s.opts.PublicPort+"/")
	}
	return u
}
