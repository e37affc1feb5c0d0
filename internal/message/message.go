// Package message defines the wire types exchanged over the HTTP API.
package message

import (
	"encoding/base64"
	"fmt"
)

// ResponseType selects how synthesized audio is returned to the caller.
type ResponseType string

const (
	// ResponseURL returns a link to the artifact, which stays on disk until swept.
	ResponseURL ResponseType = "url"

	// ResponseBase64 embeds the audio in the JSON body; the artifact is deleted.
	ResponseBase64 ResponseType = "base64"

	// ResponseFile streams the WAV bytes as the response body.
	ResponseFile ResponseType = "file"
)

// DefaultResponseType is used when the request names none.
const DefaultResponseType = ResponseURL

// Valid reports whether t is one of the supported response types.
func (t ResponseType) Valid() bool {
	switch t {
	case ResponseURL, ResponseBase64, ResponseFile:
		return true
	}
	return false
}

// AudioFormat is the only container the service produces.
const AudioFormat = "wav"

// Request is a synthesis request as sent in a JSON body. Every field is
// optional on the wire; absent fields fall back to form values and then to
// the configured defaults.
type Request struct {
	Text         *string `json:"text,omitempty"`
	Language     *string `json:"language,omitempty"`
	Speaker      *string `json:"speaker,omitempty"`
	ResponseType *string `json:"response_type,omitempty"`
	TrackingID   *string `json:"trackingid,omitempty"`
}

// Response is the JSON envelope of a successful synthesis.
type Response struct {
	Text   string `json:"text"`
	Format string `json:"format"`

	// URL is set when response_type is "url".
	URL string `json:"url,omitempty"`

	// AudioData and Encoding are set when response_type is "base64".
	AudioData string `json:"audio_data,omitempty"`
	Encoding  string `json:"encoding,omitempty"`

	// TrackingID echoes the caller's correlation value, if any.
	TrackingID string `json:"trackingid,omitempty"`
}

// SetAudioBytes base64-encodes raw audio into AudioData.
func (r *Response) SetAudioBytes(audio []byte) {
	r.AudioData = base64.StdEncoding.EncodeToString(audio)
	r.Encoding = "base64"
}

// Error is the JSON body of a failed request.
type Error struct {
	Error string `json:"error"`
}

// LanguageNotFound is returned for an unknown language together with the
// languages that do exist.
type LanguageNotFound struct {
	Error              string   `json:"error"`
	AvailableLanguages []string `json:"available_languages"`
}

// LanguageSpeakers lists the speakers of a single language.
type LanguageSpeakers struct {
	Language string   `json:"language"`
	Speakers []string `json:"speakers"`
}

// Info is the capability document served by GET / to JSON clients.
type Info struct {
	Info    string      `json:"info"`
	Methods InfoMethods `json:"methods"`
}

// InfoMethods describes the verbs accepted on /.
type InfoMethods struct {
	GET  string     `json:"GET"`
	POST InfoMethod `json:"POST"`
}

// InfoMethod documents the parameters and result fields of a verb.
type InfoMethod struct {
	Parameters map[string]string `json:"parameters"`
	Returns    map[string]string `json:"returns"`
}

// NewInfo builds the capability document for the given defaults.
func NewInfo(defaultLanguage, defaultSpeaker string) Info {
	return Info{
		Info: "FlexTTS API",
		Methods: InfoMethods{
			GET: "Returns this info",
			POST: InfoMethod{
				Parameters: map[string]string{
					"text":          "Text to convert to speech",
					"language":      fmt.Sprintf("Language code (default: %s)", defaultLanguage),
					"speaker":       fmt.Sprintf("Speaker file name (default: %s)", defaultSpeaker),
					"response_type": `Response type: "base64", "file" or "url" (default: "url")`,
					"trackingid":    "Optional value echoed back in the response",
				},
				Returns: map[string]string{
					"text":       "Text to convert to speech",
					"audio_data": "Base64 encoded WAV audio (when response_type=base64)",
					"url":        "URL to the generated audio file (when response_type=url)",
					"format":     "Audio format (wav)",
					"trackingid": "The trackingid sent with the request, if any",
				},
			},
		},
	}
}
