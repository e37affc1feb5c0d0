package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nadzzz/flextts/internal/errdefs"
	"github.com/nadzzz/flextts/internal/message"
	"github.com/nadzzz/flextts/internal/synthesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		want        synthesis.Request
	}{
		{
			name:        "form only",
			target:      "/",
			contentType: "application/x-www-form-urlencoded",
			body:        "text=Hello&language=fr&speaker=Marie&response_type=file&trackingid=t1",
			want:        synthesis.Request{Text: "Hello", Language: "fr", Speaker: "Marie", ResponseType: message.ResponseFile, TrackingID: "t1"},
		},
		{
			name:        "json only",
			target:      "/",
			contentType: "application/json",
			body:        `{"text":"Hello","speaker":"Jane Doe","response_type":"base64"}`,
			want:        synthesis.Request{Text: "Hello", Speaker: "Jane Doe", ResponseType: message.ResponseBase64},
		},
		{
			name:        "query beats json for the same key",
			target:      "/?speaker=bob&response_type=url",
			contentType: "application/json",
			body:        `{"text":"Hello","speaker":"jane_doe","response_type":"base64"}`,
			want:        synthesis.Request{Text: "Hello", Speaker: "bob", ResponseType: message.ResponseURL},
		},
		{
			name:        "json fills what the query omits",
			target:      "/?language=de",
			contentType: "application/json; charset=utf-8",
			body:        `{"text":"Hallo","language":"en","trackingid":"t2"}`,
			want:        synthesis.Request{Text: "Hallo", Language: "de", TrackingID: "t2"},
		},
		{
			name:        "empty json body",
			target:      "/?text=Hi",
			contentType: "application/json",
			body:        "",
			want:        synthesis.Request{Text: "Hi"},
		},
		{
			name:        "nothing given",
			target:      "/",
			contentType: "application/x-www-form-urlencoded",
			body:        "",
			want:        synthesis.Request{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			got, err := parseRequest(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequestInvalidJSON(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
	r.Header.Set("Content-Type", "application/json")

	_, err := parseRequest(r)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestWantsJSON(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, wantsJSON(r))

	r.Header.Set("Accept", "text/html, application/json;q=0.9")
	assert.True(t, wantsJSON(r))

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Content-Type", "application/json")
	assert.True(t, wantsJSON(r))
}

func TestAudioURL(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "http://tts.local:6969/", nil)

	s := &Server{}
	assert.Equal(t, "http://tts.local:6969/static/audio/a.wav", s.audioURL(r, "a.wav"))

	s.opts.PublicPort = "16969"
	assert.Equal(t, "http://tts.local:16969/static/audio/a.wav", s.audioURL(r, "a.wav"))

	// Without a port in the host there is nothing to replace.
	r = httptest.NewRequest(http.MethodPost, "http://tts.local/", nil)
	assert.Equal(t, "http://tts.local/static/audio/a.wav", s.audioURL(r, "a.wav"))
}
