package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/nadzzz/flextts/internal/errdefs"
	"github.com/nadzzz/flextts/internal/message"
	"github.com/nadzzz/flextts/internal/synthesis"
)

// maxMemory is the part of a multipart body kept in memory.
const maxMemory = 4 << 20

// isJSON reports whether the request body is JSON.
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// wantsJSON reports whether the response should be a JSON envelope rather
// than HTML or plain text.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || isJSON(r)
}

// parseRequest builds a synthesis request from the query string, the form
// body and a JSON body, in that order of precedence. A field left empty here
// takes the configured default later on.
func parseRequest(r *http.Request) (synthesis.Request, error) {
	var body message.Request

	if isJSON(r) {
		// Query parameters still count as explicit values.
		if err := r.ParseForm(); err != nil {
			return synthesis.Request{}, formError(err)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			var maxBytes *http.MaxBytesError
			if errors.As(err, &maxBytes) {
				return synthesis.Request{}, err
			}
			return synthesis.Request{}, errdefs.InvalidArgument(fmt.Sprintf("Invalid JSON body: %v", err))
		}
	} else if err := parseForm(r); err != nil {
		return synthesis.Request{}, formError(err)
	}

	return synthesis.Request{
		Text:         pick(r, "text", body.Text),
		Language:     pick(r, "language", body.Language),
		Speaker:      pick(r, "speaker", body.Speaker),
		ResponseType: message.ResponseType(pick(r, "response_type", body.ResponseType)),
		TrackingID:   pick(r, "trackingid", body.TrackingID),
	}, nil
}

func parseForm(r *http.Request) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

func formError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return errdefs.InvalidArgument(fmt.Sprintf("Invalid form data: %v", err))
}

// pick returns the form or query value for key when it is non-empty, and
// otherwise the JSON value.
func pick(r *http.Request, key string, fromJSON *string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	if fromJSON != nil {
		return *fromJSON
	}
	return ""
}
