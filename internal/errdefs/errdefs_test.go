package errdefs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nadzzz/flextts/internal/errdefs"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid", errdefs.InvalidArgument("No text provided"), http.StatusBadRequest},
		{"not found", errdefs.NotFound("Speaker not found: x (language: en)"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("resolving: %w", errdefs.NotFound("x")), http.StatusNotFound},
		{"synthesis", errdefs.Synthesis(errors.New("boom")), http.StatusInternalServerError},
		{"plain", errors.New("disk full"), http.StatusInternalServerError},
		{"body too large", &http.MaxBytesError{Limit: 16}, http.StatusRequestEntityTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errdefs.HTTPStatus(tc.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No text provided", errdefs.InvalidArgument("No text provided").Error())

	cause := errors.New("engine exploded")
	err := errdefs.Synthesis(cause)
	assert.Equal(t, "engine exploded", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, errdefs.IsSynthesis(err))
	assert.False(t, errdefs.IsNotFound(err))
}
