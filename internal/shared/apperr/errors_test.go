package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            ErrNotFound,
		http.StatusBadRequest:          ErrValidation,
		http.StatusConflict:            ErrValidation,
		http.StatusUnprocessableEntity: ErrValidation,
		http.StatusInternalServerError: ErrServer,
		http.StatusBadGateway:          ErrServer,
	}
	for status, want := range cases {
		assert.Equal(t, want, FromStatus(status), "status %d", status)
	}
}

func TestErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("list carousels: %w", &Error{Kind: ErrConnectivity, Op: "list carousels", Err: cause})

	assert.ErrorIs(t, err, ErrConnectivity)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrServer)
	assert.Equal(t, ErrConnectivity, Kind(err))
}

func TestMessagePrefersBackendText(t *testing.T) {
	err := &Error{Kind: ErrServer, Op: "create carousel", Status: 500, Message: "database unavailable"}
	assert.Equal(t, "database unavailable", Message(err))
	assert.Equal(t, "create carousel: database unavailable (status 500)", err.Error())
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Empty(t, Message(nil))
}
