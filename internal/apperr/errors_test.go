package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
	}{
		{"not found", NotFound("Lekcja nie istnieje"), KindNotFound, http.StatusNotFound},
		{"forbidden", Forbidden("Brak dostępu"), KindForbidden, http.StatusForbidden},
		{"bad request", BadRequest("Brak odpowiedzi"), KindBadRequest, http.StatusBadRequest},
		{"validation", NewValidationError("invalid", FieldError{Field: "odp_a", Error: "required"}), KindBadRequest, http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("no session"), KindUnauthenticated, http.StatusUnauthorized},
		{"wrapped", errors.Wrap(NotFound("gone"), "loading lesson"), KindNotFound, http.StatusNotFound},
		{"plain", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
			status := http.StatusInternalServerError
			var appErr *Error
			if errors.As(tt.err, &appErr) {
				status = appErr.Status()
			}
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Brak odpowiedzi", BadRequest("Brak odpowiedzi").Error())
	assert.Equal(t, "Not Found", (&Error{Kind: KindNotFound}).Error())
	assert.False(t, Is(nil, KindNotFound))
}
