package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("points must be positive"), http.StatusBadRequest},
		{"insufficient balance", InsufficientBalance(100, 150), http.StatusBadRequest},
		{"insufficient stock", InsufficientStock("Mug"), http.StatusBadRequest},
		{"conflict", Conflict("email already registered"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{"forbidden", Forbidden("account suspended"), http.StatusForbidden},
		{"not found", NotFound("customer"), http.StatusNotFound},
		{"external", External("whatsapp", errors.New("timeout")), http.StatusBadGateway},
		{"wrapped", fmt.Errorf("failed to redeem: %w", NotFound("reward")), http.StatusNotFound},
		{"untyped", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "customer not found", PublicMessage(fmt.Errorf("lookup: %w", NotFound("customer"))))
	assert.Equal(t, "insufficient points: have 100, need 150", PublicMessage(InsufficientBalance(100, 150)))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: relation does not exist")))
}

func TestExternalKeepsCause(t *testing.T) {
	cause := errors.New("503 from vendor")
	err := External("whatsapp", cause)

	assert.True(t, errors.Is(err, ErrExternalService))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "whatsapp request failed", PublicMessage(err))
}
