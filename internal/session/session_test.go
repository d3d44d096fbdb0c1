package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strayline/casevault/internal/domain"
)

func TestHTTPValidator(t *testing.T) {
	ctx := context.Background()

	t.Run("valid session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/sessions/validate", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		v := NewHTTPValidator(srv.URL)
		assert.NoError(t, v.Validate(ctx, "user-1", "token-abc"))
	})

	t.Run("rejected session maps to ErrSessionInvalid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		v := NewHTTPValidator(srv.URL)
		assert.ErrorIs(t, v.Validate(ctx, "user-1", "expired"), domain.ErrSessionInvalid)
	})

	t.Run("service failure is not a session rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		v := NewHTTPValidator(srv.URL)
		err := v.Validate(ctx, "user-1", "token")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrSessionInvalid)
	})

	t.Run("empty token rejected without a round trip", func(t *testing.T) {
		v := NewHTTPValidator("http://session.invalid")
		assert.ErrorIs(t, v.Validate(ctx, "user-1", ""), domain.ErrSessionInvalid)
	})
}

func TestStaticValidator(t *testing.T) {
	v := NewStaticValidator("dev-token")

	assert.NoError(t, v.Validate(context.Background(), "user-1", "dev-token"))
	assert.ErrorIs(t, v.Validate(context.Background(), "user-1", "wrong"), domain.ErrSessionInvalid)

	// An empty configured token accepts nothing.
	empty := NewStaticValidator("")
	assert.ErrorIs(t, empty.Validate(context.Background(), "user-1", ""), domain.ErrSessionInvalid)
}

func TestCSRFValidator(t *testing.T) {
	v := NewCSRFValidator("test-secret")

	token := v.TokenFor("user-1")
	assert.NoError(t, v.Validate("user-1", token))
	assert.ErrorIs(t, v.Validate("user-1", "forged"), domain.ErrCSRFInvalid)

	// A token minted for one user is useless for another.
	assert.ErrorIs(t, v.Validate("user-2", token), domain.ErrCSRFInvalid)

	// Different secrets never agree.
	other := NewCSRFValidator("other-secret")
	assert.ErrorIs(t, other.Validate("user-1", token), domain.ErrCSRFInvalid)
}
