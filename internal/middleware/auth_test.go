package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireCronSecret(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	call := func(secret, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/activate-predictions", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		RequireCronSecret(secret)(okHandler).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := call("s3cret", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		rec := call("s3cret", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct bearer token passes", func(t *testing.T) {
		rec := call("s3cret", "Bearer s3cret")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty configured secret disables the check", func(t *testing.T) {
		rec := call("", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
