package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/galleria"
	galleriahttp "github.com/sagarc03/galleria/http"
)

func TestHandleError_Rejection(t *testing.T) {
	rec := httptest.NewRecorder()

	galleriahttp.HandleError(rec, fmt.Errorf("validate %q: %w", "a.exe", galleria.ErrExtensionNotAllowed))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "File extension not allowed")
	assert.NotContains(t, rec.Body.String(), "a.exe")
}

func TestHandleError_InvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()

	galleriahttp.HandleError(rec, galleria.ErrInvalidInput)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid input")
}

func TestHandleError_InternalError(t *testing.T) {
	rec := httptest.NewRecorder()

	galleriahttp.HandleError(rec, errors.New("some unexpected error"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "some unexpected error")
}

func TestWriteDecoy(t *testing.T) {
	decoys := []string{"https://one.example", "https://two.example"}

	for range 20 {
		rec := httptest.NewRecorder()
		galleriahttp.WriteDecoy(rec, httptest.NewRequest("GET", "/x", nil), decoys)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, decoys, rec.Header().Get("Location"))
		assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	}
}

func TestWriteDecoy_DefaultList(t *testing.T) {
	rec := httptest.NewRecorder()
	galleriahttp.WriteDecoy(rec, httptest.NewRequest("GET", "/x", nil), nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, galleriahttp.DefaultDecoys, rec.Header().Get("Location"))
}
