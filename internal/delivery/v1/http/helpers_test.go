package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"missing image", e.Wrap("op", e.ErrMissingImage), http.StatusBadRequest, "No image file provided"},
		{"not multipart", e.Wrap("op", e.ErrExpectedMultipart), http.StatusBadRequest, "No image file provided"},
		{"no token", e.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized: No token provided"},
		{"bad token", e.Wrap("op", e.ErrInvalidToken), http.StatusUnauthorized, "Unauthorized: Invalid token"},
		{"storage forbidden", e.WithKind(e.ErrStorageUnauthorized, errors.New("AccessDenied")), http.StatusForbidden, "Forbidden: Unauthorized access to storage"},
		{"storage canceled", e.WithKind(e.ErrStorageCanceled, errors.New("ctx")), http.StatusRequestTimeout, "Request Timeout: Upload canceled"},
		{"storage unknown", e.WithKind(e.ErrStorageUnknown, errors.New("boom")), http.StatusInternalServerError, "Internal Server Error: Unknown storage error"},
		{"not found", e.Wrap("op", e.ErrRecordNotFound), http.StatusNotFound, e.ErrRecordNotFound.Error()},
		{"user not found", e.Wrap("op", e.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"too large", e.ErrImageTooLarge, http.StatusRequestEntityTooLarge, e.ErrImageTooLarge.Error()},
		{"unsupported", e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()},
		{"inference", e.WithKind(e.ErrInferenceInvalidResponse, errors.New("bad json")), http.StatusInternalServerError, "Internal Server Error"},
		{"anything else", errors.New("secret details"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer   abc  ", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, bearerToken(r), tt.header)
	}
}
