package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaims struct {
	deviceID uuid.UUID
}

func (c *fakeClaims) GetDeviceID() uuid.UUID { return c.deviceID }

type fakeValidator struct {
	deviceID uuid.UUID
	err      error
}

func (v *fakeValidator) ValidateToken(token string) (DeviceIDGetter, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fakeClaims{deviceID: v.deviceID}, nil
}

func TestAuth_ValidToken(t *testing.T) {
	deviceID := uuid.New()
	var gotDeviceID uuid.UUID

	handler := Auth(&fakeValidator{deviceID: deviceID})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetDeviceID(r)
		require.NoError(t, err)
		gotDeviceID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, deviceID, gotDeviceID)
}

func TestAuth_CaseInsensitiveBearer(t *testing.T) {
	handler := Auth(&fakeValidator{deviceID: uuid.New()})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "some-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bearer with no token", "Bearer"},
		{"too many parts", "Bearer a b"},
	}

	handler := Auth(&fakeValidator{deviceID: uuid.New()})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(&fakeValidator{err: fmt.Errorf("bad token")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDeviceID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetDeviceID(req)
	assert.Error(t, err)
}
