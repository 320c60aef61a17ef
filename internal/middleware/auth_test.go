package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (string, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var gotUserID string
	err := mw(func(c echo.Context) error {
		gotUserID = UserID(c)
		return nil
	})(c)

	return gotUserID, err
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := MintToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	userID, err := invoke(t, Auth(testSecret), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestAuth_MissingToken(t *testing.T) {
	_, err := invoke(t, Auth(testSecret), "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	token, err := MintToken("some-other-secret", "user-42", time.Hour)
	require.NoError(t, err)

	_, err = invoke(t, Auth(testSecret), "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token, err := MintToken(testSecret, "user-42", -time.Minute)
	require.NoError(t, err)

	_, err = invoke(t, Auth(testSecret), "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOptionalAuth_GuestFallback(t *testing.T) {
	userID, err := invoke(t, OptionalAuth(testSecret), "")
	require.NoError(t, err)
	assert.Equal(t, GuestUserID, userID)
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	token, err := MintToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	userID, err := invoke(t, OptionalAuth(testSecret), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestOptionalAuth_InvalidTokenFallsBackToGuest(t *testing.T) {
	userID, err := invoke(t, OptionalAuth(testSecret), "Bearer not-a-jwt")
	require.NoError(t, err)
	assert.Equal(t, GuestUserID, userID)
}
