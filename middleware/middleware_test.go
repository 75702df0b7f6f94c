package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-restaurant-pos/helpers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *helpers.TokenMaker) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authentication(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(KeyUID)})
	})
	r.GET("/admin", Authentication(tokens), RequireRole("ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/session", Session(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(KeySession))
	})
	return r
}

func TestAuthentication(t *testing.T) {
	tokens := helpers.NewTokenMaker("s3cret")
	r := newRouter(tokens)
	cashier, _, err := tokens.GenerateAllTokens("c@x.id", "C", "u1", "CASHIER")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("token", cashier)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"u1"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("token", cashier)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionIssuesAndReusesId(t *testing.T) {
	r := newRouter(helpers.NewTokenMaker("s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))
	issued := w.Body.String()
	_, err := uuid.Parse(issued)
	require.NoError(t, err)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, SessionCookie, w.Result().Cookies()[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issued})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, issued, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	fromHeader := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set(SessionHeader, fromHeader)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, fromHeader, w.Body.String())
}
