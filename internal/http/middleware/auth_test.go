package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef-test")

func adminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/admin", Auth(testSecret), RequireRoles("admin", "superadmin"), func(c *gin.Context) {
		actor := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_AdminPasses(t *testing.T) {
	token, err := IssueToken(testSecret, 42, "Admin", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	w := get(adminRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"role":"admin"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuth_Rejections(t *testing.T) {
	r := adminRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "not-a-token").Code)

	wrongKey, err := IssueToken([]byte("another-secret-entirely"), 42, "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, wrongKey).Code)

	expired, err := IssueToken(testSecret, 42, "admin", jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, expired).Code)

	noUser, err := IssueToken(testSecret, 0, "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, noUser).Code)

	member, err := IssueToken(testSecret, 7, "member", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, member).Code)
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
