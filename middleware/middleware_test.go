package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, userID uint, isAdmin bool) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, userID, isAdmin, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": utils.GetUser(c).UserID})
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Bearer not-a-jwt").Code)

	w := serve(r, http.MethodGet, "/me", bearer(t, 7, false))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestAuthMiddlewareRejectsForeignSecret(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := utils.GenerateToken([]byte("other"), 7, false, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Bearer "+token).Code)
}

func TestAdminOnly(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(testSecret), AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", bearer(t, 7, false)).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", bearer(t, 1, true)).Code)
}

func TestRecoveryReturns500(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/places/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/places/1", "")
	serve(r, http.MethodGet, "/places/2", "")
	serve(r, http.MethodGet, "/nowhere", "")

	out, err := testutil.GatherAndCount(m.Registry, "datecourse_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, out)

	body := strings.NewReader(`
# HELP datecourse_http_requests_total Total number of HTTP requests handled.
# TYPE datecourse_http_requests_total counter
datecourse_http_requests_total{method="GET",route="/places/:id",status="200"} 2
datecourse_http_requests_total{method="GET",route="unmatched",status="404"} 1
`)
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, body, "datecourse_http_requests_total"))
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, testSecret)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/ping", "").Code)

	// same IP, but an authenticated user gets its own bucket
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", bearer(t, 3, false)).Code)
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiterKeysOnBearerToken(t *testing.T) {
	rl := NewRateLimiter(1, 1, testSecret)
	key := func(auth string) string {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ping", nil)
		c.Request.RemoteAddr = "10.0.0.9:5555"
		if auth != "" {
			c.Request.Header.Set("Authorization", auth)
		}
		return rl.clientKey(c)
	}

	assert.Equal(t, "ip:10.0.0.9", key(""))
	assert.Equal(t, "ip:10.0.0.9", key("Bearer junk"))
	assert.Equal(t, "user:12", key(bearer(t, 12, false)))
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 10, nil)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.getLimiter("ip:1")
	now = now.Add(limiterIdleTTL / 2)
	rl.getLimiter("ip:2")
	now = now.Add(limiterIdleTTL/2 + time.Second)

	rl.Cleanup()
	assert.Equal(t, 1, rl.Size())
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/who", OptionalAuth(testSecret), func(c *gin.Context) {
		if user := utils.GetUser(c); user != nil {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/who", "").Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/who", "Bearer junk").Body.String())
	assert.Equal(t, "user", serve(r, http.MethodGet, "/who", bearer(t, 4, false)).Body.String())
}
