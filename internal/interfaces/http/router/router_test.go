package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)

	r.Register(NewDomainGroup("sync", "/sync").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) }))
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/sync/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("sync", "/sync").
		GET("/connections", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		}).
		POST("/runs/batch", func(c *gin.Context) {
			c.Status(http.StatusAccepted)
		})

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/connections", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/sync/runs/batch", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("sync", "/sync").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).
		Use(func(c *gin.Context) {
			c.Header("X-Stamped", "yes")
			c.Next()
		}).
		Register(group).
		Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Stamped"))
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	group := NewDomainGroup("sync", "/sync").
		GET("/g", ok).
		POST("/p", ok).
		PUT("/u", ok).
		DELETE("/d", ok)

	assert.Equal(t, "sync", group.Name())
	assert.Len(t, group.routes, 4)

	NewRouter(engine).Register(group).Setup()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/sync/g"},
		{http.MethodPost, "/api/v1/sync/p"},
		{http.MethodPut, "/api/v1/sync/u"},
		{http.MethodDelete, "/api/v1/sync/d"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("sync", "/sync").
		Use(func(c *gin.Context) {
			if c.GetHeader("X-Allow") == "" {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		}).
		GET("/guarded", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/guarded", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sync/guarded", nil)
	req.Header.Set("X-Allow", "1")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()

	sync := NewDomainGroup("sync", "/sync").
		GET("/connections", func(c *gin.Context) { c.Status(http.StatusOK) })
	system := NewDomainGroup("system", "/system").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).Register(sync).Register(system).Setup()

	for _, path := range []string{"/api/v1/sync/connections", "/api/v1/system/ping"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
