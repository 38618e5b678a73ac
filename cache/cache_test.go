package cache

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyBuilding(t *testing.T) {
	s := New(nil)

	if got := s.Key("/api/issues", "", ""); got != "respcache:/api/issues" {
		t.Errorf("Key = %q", got)
	}
	if got := s.Key("/api/issues", "page=2&limit=10", ""); got != "respcache:/api/issues?page=2&limit=10" {
		t.Errorf("Key with query = %q", got)
	}
	if got := s.Key("/api/issues", "page=1", "64f000000000000000000001"); got != "respcache:/api/issues?page=1@64f000000000000000000001" {
		t.Errorf("Key with user = %q", got)
	}
}

func TestKeyDistinguishesQueries(t *testing.T) {
	s := New(nil)
	a := s.Key("/api/issues", "page=1", "")
	b := s.Key("/api/issues", "page=2", "")
	if a == b {
		t.Error("different queries must produce different cache keys")
	}
}

func TestKeyDistinguishesUsers(t *testing.T) {
	s := New(nil)
	a := s.Key("/api/issues", "page=1", "64f000000000000000000001")
	b := s.Key("/api/issues", "page=1", "64f000000000000000000002")
	if a == b {
		t.Error("different users must produce different cache keys for the same listing")
	}
	for _, k := range []string{a, b} {
		if !strings.HasPrefix(k, "respcache:/api/issues") {
			t.Errorf("user-scoped key %q must stay under the resource prefix for invalidation", k)
		}
	}
}

func TestFromContextWithoutInjection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if FromContext(c) != nil {
		t.Error("FromContext without Inject should return nil")
	}
}

func TestMiddlewarePassesThroughWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(nil, 0))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "live") })

	req, _ := http.NewRequest("GET", "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "live" {
		t.Errorf("disabled cache must pass through: code=%d body=%q", w.Code, w.Body.String())
	}
}
