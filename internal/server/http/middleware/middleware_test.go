package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/metrics"
	pkgAuth "github.com/polkiloo/pos80/internal/pkg/auth"
	testhelpers "github.com/polkiloo/pos80/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type parserFunc func(string) (model.Actor, error)

func (f parserFunc) ParseToken(token string) (model.Actor, error) { return f(token) }

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.StrategyStub{}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil)); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
	if resp := serve(router, bearer("garbage")); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(parserFunc(func(string) (model.Actor, error) { return model.Actor{}, context.DeadlineExceeded })))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, bearer("token")); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var stored model.Actor
	router = gin.New()
	router.Use(AuthRequired(testhelpers.StrategyStub{}))
	router.GET("/", func(c *gin.Context) {
		stored, _ = Actor(c)
		c.Status(http.StatusOK)
	})
	resp := serve(router, bearer(testhelpers.Token(model.Actor{Login: "caixa", Role: model.RoleCashier})))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored.Login != "caixa" || stored.Role != model.RoleCashier {
		t.Fatalf("unexpected actor %+v", stored)
	}
}

func TestAuthRequiredWrappedInvalidToken(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(parserFunc(func(string) (model.Actor, error) {
		return model.Actor{}, pkgAuth.ErrInvalidToken
	})))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, bearer("x")); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name  string
		actor *model.Actor
		code  int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"wrong role", &model.Actor{Login: "cozinha", Role: model.RoleKitchen}, http.StatusForbidden},
		{"allowed role", &model.Actor{Login: "caixa", Role: model.RoleCashier}, http.StatusOK},
		{"admin", &model.Actor{Login: "admin", Role: model.RoleAdmin}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) {
				if tc.actor != nil {
					c.Set(ActorContextKey, *tc.actor)
				}
				c.Next()
			}, RequireRole(model.RoleCashier), func(c *gin.Context) { c.Status(http.StatusOK) })
			if resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil)); resp.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, resp.Code)
			}
		})
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestDecompressRequest(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(`{"customerName":"Rita"}`))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest())
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "gzip")
	serve(router, req)
	if body != `{"customerName":"Rita"}` {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	body = ""
	serve(router, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("plain"))))
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	if resp := serve(router, req); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed gzip, got %d", resp.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	levels := map[slog.Level]int{}
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			levels[a.Value.Any().(slog.Level)]++
		}
		return a
	}})
	logger := slog.New(handler)

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if levels[slog.LevelInfo] != 1 || levels[slog.LevelError] != 1 {
		t.Fatalf("expected one info and one error entry, got %v", levels)
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New()
	router := gin.New()
	router.Use(Instrument(m))
	router.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/orders/a", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/orders/b", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	count, err := testutil.GatherAndCount(m.Registry(), "pos80_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected one series per route template, got %d", count)
	}

	nilRouter := gin.New()
	nilRouter.Use(Instrument(nil))
	nilRouter.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	if resp := serve(nilRouter, httptest.NewRequest(http.MethodGet, "/", nil)); resp.Code != http.StatusOK {
		t.Fatalf("nil metrics must be a no-op, got %d", resp.Code)
	}
}
