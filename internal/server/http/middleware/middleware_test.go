package middleware

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bricklane/storefront/internal/domain/model"
	pkgAuth "github.com/bricklane/storefront/internal/pkg/auth"
	"github.com/bricklane/storefront/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(parser TokenParser) *gin.Engine {
	engine := gin.New()
	engine.GET("/private", AuthRequired(parser), func(c *gin.Context) {
		id, _ := c.Get(UserIDContextKey)
		role, _ := c.Get(UserRoleContextKey)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	engine.GET("/admin", AuthRequired(parser), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestAuthRequiredMissingToken(t *testing.T) {
	engine := newAuthEngine(test.TokenParserStub{ID: 1})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/private", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAuthRequiredBearerToken(t *testing.T) {
	engine := newAuthEngine(test.TokenParserStub{ID: 7, Role: model.RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestAuthRequiredCookieToken(t *testing.T) {
	engine := newAuthEngine(test.TokenParserStub{ID: 7})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_token", Value: "sometoken"})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	engine := newAuthEngine(test.TokenParserStub{Err: pkgAuth.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer bad")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAuthRequiredParserFailure(t *testing.T) {
	engine := newAuthEngine(test.TokenParserStub{Err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer token")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	adminEngine := newAuthEngine(test.TokenParserStub{ID: 1, Role: model.RoleAdmin})
	customerEngine := newAuthEngine(test.TokenParserStub{ID: 2})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer token")

	recorder := httptest.NewRecorder()
	adminEngine.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	customerEngine.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", recorder.Code)
	}
}

func TestDecompressRequest(t *testing.T) {
	engine := gin.New()
	engine.Use(DecompressRequest())
	engine.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/echo", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK || recorder.Body.String() != "payload" {
		t.Fatalf("unexpected response %d %q", recorder.Code, recorder.Body.String())
	}
}

func TestDecompressRequestBadPayload(t *testing.T) {
	engine := gin.New()
	engine.Use(DecompressRequest())
	engine.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(RequestLogger(logger))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if !bytes.Contains(buf.Bytes(), []byte("/ping")) {
		t.Fatalf("expected request path in log output: %s", buf.String())
	}
}
