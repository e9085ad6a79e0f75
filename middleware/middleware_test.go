package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseBearer(t *testing.T) {
	good, err := SignAccessToken(testSecret, "user-1", "ann@club.test", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, _ := SignAccessToken(testSecret, "user-1", "ann@club.test", -time.Minute)
	other, _ := SignAccessToken("other-secret", "user-1", "ann@club.test", time.Hour)
	noEmail, _ := SignAccessToken(testSecret, "user-1", "", time.Hour)

	cases := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid", "Bearer " + good, false},
		{"lowercase scheme", "bearer " + good, false},
		{"missing", "", true},
		{"no scheme", good, true},
		{"expired", "Bearer " + expired, true},
		{"wrong secret", "Bearer " + other, true},
		{"missing email", "Bearer " + noEmail, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseBearer(tc.header, testSecret)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got identity %+v", id)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.UserID != "user-1" || id.Email != "ann@club.test" {
				t.Errorf("identity = %+v", id)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		id, _ := IdentityFromContext(c)
		c.String(http.StatusOK, id.Email)
	})
	r.GET("/maybe", OptionalAuth(testSecret), func(c *gin.Context) {
		if id, ok := IdentityFromContext(c); ok {
			c.String(http.StatusOK, id.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	token, _ := SignAccessToken(testSecret, "user-9", "bo@club.test", time.Hour)

	t.Run("rejects anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("accepts bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.String() != "bo@club.test" {
			t.Fatalf("got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("optional passes anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/maybe", nil))
		if w.Body.String() != "anonymous" {
			t.Fatalf("body = %q", w.Body.String())
		}
	})

	t.Run("optional rejects garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestClientIP(t *testing.T) {
	r := gin.New()
	r.Use(AuditMiddleware())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, GetIPFromContext(c)) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-Ip": "198.51.100.2"}, "198.51.100.2"},
		{"bogus header falls back", map[string]string{"X-Forwarded-For": "garbage"}, "192.0.2.1"},
		{"remote addr", nil, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = "192.0.2.1:4321"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Body.String() != tc.want {
				t.Errorf("ip = %q, want %q", w.Body.String(), tc.want)
			}
		})
	}
}

func TestRateLimiterMemoryStore(t *testing.T) {
	limit, err := RateLimiter("2-M", "test", nil)
	if err != nil {
		t.Fatalf("limiter: %v", err)
	}
	r := gin.New()
	r.Use(AuditMiddleware())
	r.POST("/gate", limit, func(c *gin.Context) { c.Status(http.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/gate", nil)
		req.RemoteAddr = "192.0.2.50:1000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	if _, err := RateLimiter("lots", "bad", nil); err == nil {
		t.Error("expected error for malformed rate")
	}
}
