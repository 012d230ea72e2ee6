package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/config"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "test-issuer",
		AccessTokenTTL: time.Hour,
		RememberMeTTL:  24 * time.Hour,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateToken(models.User{ID: 3, Login: "admin", Authorities: []string{"ROLE_ADMIN"}}, false, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(token, cfg)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "admin" || claims.UserID != 3 {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other := *cfg
	other.Secret = "another-secret"
	if _, err := ValidateToken(token, &other); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
	other = *cfg
	other.Issuer = "someone-else"
	if _, err := ValidateToken(token, &other); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testJWTConfig()
	var seen string
	h := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = LoginFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]int{
		"":               http.StatusUnauthorized,
		"Token abc":      http.StatusUnauthorized,
		"Bearer garbage": http.StatusUnauthorized,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/vaccines", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("header %q: expected %d, got %d", header, want, rec.Code)
		}
	}

	token, err := GenerateToken(models.User{ID: 1, Login: "jdoe"}, true, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/vaccines", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != "jdoe" {
		t.Fatalf("expected pass-through for jdoe, got %d login=%q", rec.Code, seen)
	}
}

func TestRequestLoggerAssignsID(t *testing.T) {
	var inner string
	h := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	got := rec.Header().Get(RequestIDHeader)
	if got == "" || got != inner {
		t.Fatalf("expected matching request id, header=%q context=%q", got, inner)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rec.Code)
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/vaccines/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/vaccines/"+id, nil))
	}
	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/vaccines/{id}", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests on the route pattern, got %v", got)
	}
}
