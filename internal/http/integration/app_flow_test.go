package integration_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/config"
	apphttp "github.com/fintrack/fintrack/internal/http"
	"github.com/fintrack/fintrack/internal/http/middlewares"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/fintrack/fintrack/internal/repo/memory"
	"github.com/fintrack/fintrack/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Full-stack flow against the real router with in-memory stores. The
// postgres and redis backends have their own tests; here the point is
// that the pieces fit together the way a browser would drive them.

func testConfig() config.Config {
	return config.Config{
		Env:           "test",
		SessionSecret: "test-secret-key",
		SessionTTL:    time.Hour,
		BcryptCost:    4, // fastest cost, fine for tests
	}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	users := memory.NewUsersRepo()
	entries := memory.NewEntriesRepo()

	authSvc := auth.NewService(users, cfg.BcryptCost)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, session.NewMemoryStore())

	return apphttp.NewRouter(logger, cfg, apphttp.Deps{
		Registrar:     authSvc,
		Authenticator: authSvc,
		Sessions:      sessions,
		Entries:       entries,
		Prom:          prom,
		Registry:      registry,
		ChartCache:    cache.New(time.Minute),
	})
}

// helpers

func postForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookieName && c.Value != "" {
			return c
		}
	}

	t.Fatal("session cookie not found in response")

	return nil
}

func register(t *testing.T, router http.Handler, name, email, password string) {
	t.Helper()

	w := postForm(router, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("register: got %d -> %q, body=%s", w.Code, w.Header().Get("Location"), w.Body.String())
	}
}

func login(t *testing.T, router http.Handler, email, password string) *http.Cookie {
	t.Helper()

	w := postForm(router, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login: got %d -> %q, body=%s", w.Code, w.Header().Get("Location"), w.Body.String())
	}

	return sessionCookie(t, w)
}

func addEntry(t *testing.T, router http.Handler, cookie *http.Cookie, path string, form url.Values) {
	t.Helper()

	w := postForm(router, path, form, cookie)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("%s: got %d -> %q, body=%s", path, w.Code, w.Header().Get("Location"), w.Body.String())
	}
}

func TestRegisterLoginDashboardFlow(t *testing.T) {
	router := setupTestRouter(t)

	register(t, router, "Ada", "ada@example.com", "hunter2")
	cookie := login(t, router, "ada@example.com", "hunter2")

	addEntry(t, router, cookie, "/add_income", url.Values{
		"amount": {"1000"},
		"source": {"Salary"},
		"date":   {"2025-01-15"},
	})

	addEntry(t, router, cookie, "/add_expense", url.Values{
		"amount":   {"200"},
		"category": {"Rent"},
		"date":     {"2025-01-16"},
	})

	w := get(router, "/dashboard", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: got %d, body=%s", w.Code, w.Body.String())
	}

	body := w.Body.String()

	for _, want := range []string{
		"Welcome, Ada",
		"Income: 1000.00",
		"Expense: 200.00",
		"Balance: 800.00",
		"Salary",
		"Rent",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, body)
		}
	}
}

func TestDashboardFilterNarrowsEntries(t *testing.T) {
	router := setupTestRouter(t)

	register(t, router, "Ada", "ada@example.com", "hunter2")
	cookie := login(t, router, "ada@example.com", "hunter2")

	addEntry(t, router, cookie, "/add_income", url.Values{
		"amount": {"100"},
		"source": {"January consulting"},
		"date":   {"2025-01-10"},
	})

	addEntry(t, router, cookie, "/add_income", url.Values{
		"amount": {"250"},
		"source": {"February consulting"},
		"date":   {"2025-02-10"},
	})

	w := postForm(router, "/dashboard", url.Values{
		"start_date": {"2025-02-01"},
		"end_date":   {"2025-02-28"},
	}, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard filter: got %d, body=%s", w.Code, w.Body.String())
	}

	body := w.Body.String()

	if !strings.Contains(body, "February consulting") {
		t.Fatalf("filtered dashboard missing in-range entry:\n%s", body)
	}

	if strings.Contains(body, "January consulting") {
		t.Fatalf("filtered dashboard shows out-of-range entry:\n%s", body)
	}

	if !strings.Contains(body, "Income: 250.00") {
		t.Fatalf("filtered total not recomputed:\n%s", body)
	}
}

func TestUsersOnlySeeTheirOwnEntries(t *testing.T) {
	router := setupTestRouter(t)

	register(t, router, "Ada", "ada@example.com", "hunter2")
	register(t, router, "Grace", "grace@example.com", "s3cret")

	adaCookie := login(t, router, "ada@example.com", "hunter2")
	graceCookie := login(t, router, "grace@example.com", "s3cret")

	addEntry(t, router, adaCookie, "/add_income", url.Values{
		"amount": {"1000"},
		"source": {"Ada salary"},
		"date":   {"2025-01-15"},
	})

	w := get(router, "/dashboard", graceCookie)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: got %d", w.Code)
	}

	if strings.Contains(w.Body.String(), "Ada salary") {
		t.Fatal("one user's entries leaked into another user's dashboard")
	}
}

func TestPrivateRoutesRedirectWithoutSession(t *testing.T) {
	router := setupTestRouter(t)

	paths := []string{"/dashboard", "/add_income", "/add_expense", "/dashboard/chart.png"}

	for _, path := range paths {
		w := get(router, path)

		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
			t.Fatalf("%s: got %d -> %q, want 302 -> /login", path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router := setupTestRouter(t)

	register(t, router, "Ada", "ada@example.com", "hunter2")
	cookie := login(t, router, "ada@example.com", "hunter2")

	w := get(router, "/logout", cookie)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("logout: got %d -> %q", w.Code, w.Header().Get("Location"))
	}

	// the old token must be dead server-side even if a client kept it

	w = get(router, "/dashboard", cookie)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("dashboard after logout: got %d -> %q, want 302 -> /login", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := setupTestRouter(t)

	register(t, router, "Ada", "ada@example.com", "hunter2")

	w := postForm(router, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"not-it"},
	})

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Email or password is incorrect.") {
		t.Fatalf("wrong password: got %d, body=%s", w.Code, w.Body.String())
	}

	// unknown email gets the identical response
	w2 := postForm(router, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	})

	if w2.Code != w.Code || !strings.Contains(w2.Body.String(), "Email or password is incorrect.") {
		t.Fatalf("unknown email: got %d, body=%s", w2.Code, w2.Body.String())
	}
}

func TestHomeRedirects(t *testing.T) {
	router := setupTestRouter(t)

	w := get(router, "/")

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous /: got %d -> %q", w.Code, w.Header().Get("Location"))
	}

	register(t, router, "Ada", "ada@example.com", "hunter2")
	cookie := login(t, router, "ada@example.com", "hunter2")

	w = get(router, "/", cookie)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("authenticated /: got %d -> %q", w.Code, w.Header().Get("Location"))
	}
}

func TestChartEndpointServesPNG(t *testing.T) {
	router := setupTestRouter(t)

	register(t, router, "Ada", "ada@example.com", "hunter2")
	cookie := login(t, router, "ada@example.com", "hunter2")

	addEntry(t, router, cookie, "/add_expense", url.Values{
		"amount":   {"200"},
		"category": {"Rent"},
		"date":     {"2025-01-16"},
	})

	addEntry(t, router, cookie, "/add_expense", url.Values{
		"amount":   {"50"},
		"category": {"Food"},
		"date":     {"2025-01-17"},
	})

	w := get(router, "/dashboard/chart.png", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("chart: got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("chart: got Content-Type %q, want image/png", ct)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	if w := get(router, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz: got %d", w.Code)
	}

	// no backends wired means nothing to probe, so ready
	if w := get(router, "/readyz"); w.Code != http.StatusOK {
		t.Fatalf("readyz: got %d", w.Code)
	}
}
