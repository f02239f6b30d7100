package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrasnagy-data/productdesk/internal/shared/config"
	"github.com/andrasnagy-data/productdesk/internal/shared/cookie"
)

func newJar(t *testing.T, key string) *cookie.Jar {
	t.Helper()
	jar, err := cookie.NewJar(&config.Config{SecretKey: key})
	if err != nil {
		t.Fatalf("NewJar() error = %v", err)
	}
	return jar
}

// echoToken writes the session token the middleware put in the context.
var echoToken = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetSession(r.Context()).Token))
})

func TestSessionMiddleware(t *testing.T) {
	jar := newJar(t, "000102030405060708090a0b0c0d0e0f")
	otherJar := newJar(t, "0f0e0d0c0b0a09080706050403020100")

	tests := []struct {
		name        string
		cookieFrom  *cookie.Jar
		wantToken   string
		wantCleared bool
	}{
		{name: "no cookie", wantToken: ""},
		{name: "valid cookie", cookieFrom: jar, wantToken: "1|abc"},
		{name: "cookie from another key", cookieFrom: otherJar, wantToken: "", wantCleared: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.cookieFrom != nil {
				set := httptest.NewRecorder()
				if err := test.cookieFrom.Set(set, "1|abc"); err != nil {
					t.Fatalf("Set() error = %v", err)
				}
				for _, c := range set.Result().Cookies() {
					req.AddCookie(c)
				}
			}
			rec := httptest.NewRecorder()

			// Act
			NewSessionMiddleware(jar)(echoToken).ServeHTTP(rec, req)

			// Assert
			if rec.Body.String() != test.wantToken {
				t.Errorf("token = %q, want %q", rec.Body.String(), test.wantToken)
			}
			cleared := len(rec.Result().Cookies()) == 1 && rec.Result().Cookies()[0].MaxAge < 0
			if cleared != test.wantCleared {
				t.Errorf("cookie cleared = %v, want %v", cleared, test.wantCleared)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		htmx       bool
		wantStatus int
		wantHeader string
	}{
		{name: "authenticated passes", token: "1|abc", wantStatus: http.StatusOK},
		{name: "anonymous page load", wantStatus: http.StatusSeeOther, wantHeader: "Location"},
		{name: "anonymous htmx request", htmx: true, wantStatus: http.StatusOK, wantHeader: "HX-Redirect"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req = req.WithContext(WithSession(req.Context(), Session{Token: test.token}))
			if test.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()

			// Act
			RequireSession("/auth")(echoToken).ServeHTTP(rec, req)

			// Assert
			if rec.Code != test.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, test.wantStatus)
			}
			if test.wantHeader != "" && rec.Header().Get(test.wantHeader) != "/auth" {
				t.Errorf("%s = %q, want /auth", test.wantHeader, rec.Header().Get(test.wantHeader))
			}
			if test.wantHeader == "" && rec.Body.String() != test.token {
				t.Errorf("handler should run with the session, got %q", rec.Body.String())
			}
		})
	}
}

func TestRedirectIfAuthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req = req.WithContext(WithSession(req.Context(), Session{Token: "1|abc"}))
	rec := httptest.NewRecorder()

	RedirectIfAuthenticated("/dashboard")(echoToken).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}
}
