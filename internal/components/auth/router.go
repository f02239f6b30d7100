package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
	"github.com/andrasnagy-data/productdesk/internal/shared/cookie"
	"github.com/andrasnagy-data/productdesk/internal/shared/middleware"
	"github.com/andrasnagy-data/productdesk/internal/shared/render"
)

const (
	DashboardPath = "/dashboard"
	AuthPath      = "/auth"
)

type (
	Router struct {
		service  servicer
		jar      *cookie.Jar
		renderer *render.Renderer
	}
)

func NewRouter(service servicer, jar *cookie.Jar, renderer *render.Renderer) chi.Router {
	router := &Router{service: service, jar: jar, renderer: renderer}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.With(middleware.RedirectIfAuthenticated(DashboardPath)).Get("/", r.AuthPage)
	router.Get("/form", r.AuthCard)
	router.Post("/", r.HandleAuthFlow)
	router.Post("/logout", r.Logout)
	return router
}

// AuthPage renders the full login or register page, picked by ?mode=.
func (r *Router) AuthPage(w http.ResponseWriter, req *http.Request) {
	mode := ParseMode(req.URL.Query().Get("mode"))
	r.renderCard(w, req, CardData{Mode: mode}, false)
}

// AuthCard returns just the card, used by the login/register toggle.
func (r *Router) AuthCard(w http.ResponseWriter, req *http.Request) {
	mode := ParseMode(req.URL.Query().Get("mode"))
	r.renderCard(w, req, CardData{Mode: mode}, true)
}

// HandleAuthFlow submits the card to exactly one of Login or Register, chosen by the mode field.
func (r *Router) HandleAuthFlow(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	if err := req.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse auth form")
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	mode := ParseMode(req.PostFormValue("mode"))
	creds := Credentials{
		Name:                 req.PostFormValue("name"),
		Email:                req.PostFormValue("email"),
		Password:             req.PostFormValue("password"),
		PasswordConfirmation: req.PostFormValue("password_confirmation"),
	}

	logger.Debug().Str("mode", string(mode)).Str("email", creds.Email).Msg("Authentication attempt")

	var (
		token string
		err   error
	)
	switch mode {
	case ModeRegister:
		token, err = r.service.Register(ctx, creds)
	default:
		token, err = r.service.Login(ctx, creds.Email, creds.Password)
	}
	if err != nil {
		logger.Warn().Err(err).Str("mode", string(mode)).Str("email", creds.Email).Msg("Authentication failed")
		r.renderCard(w, req, CardData{
			Mode:  mode,
			Name:  creds.Name,
			Email: creds.Email,
			Error: failureMessage(mode, err),
		}, render.IsHTMX(req))
		return
	}

	if err := r.jar.Set(w, token); err != nil {
		logger.Error().Err(err).Str("email", creds.Email).Msg("Authentication failed: could not set cookie")
		r.renderCard(w, req, CardData{
			Mode:  mode,
			Name:  creds.Name,
			Email: creds.Email,
			Error: "Login failed. Please try again.",
		}, render.IsHTMX(req))
		return
	}

	logger.Debug().Str("mode", string(mode)).Str("email", creds.Email).Msg("Authentication successful")
	render.Redirect(w, req, DashboardPath)
}

// Logout drops the token. The API has no logout endpoint, so nothing is sent upstream.
func (r *Router) Logout(w http.ResponseWriter, req *http.Request) {
	r.jar.Clear(w)
	hlog.FromRequest(req).Debug().Msg("Logged out")
	render.Redirect(w, req, AuthPath)
}

func (r *Router) renderCard(w http.ResponseWriter, req *http.Request, data CardData, fragment bool) {
	logger := hlog.FromRequest(req)

	var err error
	if fragment {
		err = r.renderer.Fragment(w, http.StatusOK, "auth_card", data)
	} else {
		err = r.renderer.Page(w, http.StatusOK, "auth.html", render.Layout{
			Title:         data.Mode.Title(),
			Authenticated: middleware.GetSession(req.Context()).Authenticated(),
			Data:          data,
		})
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to execute auth template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func failureMessage(mode Mode, err error) string {
	if errors.Is(err, ErrInvalidCredentials) {
		return "Invalid email or password"
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	if mode == ModeRegister {
		return "Registration failed. Please try again."
	}
	return "Login failed. Please try again."
}
