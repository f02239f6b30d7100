package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
	"github.com/andrasnagy-data/productdesk/internal/shared/cookie"
	"github.com/andrasnagy-data/productdesk/internal/shared/dedupe"
	"github.com/andrasnagy-data/productdesk/internal/shared/middleware"
	"github.com/andrasnagy-data/productdesk/internal/shared/render"
)

const (
	authPath = "/auth"

	// Multipart bodies above this are refused before parsing.
	maxUploadSize = 10 << 20

	deletedText = "Your file has been deleted."
)

type (
	Router struct {
		service  servicer
		guard    dedupe.Guard
		jar      *cookie.Jar
		renderer *render.Renderer
		newToken func() string
	}
)

func NewRouter(service servicer, guard dedupe.Guard, jar *cookie.Jar, renderer *render.Renderer) chi.Router {
	router := &Router{
		service:  service,
		guard:    guard,
		jar:      jar,
		renderer: renderer,
		newToken: uuid.NewString,
	}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireSession(authPath))

	router.Get("/", r.Dashboard)
	router.Get("/form", r.CreateForm)
	router.Get("/products", r.GetProducts)
	router.Post("/products", r.SubmitProduct)
	router.Get("/products/{id}/edit", r.EditForm)
	router.Get("/products/{id}/delete", r.ConfirmDelete)
	router.Delete("/products/{id}", r.DeleteProduct)

	return router
}

// Dashboard renders the page shell: an empty create form and a table that loads itself.
func (r *Router) Dashboard(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	err := r.renderer.Page(w, http.StatusOK, "dashboard.html", render.Layout{
		Title:         "Dashboard",
		Authenticated: true,
		Data:          DashboardView{Form: NewFormView(CreateDraft{}, r.newToken())},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to execute dashboard template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// GetProducts refetches the whole list. On failure the table on screen is left as it was.
func (r *Router) GetProducts(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	products, err := r.service.List(ctx, middleware.GetSession(ctx).Token)
	if err != nil {
		if r.sessionRejected(w, req, err) {
			return
		}
		logger.Error().Err(err).Msg("Error fetching products")
		render.NoSwap(w)
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	rows := make([]RowView, 0, len(products))
	for _, p := range products {
		rows = append(rows, newRowView(p))
	}

	logger.Debug().Int("count", len(rows)).Msg("Products fetched")
	r.fragment(w, logger, "product_table", rows)
}

// CreateForm returns an empty create form. Cancelling an edit lands here.
func (r *Router) CreateForm(w http.ResponseWriter, req *http.Request) {
	r.fragment(w, hlog.FromRequest(req), "product_form", NewFormView(CreateDraft{}, r.newToken()))
}

// EditForm switches the form to edit mode with the row's fields, which the Edit button sends along.
// The file input comes back empty; the current banner is not previewed.
func (r *Router) EditForm(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	id, ok := parseID(w, req, logger)
	if !ok {
		return
	}

	q := req.URL.Query()
	draft := EditDraft{
		ID: id,
		Fields: Fields{
			Title:       q.Get("title"),
			Description: q.Get("description"),
			Cost:        q.Get("cost"),
		},
	}
	r.fragment(w, logger, "product_form", NewFormView(draft, r.newToken()))
}

// SubmitProduct creates or updates depending on whether the form carries an id.
func (r *Router) SubmitProduct(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse product form")
		r.toast(w, render.ToastError, "Invalid form data")
		return
	}
	defer req.MultipartForm.RemoveAll()

	draft, err := parseDraft(req)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid product form")
		r.toast(w, render.ToastError, "Invalid form data")
		return
	}

	formToken := req.FormValue("form_token")
	if formToken != "" {
		claimed, err := r.guard.Claim(ctx, formToken)
		if err != nil {
			logger.Error().Err(err).Msg("Submit guard unavailable, letting submission through")
		} else if !claimed {
			logger.Info().Str("form_token", formToken).Msg("Duplicate product submission ignored")
			r.toast(w, render.ToastWarning, "This form was already submitted")
			return
		}
	}

	banner, closeBanner, err := bannerUpload(req)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read banner upload")
		r.release(ctx, logger, formToken)
		r.toast(w, render.ToastError, "Could not read the banner image")
		return
	}
	defer closeBanner()

	message, err := r.service.Submit(ctx, middleware.GetSession(ctx).Token, draft, banner)
	if err != nil {
		r.release(ctx, logger, formToken)
		if r.sessionRejected(w, req, err) {
			return
		}
		logger.Error().Err(err).Str("draft", fmt.Sprintf("%T", draft)).Msg("Error saving product")
		r.toast(w, render.ToastError, failureMessage(err, "Failed to save product"))
		return
	}

	if message == "" {
		message = "Product saved"
	}
	logger.Debug().Str("draft", fmt.Sprintf("%T", draft)).Msg("Product saved")

	render.Trigger(w, render.Events{
		render.EventShowToast:     render.Toast{Level: render.ToastSuccess, Message: message},
		render.EventRefreshTable: true,
	})
	r.fragment(w, logger, "product_form", NewFormView(CreateDraft{}, r.newToken()))
}

// ConfirmDelete opens the confirmation dialog. It does not touch the API; only the
// dialog's confirm button issues the DELETE.
func (r *Router) ConfirmDelete(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	id, ok := parseID(w, req, logger)
	if !ok {
		return
	}
	r.fragment(w, logger, "confirm_delete", struct{ ID int }{ID: id})
}

// DeleteProduct runs after confirmation and swaps the success dialog into place.
func (r *Router) DeleteProduct(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, ok := parseID(w, req, logger)
	if !ok {
		return
	}

	if _, err := r.service.Delete(ctx, middleware.GetSession(ctx).Token, id); err != nil {
		if r.sessionRejected(w, req, err) {
			return
		}
		logger.Error().Err(err).Int("id", id).Msg("Error deleting product")
		// Empty body closes the confirmation dialog.
		render.Trigger(w, render.Events{
			render.EventShowToast: render.Toast{Level: render.ToastError, Message: failureMessage(err, "Failed to delete product")},
		})
		w.WriteHeader(http.StatusOK)
		return
	}

	logger.Debug().Int("id", id).Msg("Product deleted")
	render.Trigger(w, render.Events{render.EventRefreshTable: true})
	r.fragment(w, logger, "deleted_dialog", deletedText)
}

// sessionRejected handles a 401 from the API: the token is dead, so it is dropped
// and the browser is sent to log in again.
func (r *Router) sessionRejected(w http.ResponseWriter, req *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	hlog.FromRequest(req).Info().Err(err).Msg("API rejected session token, logging out")
	r.jar.Clear(w)
	render.Redirect(w, req, authPath)
	return true
}

func (r *Router) release(ctx context.Context, logger *zerolog.Logger, formToken string) {
	if formToken == "" {
		return
	}
	if err := r.guard.Release(ctx, formToken); err != nil {
		logger.Warn().Err(err).Msg("Failed to release form token")
	}
}

func (r *Router) toast(w http.ResponseWriter, level, message string) {
	render.ShowToast(w, level, message)
	w.WriteHeader(http.StatusOK)
}

func (r *Router) fragment(w http.ResponseWriter, logger *zerolog.Logger, name string, data any) {
	if err := r.renderer.Fragment(w, http.StatusOK, name, data); err != nil {
		logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, req *http.Request, logger *zerolog.Logger) (int, bool) {
	idStr := chi.URLParam(req, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		logger.Warn().Str("id", idStr).Msg("Invalid product ID")
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseDraft reads the form: a hidden id means edit mode.
func parseDraft(req *http.Request) (Draft, error) {
	fields := Fields{
		Title:       req.FormValue("title"),
		Description: req.FormValue("description"),
		Cost:        req.FormValue("cost"),
	}

	idStr := req.FormValue("id")
	if idStr == "" {
		return CreateDraft{Fields: fields}, nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid product id %q", idStr)
	}
	return EditDraft{ID: id, Fields: fields}, nil
}

// bannerUpload returns the chosen file, or nil when the file input was left empty.
func bannerUpload(req *http.Request) (*apiclient.Upload, func(), error) {
	file, header, err := req.FormFile("banner_image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &apiclient.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, func() { file.Close() }, nil
}

func failureMessage(err error, fallback string) string {
	var rejected *apiclient.RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}
