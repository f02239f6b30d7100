package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
)

type (
	pinger interface {
		Ping(ctx context.Context) error
	}

	// HealthSrvc checks that the upstream product API answers
	HealthSrvc struct {
		api     pinger
		timeout time.Duration
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		API       bool      `json:"api"`
	}
)

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)

		response := srvc.check(ctx)

		w.Header().Set("Content-Type", "application/json")

		if response.API {
			logger.Debug().Msg("API healthcheck ok")
			w.WriteHeader(http.StatusOK)
		} else {
			logger.Error().Msg("API healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health check response")
		}
	}
}

func NewHealthSrvc(client *apiclient.Client) *HealthSrvc {
	return &HealthSrvc{api: client, timeout: 3 * time.Second}
}

func (s *HealthSrvc) check(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	apiOk := s.api.Ping(ctx) == nil
	status := "serving"
	if !apiOk {
		status = "not serving"
	}

	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		API:       apiOk,
	}
}
