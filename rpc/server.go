// Package rpc exposes the airdrop host over an HTTP JSON API.
package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"nftdrop/core/host"
	"nftdrop/crypto"
	"nftdrop/native/airdrop"
	"nftdrop/native/bank"
)

const maxBodyBytes = 1 << 16

// Server routes HTTP requests to a host.
type Server struct {
	host    *host.Host
	logger  *slog.Logger
	limiter *RateLimiter
}

// NewServer builds the API over h. A nil limiter disables rate limiting.
func NewServer(h *host.Host, limiter *RateLimiter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{host: h, logger: logger, limiter: limiter}
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/instantiate", s.handleInstantiate)
		v1.With(s.limiter.Middleware("/v1/execute")).Post("/execute", s.handleExecute)
		v1.With(s.limiter.Middleware("/v1/distribute")).Post("/distribute", s.handleDistribute)
		v1.Post("/query", s.handleQuery)
		v1.Get("/global", s.handleGlobal)
		v1.Get("/assets/{tokenID}", s.handleAsset)
		v1.Get("/holders/{address}", s.handleHolder)
	})
	return otelhttp.NewHandler(r, "airdropd")
}

type executeRequest struct {
	Caller string          `json:"caller"`
	Msg    host.ExecuteMsg `json:"msg"`
}

type distributeRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleInstantiate(w http.ResponseWriter, r *http.Request) {
	view, err := s.host.Instantiate(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	caller, err := crypto.ParseHolder(strings.TrimSpace(req.Caller))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller: "+err.Error())
		return
	}
	settlement, err := s.host.Execute(r.Context(), caller, req.Msg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	caller, err := crypto.ParseHolder(strings.TrimSpace(req.Caller))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid caller: "+err.Error())
		return
	}
	settlement, err := s.host.Distribute(r.Context(), caller)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var msg host.QueryMsg
	if err := decodeBody(r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	raw, err := s.host.Query(r.Context(), msg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	view, err := s.host.QueryGlobal(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	view, err := s.host.QueryAsset(r.Context(), chi.URLParam(r, "tokenID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleHolder(w http.ResponseWriter, r *http.Request) {
	holder, err := crypto.ParseHolder(strings.TrimSpace(chi.URLParam(r, "address")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address: "+err.Error())
		return
	}
	view, err := s.host.QueryHolder(r.Context(), holder)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

// statusFor maps engine and host errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, host.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, airdrop.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, airdrop.ErrNoAssetsOwned):
		return http.StatusNotFound
	case errors.Is(err, airdrop.ErrNoPendingReward), errors.Is(err, airdrop.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, airdrop.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, bank.ErrInsufficientBalance):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("requestId", RequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	writeError(w, status, err.Error())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
