package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/dldx/renewables-lcoe-api/internal/finance"
	"github.com/dldx/renewables-lcoe-api/internal/geo"
	"github.com/dldx/renewables-lcoe-api/internal/store"
)

// geocoder is the slice of geo.Geocoder the handlers need. It stays an
// interface so tests can stub the upstream provider.
type geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Location, error)
}

type server struct {
	runs     *store.RunStore
	geocoder geocoder // nil when no provider key is configured
	log      zerolog.Logger
}

// router assembles the full middleware chain and route table. apiKey may be
// empty, in which case authentication is disabled.
func (s *server) router(apiKey string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	r.Use(apiKeyMiddleware(apiKey))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/lcoe", s.handleCompute)
		r.Get("/lcoe", s.handleComputeQuery)
		r.Get("/runs", s.handleRunsList)
		r.Get("/runs/{id}", s.handleRunGet)
		r.Get("/geocode", s.handleGeocode)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// computeResponse is a persisted computation: the engine result plus the id
// it was stored under.
type computeResponse struct {
	ID string `json:"id"`
	finance.Result
}

func (s *server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var assumptions finance.Assumptions
	if err := json.NewDecoder(r.Body).Decode(&assumptions); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return
	}

	result, err := finance.ComputeLCOE(assumptions)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	id, err := s.runs.Save(result)
	if err != nil {
		s.log.Error().Err(err).Msg("persist lcoe run")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to persist result"})
		return
	}

	s.log.Info().
		Str("run_id", id).
		Float64("lcoe", result.LCOE).
		Float64("equity_irr", result.EquityIRR).
		Msg("lcoe computed")

	writeJSON(w, http.StatusOK, computeResponse{ID: id, Result: result})
}

// handleComputeQuery is the query-parameter form of the compute endpoint.
// Unlike the POST form it is a pure lookup: nothing is persisted.
func (s *server) handleComputeQuery(w http.ResponseWriter, r *http.Request) {
	assumptions, err := assumptionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	result, err := finance.ComputeLCOE(assumptions)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	s.log.Info().
		Float64("lcoe", result.LCOE).
		Float64("equity_irr", result.EquityIRR).
		Msg("lcoe computed")

	writeJSON(w, http.StatusOK, result)
}

// writeComputeError maps engine errors onto HTTP status codes: bad inputs are
// the client's fault, solver failures are ours.
func (s *server) writeComputeError(w http.ResponseWriter, err error) {
	var verr *finance.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Error(),
			"field": verr.Field,
		})
		return
	}

	var nerr *finance.NonConvergenceError
	if errors.As(err, &nerr) {
		s.log.Error().Err(nerr).Str("solver", nerr.Solver).Int("iterations", nerr.Iterations).Msg("solver did not converge")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": nerr.Error()})
		return
	}

	s.log.Error().Err(err).Msg("lcoe computation failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// assumptionsFromQuery parses the GET form of the compute endpoint. Failures
// come back as *finance.ValidationError so both endpoints report bad inputs
// the same way.
func assumptionsFromQuery(q url.Values) (finance.Assumptions, error) {
	var a finance.Assumptions

	required := []struct {
		name string
		dst  *float64
	}{
		{"capacity_mw", &a.CapacityMW},
		{"capacity_factor", &a.CapacityFactor},
		{"capital_expenditure_per_mw", &a.CapexPerMW},
		{"o_m_cost_pct_of_capital_cost", &a.OMCostPctOfCapex},
		{"cost_of_debt", &a.CostOfDebt},
		{"cost_of_equity", &a.CostOfEquity},
		{"tax_rate", &a.TaxRate},
		{"dcsr", &a.TargetDSCR},
	}
	for _, p := range required {
		raw := q.Get(p.name)
		if raw == "" {
			return finance.Assumptions{}, &finance.ValidationError{Field: p.name, Reason: "required query parameter is missing"}
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return finance.Assumptions{}, &finance.ValidationError{Field: p.name, Reason: "must be a number"}
		}
		*p.dst = v
	}

	rawYears := q.Get("project_lifetime_years")
	if rawYears == "" {
		return finance.Assumptions{}, &finance.ValidationError{Field: "project_lifetime_years", Reason: "required query parameter is missing"}
	}
	years, err := strconv.Atoi(rawYears)
	if err != nil {
		return finance.Assumptions{}, &finance.ValidationError{Field: "project_lifetime_years", Reason: "must be an integer"}
	}
	a.ProjectLifetimeYears = years

	optional := []struct {
		name string
		dst  **float64
	}{
		{"debt_pct_of_capital_cost", &a.DebtPct},
		{"equity_pct_of_capital_cost", &a.EquityPct},
	}
	for _, p := range optional {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return finance.Assumptions{}, &finance.ValidationError{Field: p.name, Reason: "must be a number"}
		}
		*p.dst = &v
	}

	return a, nil
}

func (s *server) handleRunsList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.runs.List(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list lcoe runs")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *server) handleRunGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.runs.Get(id)
	if errors.Is(err, store.ErrRunNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("run_id", id).Msg("load lcoe run")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// geocodeResponse bundles the resolved location with a rough capacity factor
// for callers seeding assumptions from a daily yield figure they already have.
type geocodeResponse struct {
	geo.Location
	CapacityFactor *float64 `json:"capacity_factor,omitempty"`
}

func (s *server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if s.geocoder == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "geocoding is not configured"})
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "address query parameter is required"})
		return
	}

	loc, err := s.geocoder.Geocode(r.Context(), address)
	if errors.Is(err, geo.ErrNoResults) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no results for address"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("address", address).Msg("geocode address")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "geocoding provider error"})
		return
	}

	resp := geocodeResponse{Location: loc}
	if raw := r.URL.Query().Get("daily_yield_kwh_per_kwp"); raw != "" {
		yield, err := strconv.ParseFloat(raw, 64)
		if err != nil || yield < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "daily_yield_kwh_per_kwp must be a non-negative number"})
			return
		}
		cf := geo.CapacityFactorFromDailyYield(yield)
		resp.CapacityFactor = &cf
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger emits one structured log line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
