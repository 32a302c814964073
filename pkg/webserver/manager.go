package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"f1seasonbot/pkg/model"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAddress        = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Engine is the season query surface served over HTTP.
type Engine interface {
	ListRaces(ctx context.Context, year *int) ([]model.Race, error)
	NextRace(ctx context.Context, year *int) (model.Race, error)
	RaceDetails(ctx context.Context, year *int, round int) (model.RaceDetails, error)
	AllRaceDetails(ctx context.Context, year *int) ([]model.RaceDetails, error)
	Schedule(ctx context.Context, year *int, round int) (model.RaceSchedule, error)
	DriverStandings(ctx context.Context, year, round *int) ([]model.DriverStanding, error)
	TeamStandings(ctx context.Context, year, round *int) ([]model.TeamStanding, error)
	ResultsByRound(ctx context.Context, year *int, round int) ([]model.RaceResult, error)
	LastResults(ctx context.Context, year *int) ([]model.RaceResult, error)
}

type Manager struct {
	r       *mux.Router
	engine  Engine
	addr    string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewManager builds the API. requestTimeout caps the engine work behind each
// request; 0 means DefaultRequestTimeout.
func NewManager(engine Engine, addr string, requestTimeout time.Duration, logger *logrus.Logger) *Manager {
	if addr == "" {
		addr = DefaultAddress
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	m := &Manager{
		r:       mux.NewRouter(),
		engine:  engine,
		addr:    addr,
		timeout: requestTimeout,
		logger:  logger,
	}

	m.r.Use(m.withTimeout)
	m.rootHandlers()
	m.v1Handlers(m.r.PathPrefix("/api/v1").Subrouter())
	m.v2Handlers(m.r.PathPrefix("/api/v2").Subrouter())
	return m
}

func (m *Manager) Handler() http.Handler {
	return m.r
}

func (m *Manager) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), m.timeout)
		defer cancel()
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (m *Manager) rootHandlers() {
	m.r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		m.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}

func (m *Manager) v1Handlers(r *mux.Router) {
	r.HandleFunc("/races", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		races, err := m.engine.ListRaces(req.Context(), q.year)
		m.respond(w, races, err, "no races found")
	}).Methods(http.MethodGet)

	r.HandleFunc("/races/next", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		race, err := m.engine.NextRace(req.Context(), q.year)
		m.respond(w, race, err, "no upcoming race found")
	}).Methods(http.MethodGet)

	r.HandleFunc("/races/last/results", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		results, err := m.engine.LastResults(req.Context(), q.year)
		if err == nil && len(results) == 0 {
			err = model.ErrNotFound
		}
		m.respond(w, results, err, "no race results found for the latest race")
	}).Methods(http.MethodGet)

	r.HandleFunc("/standings/drivers", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		standings, err := m.engine.DriverStandings(req.Context(), q.year, q.round)
		m.respond(w, standings, err, "no driver standings found")
	}).Methods(http.MethodGet)

	r.HandleFunc("/standings/teams", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		standings, err := m.engine.TeamStandings(req.Context(), q.year, q.round)
		m.respond(w, standings, err, "no team standings found")
	}).Methods(http.MethodGet)
}

func (m *Manager) v2Handlers(r *mux.Router) {
	r.HandleFunc("/races", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		races, err := m.engine.AllRaceDetails(req.Context(), q.year)
		m.respond(w, races, err, "no races found")
	}).Methods(http.MethodGet)

	r.HandleFunc("/races/next", func(w http.ResponseWriter, req *http.Request) {
		q, ok := m.query(w, req)
		if !ok {
			return
		}
		next, err := m.engine.NextRace(req.Context(), q.year)
		if err != nil {
			m.respond(w, nil, err, "no upcoming race found")
			return
		}
		details, err := m.engine.RaceDetails(req.Context(), q.year, next.RoundNumber)
		m.respond(w, details, err, "no upcoming race found")
	}).Methods(http.MethodGet)

	r.HandleFunc("/races/{round:-?[0-9]+}", func(w http.ResponseWriter, req *http.Request) {
		q, round, ok := m.roundQuery(w, req)
		if !ok {
			return
		}
		details, err := m.engine.RaceDetails(req.Context(), q.year, round)
		m.respond(w, details, err, fmt.Sprintf("race not found for round %d", round))
	}).Methods(http.MethodGet)

	r.HandleFunc("/races/{round:-?[0-9]+}/sessions", func(w http.ResponseWriter, req *http.Request) {
		q, round, ok := m.roundQuery(w, req)
		if !ok {
			return
		}
		schedule, err := m.engine.Schedule(req.Context(), q.year, round)
		m.respond(w, schedule, err, fmt.Sprintf("race schedule not found for round %d", round))
	}).Methods(http.MethodGet)

	r.HandleFunc("/races/{round:-?[0-9]+}/results", func(w http.ResponseWriter, req *http.Request) {
		q, round, ok := m.roundQuery(w, req)
		if !ok {
			return
		}
		results, err := m.engine.ResultsByRound(req.Context(), q.year, round)
		if err == nil && len(results) == 0 {
			err = model.ErrNotFound
		}
		m.respond(w, results, err, fmt.Sprintf("no race results found for round %d", round))
	}).Methods(http.MethodGet)
}

type selector struct {
	year  *int
	round *int
}

// query reads the optional year and round parameters, answering 400 when
// either is not a number.
func (m *Manager) query(w http.ResponseWriter, req *http.Request) (selector, bool) {
	var sel selector
	for name, dst := range map[string]**int{"year": &sel.year, "round": &sel.round} {
		raw := req.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			m.writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
			return selector{}, false
		}
		*dst = &v
	}
	return sel, true
}

func (m *Manager) roundQuery(w http.ResponseWriter, req *http.Request) (selector, int, bool) {
	sel, ok := m.query(w, req)
	if !ok {
		return selector{}, 0, false
	}
	round, err := strconv.Atoi(mux.Vars(req)["round"])
	if err != nil || round < 1 {
		m.writeError(w, http.StatusBadRequest, "round number must be greater than 0")
		return selector{}, 0, false
	}
	return sel, round, true
}

func (m *Manager) respond(w http.ResponseWriter, body any, err error, notFound string) {
	switch {
	case err == nil:
		m.writeJSON(w, http.StatusOK, body)
	case errors.Is(err, model.ErrInvalidInput):
		m.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotFound):
		m.writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		m.writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		m.logger.WithError(err).Error("error serving request")
		m.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (m *Manager) writeError(w http.ResponseWriter, status int, message string) {
	m.writeJSON(w, status, map[string]string{"message": message})
}

func (m *Manager) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		m.logger.WithError(err).Warn("error writing response")
	}
}

func (m *Manager) Debug() {
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		entry := m.logger.WithField("component", "webserver")
		if pathTemplate, err := route.GetPathTemplate(); err == nil {
			entry = entry.WithField("route", pathTemplate)
		}
		if methods, err := route.GetMethods(); err == nil {
			entry = entry.WithField("methods", strings.Join(methods, ","))
		}
		entry.Debug("route registered")
		return nil
	})
}

// Serve listens until ctx is done, then shuts down gracefully.
func (m *Manager) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         m.addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	errs := make(chan error, 1)
	go func() {
		m.logger.WithField("address", m.addr).Info("webserver listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	m.logger.Info("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}
