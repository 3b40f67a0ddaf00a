package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/siri-stop-finder/siri"
)

type queryError struct{ msg string }

func (e *queryError) Error() string { return e.msg }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch answers /api/search.json?line=&dest=&stop=. All three
// parameters are optional; with none given the first catalog entry
// comes back as the single candidate.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lineQuery := strings.TrimSpace(q.Get("line"))
	destQuery := strings.TrimSpace(q.Get("dest"))
	stopQuery := strings.TrimSpace(q.Get("stop"))

	s.mu.Lock()
	results, err := s.engine.SearchStop(lineQuery, destQuery, stopQuery)
	s.mu.Unlock()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleLines answers /api/lines.json with the full catalog.
func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	lines, err := s.engine.Lines()
	s.mu.Unlock()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// handleStops answers /api/stops.json?line=&direction= with the
// confirmed stops of one line and direction.
func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lineRef := strings.TrimSpace(q.Get("line"))
	if lineRef == "" {
		writeError(w, http.StatusBadRequest, "You must provide a line.")
		return
	}
	directionRef, err := parseDirectionRef(q.Get("direction"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	stops, err := s.engine.Stops(lineRef, directionRef)
	s.mu.Unlock()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stops)
}

// departureView is a visit plus the whole minutes until it happens,
// computed at response time.
type departureView struct {
	siri.Visit
	Mins int `json:"mins"`
}

// handleDepartures answers /api/departures.json?stop=&line=&direction=.
// Only stop is required.
func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stopPointRef := strings.TrimSpace(q.Get("stop"))
	if stopPointRef == "" {
		writeError(w, http.StatusBadRequest, "You must provide a stop.")
		return
	}
	lineRef := strings.TrimSpace(q.Get("line"))
	directionRef, err := parseDirectionRef(q.Get("direction"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	visits, err := s.engine.Departures(stopPointRef, lineRef, directionRef)
	s.mu.Unlock()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	now := time.Now()
	views := make([]departureView, len(visits))
	for i, v := range visits {
		stamp := v.Expected
		if stamp == "" {
			stamp = v.Aimed
		}
		views[i] = departureView{Visit: v, Mins: siri.MinutesUntil(now, stamp)}
	}
	writeJSON(w, http.StatusOK, views)
}

// parseDirectionRef reads an optional direction parameter; empty means
// -1, any direction.
func parseDirectionRef(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return -1, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1, &queryError{msg: "direction must be an integer"}
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var body struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	body.Error.Description = msg
	writeJSON(w, status, body)
}

// writeEngineError maps engine failures onto statuses: upstream data
// source failures become 502, anything else 500.
func writeEngineError(w http.ResponseWriter, err error) {
	var dsErr *siri.DataSourceError
	if errors.As(err, &dsErr) {
		log.Error().Err(err).Str("op", dsErr.Op).Msg("upstream failure")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, err.Error())
}
