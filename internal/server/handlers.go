package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"portdash/internal/portfolio"
)

// portfolioSummary is the list/detail view of a portfolio definition:
// composition only, no computed metrics.
type portfolioSummary struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	TargetSharpe float64                `json:"target_sharpe"`
	Instruments  []portfolio.Instrument `json:"instruments"`
}

func summarize(p portfolio.Portfolio) portfolioSummary {
	return portfolioSummary{
		Name:         p.Name,
		Description:  p.Description,
		TargetSharpe: p.TargetSharpe,
		Instruments:  p.Active(),
	}
}

func (s *Server) portfolioName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	all := s.svc.List()
	out := make([]portfolioSummary, 0, len(all))
	for _, p := range all {
		out = append(out, summarize(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := s.svc.Lookup(s.portfolioName(r))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown portfolio")
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(p))
}

// handlePerformance distinguishes an unknown portfolio (404) from a
// known portfolio with no computable data (503): the dashboard shows a
// neutral message for the latter, while small or zero metrics are a
// valid 200.
func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	name := s.portfolioName(r)
	if _, ok := s.svc.Lookup(name); !ok {
		s.writeError(w, http.StatusNotFound, "unknown portfolio")
		return
	}
	res, err := s.svc.Compute(r.Context(), name)
	if err != nil {
		s.log.Error().Err(err).Str("portfolio", name).Msg("compute failed")
		s.writeError(w, http.StatusInternalServerError, "computation failed")
		return
	}
	if res == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no data available")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	name := s.portfolioName(r)
	if _, ok := s.svc.Lookup(name); !ok {
		s.writeError(w, http.StatusNotFound, "unknown portfolio")
		return
	}
	matrix, err := s.svc.Correlations(r.Context(), name)
	if err != nil {
		s.log.Error().Err(err).Str("portfolio", name).Msg("correlations failed")
		s.writeError(w, http.StatusInternalServerError, "computation failed")
		return
	}
	if matrix == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no data available")
		return
	}
	s.writeJSON(w, http.StatusOK, matrix)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := s.portfolioName(r)
	if _, ok := s.svc.Lookup(name); !ok {
		s.writeError(w, http.StatusNotFound, "unknown portfolio")
		return
	}
	res, err := s.svc.Compute(r.Context(), name)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "computation failed")
		return
	}
	if res == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no data available")
		return
	}
	img, err := s.renderer.Render(res)
	if err != nil {
		s.log.Error().Err(err).Str("portfolio", name).Msg("chart render failed")
		s.writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) handleCommentary(w http.ResponseWriter, r *http.Request) {
	name := s.portfolioName(r)
	p, ok := s.svc.Lookup(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown portfolio")
		return
	}
	if s.commentator == nil {
		s.writeError(w, http.StatusServiceUnavailable, "commentary not configured")
		return
	}
	res, err := s.svc.Compute(r.Context(), name)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "computation failed")
		return
	}
	if res == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no data available")
		return
	}
	text, err := s.commentator.Comment(r.Context(), p, res)
	if err != nil {
		s.log.Error().Err(err).Str("portfolio", name).Msg("commentary failed")
		s.writeError(w, http.StatusBadGateway, "commentary failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"portfolio": name, "commentary": text})
}
