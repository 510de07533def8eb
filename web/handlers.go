package web

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/engine"
)

// HealthResponse is the JSON response structure for the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
}

// RuleInfo describes one validation rule in the catalog.
type RuleInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Severity    engine.Severity `json:"severity"`
	Field       string          `json:"field"`
}

// RulesResponse is the JSON response structure for the rules endpoint.
type RulesResponse struct {
	Rules []RuleInfo `json:"rules"`
}

// ErrorResponse carries an API error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles GET requests to /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version := s.Version
	if version == "" {
		version = "dev"
	}
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version,
		Service:   "invoice-validation",
	})
}

// handleGetRules handles GET requests to /api/rules.
// Returns the rule catalog in evaluation order.
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	rules := engine.Rules()
	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, RuleInfo{
			Name:        rule.Name,
			Description: rule.Description,
			Severity:    rule.Severity,
			Field:       rule.Field,
		})
	}
	render.JSON(w, r, RulesResponse{Rules: infos})
}

// handleValidate handles POST requests to /api/validate.
// The request body is a batch of invoice records; the response is the
// full validation report. The report is stored as the server's latest.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	records, err := s.ldr.LoadReader(r.Context(), r.Body)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := s.eng.Validate(r.Context(), records)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	render.JSON(w, r, report)
}

// handleGetReport handles GET requests to /api/report.
// Returns the latest validation report, whether produced by a watched
// batch file or a previous POST to /api/validate.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report := s.latestReport()
	if report == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "no validation report available"})
		return
	}
	render.JSON(w, r, report)
}
