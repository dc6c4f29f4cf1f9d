package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nullsim/app"
	"nullsim/domain/core"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleRunTest(w http.ResponseWriter, r *http.Request) {
	var req app.TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	record, err := a.service.Run(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, record)
}

func (a *App) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []app.TestRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(reqs) == 0 {
		a.writeError(w, http.StatusBadRequest, "batch must contain at least one test")
		return
	}

	records, err := a.service.RunBatch(r.Context(), reqs)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, records)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := a.service.List(r.Context(), limit)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, records)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	record, err := a.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, record)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	html, err := a.service.ReportHTML(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func (a *App) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case core.IsInvalidInputError(err):
		a.writeError(w, http.StatusBadRequest, err.Error())
	case core.IsNotFoundError(err):
		a.writeError(w, http.StatusNotFound, err.Error())
	default:
		a.logger.Error("request failed: %v", err)
		a.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}
