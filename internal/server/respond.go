package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/swimtrack/swimtrack/internal/drafts"
	"github.com/swimtrack/swimtrack/internal/remote"
	"github.com/swimtrack/swimtrack/internal/series"
	"github.com/swimtrack/swimtrack/internal/session"
	"github.com/swimtrack/swimtrack/internal/views"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeFields(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "invalid form",
		"fields": fields,
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// apiFailure answers err with the matching status and records API errors.
func (s *Server) apiFailure(w http.ResponseWriter, op string, err error) {
	var (
		fields views.FieldErrors
		apiErr *remote.APIError
	)
	switch {
	case errors.As(err, &fields):
		writeFields(w, fields)
	case errors.As(err, &apiErr):
		s.metrics.APIErrors.WithLabelValues(strconv.Itoa(apiErr.Status)).Inc()
		s.log.Warn(op, "status", apiErr.Status, "error", err)
		switch {
		case len(apiErr.Fields) > 0:
			writeFields(w, apiErr.Fields)
		case apiErr.Status >= 500:
			writeError(w, http.StatusBadGateway, apiErr.Message)
		default:
			writeError(w, apiErr.Status, apiErr.Message)
		}
	case errors.Is(err, session.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, drafts.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, drafts.ErrSaving):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, drafts.ErrEmptyDraft):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, drafts.ErrUnknownOp),
		errors.Is(err, drafts.ErrIncomplete),
		errors.Is(err, remote.ErrRatingRange),
		errors.Is(err, series.ErrSeriesIndex),
		errors.Is(err, series.ErrExerciseIndex),
		errors.Is(err, series.ErrInvalidCount),
		errors.Is(err, series.ErrInvalidReps),
		errors.Is(err, series.ErrInvalidDist):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		s.log.Debug(op, "error", err)
	default:
		s.metrics.APIErrors.WithLabelValues("0").Inc()
		s.log.Error(op, "error", err)
		writeError(w, http.StatusBadGateway, "remote data service unavailable")
	}
}
