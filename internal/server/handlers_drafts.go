package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/swimtrack/swimtrack/internal/drafts"
	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/views"
)

func draftID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// owner is the logged-in user's id. Routes using it run behind RequireUser.
func owner(r *http.Request) int {
	if u := sessionFrom(r).User(); u != nil {
		return u.ID
	}
	return 0
}

func (s *Server) handleOpenDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TrainID int `json:"train_id"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var train *models.Train
	if body.TrainID > 0 {
		t, err := s.source(sessionFrom(r)).GetTrain(r.Context(), body.TrainID)
		if err != nil {
			s.apiFailure(w, "opening draft", err)
			return
		}
		train = t
	}

	d := s.drafts.Open(owner(r), train)
	snap, err := d.Snapshot()
	if err != nil {
		s.apiFailure(w, "opening draft", err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	d, err := s.drafts.Get(id, owner(r))
	if err != nil {
		s.apiFailure(w, "getting draft", err)
		return
	}
	snap, err := d.Snapshot()
	if err != nil {
		s.apiFailure(w, "getting draft", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDraftOp(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var op drafts.Op
	if err := decodeJSON(r, &op); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.drafts.Apply(id, owner(r), op)
	if err != nil {
		s.apiFailure(w, "applying draft op", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	t, err := s.drafts.Save(r.Context(), id, owner(r), sessionFrom(r).Client())
	if err != nil {
		s.metrics.DraftSaves.WithLabelValues("error").Inc()
		s.apiFailure(w, "saving draft", err)
		return
	}
	s.metrics.DraftSaves.WithLabelValues("ok").Inc()
	s.remember(r.Context(), t)
	writeJSON(w, http.StatusOK, views.NewTrainView(*t))
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	if err := s.drafts.Discard(id, owner(r)); err != nil {
		s.apiFailure(w, "discarding draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
