package server

import (
	"net/http"

	"github.com/swimtrack/swimtrack/internal/views"
)

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r)
	list, err := rs.Client().ListSuggestions(r.Context())
	if err != nil {
		s.apiFailure(w, "listing suggestions", err)
		return
	}
	visible := views.VisibleSuggestions(list, rs.User())
	if !rs.IsAdmin() {
		writeJSON(w, http.StatusOK, views.WithAuthors(visible, nil))
		return
	}

	users, err := rs.Client().ListUsers(r.Context(), "")
	if err != nil {
		s.log.Warn("suggestion authors unavailable", "error", err)
	}
	writeJSON(w, http.StatusOK, views.WithAuthors(visible, users))
}

func (s *Server) handleGetSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rs := sessionFrom(r)
	sg, err := rs.Client().GetSuggestion(r.Context(), id)
	if err != nil {
		s.apiFailure(w, "getting suggestion", err)
		return
	}
	u := rs.User()
	if !rs.IsAdmin() && sg.IDUserCreator != u.ID {
		writeError(w, http.StatusNotFound, "suggestion not found")
		return
	}
	writeJSON(w, http.StatusOK, sg)
}

func (s *Server) handleCreateSuggestion(w http.ResponseWriter, r *http.Request) {
	var form views.SuggestionForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := form.Validate(s.now())
	if err != nil {
		s.apiFailure(w, "creating suggestion", err)
		return
	}
	sg, err := sessionFrom(r).Client().CreateSuggestion(r.Context(), in)
	if err != nil {
		s.apiFailure(w, "creating suggestion", err)
		return
	}
	writeJSON(w, http.StatusCreated, sg)
}

func (s *Server) handleUpdateSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var form views.SuggestionForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := form.Validate(s.now())
	if err != nil {
		s.apiFailure(w, "updating suggestion", err)
		return
	}
	sg, err := sessionFrom(r).Client().UpdateSuggestion(r.Context(), id, in)
	if err != nil {
		s.apiFailure(w, "updating suggestion", err)
		return
	}
	writeJSON(w, http.StatusOK, sg)
}

func (s *Server) handleDeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sessionFrom(r).Client().DeleteSuggestion(r.Context(), id); err != nil {
		s.apiFailure(w, "deleting suggestion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := sessionFrom(r).Client().Profile(r.Context())
	if err != nil {
		s.apiFailure(w, "getting profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var form views.ProfileForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := form.Validate()
	if err != nil {
		s.apiFailure(w, "updating profile", err)
		return
	}
	u, err := sessionFrom(r).Client().UpdateProfile(r.Context(), p)
	if err != nil {
		s.apiFailure(w, "updating profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := sessionFrom(r).Client().ListUsers(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.apiFailure(w, "listing users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
