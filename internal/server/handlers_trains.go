package server

import (
	"context"
	"net/http"

	"github.com/swimtrack/swimtrack/internal/mcp"
	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/series"
	"github.com/swimtrack/swimtrack/internal/views"
)

// source returns what training reads go through: the caller's API client,
// mirrored into the local cache when one is configured.
func (s *Server) source(rs *requestSession) mcp.DataSource {
	if s.cache == nil {
		return rs.Client()
	}
	owner := 0
	if u := rs.User(); u != nil {
		owner = u.ID
	}
	return mcp.NewCachedSource(rs.Client(), s.cache, owner, s.log)
}

// MCPContext binds MCP tool calls arriving over HTTP to the caller's session.
func (s *Server) MCPContext(ctx context.Context, r *http.Request) context.Context {
	rs := sessionFrom(r)
	if rs == nil {
		return ctx
	}
	// The cache scopes offline listings by user, so the identity is needed.
	if s.cache != nil {
		if err := rs.load(ctx); err != nil {
			s.log.Debug("mcp session identity unavailable", "error", err)
		}
	}
	return mcp.WithSource(ctx, s.source(rs))
}

func (s *Server) render(list []models.Train) []views.TrainView {
	out := views.NewTrainViews(list)
	s.metrics.observeViews(out)
	return out
}

func (s *Server) handleListTrains(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r)
	trains, err := s.source(rs).SearchTrains(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		s.apiFailure(w, "listing trainings", err)
		return
	}
	writeJSON(w, http.StatusOK, s.render(trains))
}

func (s *Server) handleCommunity(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r)
	trains, err := s.source(rs).Community(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		s.apiFailure(w, "listing community", err)
		return
	}
	writeJSON(w, http.StatusOK, s.render(trains))
}

func (s *Server) handleGetTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rs := sessionFrom(r)
	t, err := s.source(rs).GetTrain(r.Context(), id)
	if err != nil {
		s.apiFailure(w, "getting training", err)
		return
	}

	v := views.NewTrainView(*t)
	s.metrics.observeRender(v)
	if rating, err := s.rating(r.Context(), rs, id); err != nil {
		s.log.Warn("rating unavailable", "train", id, "error", err)
	} else {
		v.Rating = &rating
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateTrain(w http.ResponseWriter, r *http.Request) {
	var form views.TrainForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := form.Validate(s.now())
	if err != nil {
		s.apiFailure(w, "creating training", err)
		return
	}
	t, err := sessionFrom(r).Client().CreateTrain(r.Context(), in)
	if err != nil {
		s.apiFailure(w, "creating training", err)
		return
	}
	s.remember(r.Context(), t)
	writeJSON(w, http.StatusCreated, views.NewTrainView(*t))
}

func (s *Server) handleUpdateTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var form views.TrainForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := form.Validate(s.now())
	if err != nil {
		s.apiFailure(w, "updating training", err)
		return
	}
	t, err := sessionFrom(r).Client().UpdateTrain(r.Context(), id, in)
	if err != nil {
		s.apiFailure(w, "updating training", err)
		return
	}
	s.remember(r.Context(), t)
	writeJSON(w, http.StatusOK, views.NewTrainView(*t))
}

func (s *Server) handleDeleteTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sessionFrom(r).Client().DeleteTrain(r.Context(), id); err != nil {
		s.apiFailure(w, "deleting training", err)
		return
	}
	if s.cache != nil {
		if err := s.cache.DeleteTrain(r.Context(), id); err != nil {
			s.log.Warn("evicting cached training", "train", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rs := sessionFrom(r)
	if err := rs.load(r.Context()); err != nil {
		s.apiFailure(w, "loading session", err)
		return
	}
	v, err := s.rating(r.Context(), rs, id)
	if err != nil {
		s.apiFailure(w, "getting rating", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Value int `json:"value"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rs := sessionFrom(r)
	if err := rs.Client().Rate(r.Context(), id, body.Value); err != nil {
		s.apiFailure(w, "rating training", err)
		return
	}
	v, err := s.rating(r.Context(), rs, id)
	if err != nil {
		s.apiFailure(w, "getting rating", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// rating builds the star widget. The caller's own vote is only fetched for
// logged-in sessions.
func (s *Server) rating(ctx context.Context, rs *requestSession, id int) (views.RatingView, error) {
	g, err := rs.Client().GlobalRate(ctx, id)
	if err != nil {
		return views.RatingView{}, err
	}
	mine := 0
	if rs.IsAuthenticated() {
		if mine, err = rs.Client().MyRate(ctx, id); err != nil {
			return views.RatingView{}, err
		}
	}
	return views.NewRatingView(*g, mine), nil
}

func (s *Server) handleSeriesPreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string          `json:"description"`
		Series      []series.Series `json:"series"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	desc := body.Description
	if body.Series != nil {
		var err error
		if desc, err = series.Marshal(body.Series); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, struct {
		views.SeriesPreview
		Description string `json:"description"`
	}{views.NewSeriesPreview(desc), desc})
}

// remember mirrors a training the API just returned into the cache.
func (s *Server) remember(ctx context.Context, t *models.Train) {
	if s.cache == nil || t == nil {
		return
	}
	if _, err := s.cache.UpsertTrains(ctx, []models.Train{*t}, false); err != nil {
		s.log.Warn("caching training", "train", t.ID, "error", err)
	}
}
