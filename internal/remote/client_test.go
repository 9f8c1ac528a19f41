package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/swimtrack/swimtrack/internal/models"
)

// newTestServer routes requests to handlers keyed by "METHOD path" so tests
// can assert both the verb and the path the client used.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestSearchTrains verifies the title filter is sent as a query parameter.
func TestSearchTrains(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /trains": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("title"); got != "fondo" {
				t.Errorf("title=%q, want fondo", got)
			}
			writeTestJSON(t, w, []models.Train{{ID: 1, Title: "Fondo", Active: true}})
		},
	})

	c := New(ts.URL+"/", nil, time.Second)
	trains, err := c.SearchTrains(context.Background(), "fondo")
	if err != nil {
		t.Fatal(err)
	}
	if len(trains) != 1 || trains[0].Title != "Fondo" {
		t.Errorf("trains = %+v", trains)
	}
}

// TestCommunityNoFilter verifies no query string is sent without a title.
func TestCommunityNoFilter(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /comunidad": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("query=%q, want empty", r.URL.RawQuery)
			}
			writeTestJSON(t, w, []models.Train{})
		},
	})

	trains, err := New(ts.URL, nil, 0).Community(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trains) != 0 {
		t.Errorf("got %d trains, want 0", len(trains))
	}
}

// TestUpdateTrainBody verifies the PUT payload carries the description verbatim.
func TestUpdateTrainBody(t *testing.T) {
	const desc = `[{"count":4,"exercises":[{"repetitions":2,"distance":100,"unit":"m","style":"libre","notes":""}]}]`
	published := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ts := newTestServer(t, map[string]http.HandlerFunc{
		"PUT /trains/7": func(w http.ResponseWriter, r *http.Request) {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type=%q", ct)
			}
			var in models.TrainInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Fatal(err)
			}
			if in.Description != desc {
				t.Errorf("description=%q", in.Description)
			}
			writeTestJSON(t, w, models.Train{ID: 7, Title: in.Title, Description: in.Description, Published: in.Published})
		},
	})

	got, err := New(ts.URL, nil, 0).UpdateTrain(context.Background(), 7, models.TrainInput{
		Title: "Series", Description: desc, Active: true, Published: published, Expired: published.AddDate(0, 3, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := &models.Train{ID: 7, Title: "Series", Description: desc, Published: published}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("train mismatch (-want +got):\n%s", diff)
	}
}

// TestDeleteTrainNoContent verifies an empty 204 body is not decoded.
func TestDeleteTrainNoContent(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"DELETE /trains/3": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	if err := New(ts.URL, nil, 0).DeleteTrain(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
}

// TestAPIErrorMessage verifies error bodies are surfaced as APIError.
func TestAPIErrorMessage(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /trains/9": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Entreno no encontrado"}`)
		},
	})

	_, err := New(ts.URL, nil, 0).GetTrain(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "Entreno no encontrado" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false, want true")
	}
}

// TestAPIErrorFields verifies validation arrays become a field map.
func TestAPIErrorFields(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /auth/register": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `[{"path":"email","msg":"Email no válido"},{"path":"password","msg":"Mínimo 6 caracteres"}]`)
		},
	})

	err := New(ts.URL, nil, 0).Register(context.Background(), models.Registration{Email: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	want := map[string]string{"email": "Email no válido", "password": "Mínimo 6 caracteres"}
	if diff := cmp.Diff(want, apiErr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

// TestCurrentUserAnonymous verifies null and 401 both mean no identity.
func TestCurrentUserAnonymous(t *testing.T) {
	for _, tc := range []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"null", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "null") }},
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, map[string]http.HandlerFunc{"GET /auth/user": tc.handler})
			id, err := New(ts.URL, nil, 0).CurrentUser(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if id != nil {
				t.Errorf("identity = %+v, want nil", id)
			}
		})
	}
}

// TestMyRateNotRated verifies a 404 on the caller's rating reads as zero.
func TestMyRateNotRated(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /rates/4/me": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
	})
	v, err := New(ts.URL, nil, 0).MyRate(context.Background(), 4)
	if err != nil || v != 0 {
		t.Errorf("MyRate = %d, %v; want 0, nil", v, err)
	}
}

// TestRateRange verifies out-of-range ratings are rejected before any request.
func TestRateRange(t *testing.T) {
	c := New("http://127.0.0.1:1", nil, time.Second)
	if err := c.Rate(context.Background(), 1, 6); !errors.Is(err, ErrRatingRange) {
		t.Errorf("Rate(6) err = %v, want ErrRatingRange", err)
	}
}

// TestListUsersEmailFilter verifies the admin user search parameter.
func TestListUsersEmailFilter(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /users": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("email"); got != "ana@" {
				t.Errorf("email=%q, want ana@", got)
			}
			writeTestJSON(t, w, []models.User{{ID: 2, Email: "ana@example.com", Role: models.RoleAdmin}})
		},
	})
	users, err := New(ts.URL, nil, 0).ListUsers(context.Background(), "ana@")
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Role != models.RoleAdmin {
		t.Errorf("users = %+v", users)
	}
}
