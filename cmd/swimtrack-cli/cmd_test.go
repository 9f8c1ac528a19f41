package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/swimtrack/swimtrack/internal/models"
)

const planJSON = `[{"count":4,"exercises":[{"repetitions":2,"distance":100,"unit":"m","style":"libre","notes":""}]}]`

// fakeAPI serves the handful of endpoints the CLI touches. Only the
// "token=abc" cookie is logged in.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("token")
		return err == nil && c.Value == "abc"
	}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Credenciales incorrectas"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
		writeJSON(w, models.Identity{ID: 5, Email: creds.Email, Role: models.RoleUser})
	})
	mux.HandleFunc("GET /auth/user", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			_, _ = w.Write([]byte("null"))
			return
		}
		writeJSON(w, models.Identity{ID: 5, Email: "ana@example.com", Role: models.RoleUser})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /trains", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, []models.Train{
			{ID: 1, Title: "Series", Description: planJSON, Published: day, IDUserCreator: 5},
			{ID: 2, Title: "Libre", Description: "nadar suave", Published: day.AddDate(0, 0, 1), IDUserCreator: 5},
		})
	})
	mux.HandleFunc("GET /comunidad", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.Train{{
			ID: 9, Title: "Técnica", Description: planJSON, Published: day, IDUserCreator: 7,
			UserCreator: &models.UserSummary{ID: 7, Name: "Luis"},
		}})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// run executes the root command with fresh flag state and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	configPath, apiURL, cachePath, verbose = "", "", "", false
	trainsTitle, trainsOffline, trainsLimit = "", false, 0
	communityTitle, communityOffline = "", false
	loginPassword, seriesJSON = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := execute(context.Background())
	return out.String(), err
}

// TestSeriesSummarize verifies totals are printed without any API.
func TestSeriesSummarize(t *testing.T) {
	out, err := run(t, planJSON, "series", "summarize", "-")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"4 series de: 2x100 m libre", "Bloque 1: 4 Series (800m)", "Total: 800m"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestSeriesSummarizeJSON verifies the --json preview shape.
func TestSeriesSummarizeJSON(t *testing.T) {
	out, err := run(t, planJSON, "series", "summarize", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Kind        string `json:"kind"`
		TotalMeters int    `json:"total_meters"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.TotalMeters != 800 {
		t.Errorf("total_meters = %d, want 800", got.TotalMeters)
	}
}

// TestSeriesSummarizeFreeText verifies free text is echoed verbatim.
func TestSeriesSummarizeFreeText(t *testing.T) {
	out, err := run(t, "calentar 400", "series", "summarize")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "calentar 400") || strings.Contains(out, "Total") {
		t.Errorf("output = %q", out)
	}
}

// TestLoginListOffline walks a login, an online listing, and an offline
// listing served from the cache the first listing filled.
func TestLoginListOffline(t *testing.T) {
	api := fakeAPI(t)
	cache := filepath.Join(t.TempDir(), "cli.db")
	common := []string{"--api", api.URL, "--cache", cache}

	out, err := run(t, "", append(common, "login", "ana@example.com", "-p", "secret")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Logged in as ana@example.com") {
		t.Errorf("login output = %q", out)
	}

	out, err = run(t, "", append(common, "whoami")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ana@example.com") {
		t.Errorf("whoami after login = %q, want restored session", out)
	}

	out, err = run(t, "", append(common, "trains", "list")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "800m") || !strings.Contains(out, "Libre") {
		t.Errorf("trains list = %q", out)
	}

	api.Close()
	out, err = run(t, "", append(common, "trains", "list", "--offline", "--title", "ser")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Series") || strings.Contains(out, "Libre") {
		t.Errorf("offline list = %q", out)
	}
}

// TestTrainsListNeedsLogin verifies the listing asks for a login first.
func TestTrainsListNeedsLogin(t *testing.T) {
	api := fakeAPI(t)
	_, err := run(t, "", "--api", api.URL, "--cache", filepath.Join(t.TempDir(), "cli.db"), "trains", "list")
	if err == nil || !strings.Contains(err.Error(), "swimtrack login") {
		t.Errorf("err = %v, want login hint", err)
	}
}

// TestLoginRejected verifies a bad password fails and stores nothing.
func TestLoginRejected(t *testing.T) {
	api := fakeAPI(t)
	common := []string{"--api", api.URL, "--cache", filepath.Join(t.TempDir(), "cli.db")}
	if _, err := run(t, "", append(common, "login", "ana@example.com", "-p", "nope")...); err == nil {
		t.Fatal("expected login error")
	}
	out, err := run(t, "", append(common, "whoami")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("whoami = %q", out)
	}
}

// TestCommunity verifies shared trainings list with their creator.
func TestCommunity(t *testing.T) {
	api := fakeAPI(t)
	out, err := run(t, "", "--api", api.URL, "--cache", filepath.Join(t.TempDir(), "cli.db"), "community")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Técnica") || !strings.Contains(out, "@Luis") {
		t.Errorf("community = %q", out)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v; want %d, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("entrenamiento", 8); got != "entre..." {
		t.Errorf("truncate = %q, want entre...", got)
	}
	if got := truncate("ñandú", 8); got != "ñandú" {
		t.Errorf("truncate short = %q", got)
	}
	if got := padRight("ñ", 3); got != "ñ  " {
		t.Errorf("padRight = %q", got)
	}
}
