package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/marquee/internal/logtail"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /films", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":7,"title":"Stalker","year":1979,"director":"Andrei Tarkovsky","genre":"Sci-Fi","rating":8.1}]`))
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"username":"ada","email":"ada@example.com","role":"admin"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestSetupAndInitialLoad(t *testing.T) {
	srv := catalogServer(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "marquee.log")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
api_url = %q
film_timeout = "2s"
log_file = %q
log_level = "debug"
`, srv.URL, logPath))

	env, err := setup(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml")})
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer env.closeLog()

	if env.prefs.Theme != "Nightfox" {
		t.Fatalf("theme = %q, want default Nightfox", env.prefs.Theme)
	}
	if err := initialLoad(context.Background(), env.session, 5*time.Second); err != nil {
		t.Fatalf("initialLoad() error = %v", err)
	}

	films := env.session.Films.Snapshot()
	if films.Offline {
		t.Fatal("session offline against a healthy server")
	}
	if len(films.Films) != 1 || films.Films[0].Title != "Stalker" {
		t.Fatalf("films = %+v, want the server's film", films.Films)
	}
	if got := len(env.session.Users.Users()); got != 1 {
		t.Fatalf("users = %d, want 1", got)
	}

	lines, err := logtail.Read(logPath, 0)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var sawStart bool
	for _, e := range logtail.ParseAll(lines) {
		if e.Message == "marquee starting" {
			sawStart = true
		}
	}
	if !sawStart {
		t.Fatalf("log missing startup record:\n%s", strings.Join(lines, "\n"))
	}
}

func TestInitialLoadOfflineUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
api_url = %q
log_file = %q
`, url, filepath.Join(dir, "marquee.log")))

	env, err := setup(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml")})
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer env.closeLog()

	if err := initialLoad(context.Background(), env.session, 5*time.Second); err != nil {
		t.Fatalf("initialLoad() error = %v", err)
	}
	films := env.session.Films.Snapshot()
	if !films.Offline {
		t.Fatal("session online against a closed server")
	}
	if len(films.Films) == 0 {
		t.Fatal("offline session has no fallback films")
	}
	if films.Error != "Server unavailable. Using offline data." {
		t.Fatalf("error = %q", films.Error)
	}
}

func TestSetupErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad timeout", `film_timeout = "soon"`, "load config"},
		{"missing fallback", fmt.Sprintf("fallback_catalog = %q", filepath.Join(dir, "nope.yaml")), "load fallback catalog"},
		{"bad api url", `api_url = "http://[::1"`, "init catalog client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := t.TempDir()
			body := tt.body + fmt.Sprintf("\nlog_file = %q\n", filepath.Join(sub, "marquee.log"))
			_, err := setup(Options{ConfigPath: writeConfig(t, sub, body), PrefsPath: filepath.Join(sub, "prefs.toml")})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("setup() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestInitialLoadCancelled(t *testing.T) {
	srv := catalogServer(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf("api_url = %q\nlog_file = %q\n", srv.URL, filepath.Join(dir, "marquee.log")))
	env, err := setup(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml")})
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer env.closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := initialLoad(ctx, env.session, 5*time.Second); err != context.Canceled {
		t.Fatalf("initialLoad() error = %v, want context.Canceled", err)
	}
}

func TestInitialLoadGivesUpOnStalledUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /films", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf("api_url = %q\nlog_file = %q\n", srv.URL, filepath.Join(dir, "marquee.log")))
	env, err := setup(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml")})
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer env.closeLog()

	done := make(chan error, 1)
	go func() {
		done <- initialLoad(context.Background(), env.session, 200*time.Millisecond)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("initialLoad() error = %v, want nil after timeout", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("initialLoad did not return after its timeout")
	}

	users := env.session.Users.Snapshot()
	if users.Loading {
		t.Fatal("users still loading after timeout")
	}
	if users.Error == "" {
		t.Fatal("users error not recorded after timeout")
	}
	if films := env.session.Films.Snapshot(); films.Offline {
		t.Fatal("films went offline though /films answered")
	}
}
