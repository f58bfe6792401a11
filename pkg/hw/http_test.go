package hw

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

var _ Board = (*HTTPBoard)(nil)

// fakeDaemon is a board daemon backed by a map of pin levels.
type fakeDaemon struct {
	mu       sync.Mutex
	levels   map[string]string
	charge   int
	rotates  []string
	forwards int
	fail     bool
}

func (d *fakeDaemon) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gpio/{pin}", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		level := d.levels[r.PathValue("pin")]
		if level == "" {
			level = "LOW"
		}
		json.NewEncoder(w).Encode(map[string]string{"level": level})
	})
	mux.HandleFunc("POST /api/gpio/{pin}", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Level string }
		json.NewDecoder(r.Body).Decode(&body)
		d.mu.Lock()
		d.levels[r.PathValue("pin")] = body.Level
		d.mu.Unlock()
	})
	mux.HandleFunc("GET /api/battery", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]int{"charge": d.charge})
	})
	mux.HandleFunc("POST /api/drive/translate", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.fail {
			http.Error(w, "stalled", http.StatusServiceUnavailable)
			return
		}
		d.forwards++
	})
	mux.HandleFunc("POST /api/drive/rotate", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Direction string }
		json.NewDecoder(r.Body).Decode(&body)
		d.mu.Lock()
		d.rotates = append(d.rotates, body.Direction)
		d.mu.Unlock()
	})
	return mux
}

func TestHTTPBoard(t *testing.T) {
	d := &fakeDaemon{levels: map[string]string{"15": "HIGH"}, charge: 64}
	srv := httptest.NewServer(d.handler())
	defer srv.Close()

	b := NewHTTPBoard(srv.URL + "/")

	level, err := b.Read(15)
	if err != nil || level != High {
		t.Errorf("Read(15) = %v, %v, want HIGH", level, err)
	}
	level, err = b.Read(4)
	if err != nil || level != Low {
		t.Errorf("Read(4) = %v, %v, want LOW", level, err)
	}

	if err := b.Write(12, High); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if d.levels["12"] != "HIGH" {
		t.Errorf("daemon pin 12 = %q, want HIGH", d.levels["12"])
	}

	charge, err := b.ChargeLeft()
	if err != nil || charge != 64 {
		t.Errorf("ChargeLeft = %d, %v, want 64", charge, err)
	}

	if err := b.Translate(); err != nil {
		t.Errorf("Translate: %v", err)
	}
	if err := b.Rotate("l"); err != nil {
		t.Errorf("Rotate: %v", err)
	}
	if d.forwards != 1 || len(d.rotates) != 1 || d.rotates[0] != "l" {
		t.Errorf("daemon saw forwards=%d rotates=%v", d.forwards, d.rotates)
	}
}

func TestHTTPBoard_Errors(t *testing.T) {
	d := &fakeDaemon{levels: map[string]string{"15": "maybe"}, fail: true}
	srv := httptest.NewServer(d.handler())
	defer srv.Close()

	b := NewHTTPBoard(srv.URL)

	if _, err := b.Read(15); err == nil {
		t.Error("Read should reject an unknown level")
	}
	if err := b.Translate(); err == nil {
		t.Error("Translate should surface a daemon error status")
	}

	srv.Close()
	if _, err := b.ChargeLeft(); err == nil {
		t.Error("ChargeLeft should fail when the daemon is down")
	}
}

func TestHTTPBoard_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	b := NewHTTPBoard(srv.URL)
	b.Timeout = 50 * time.Millisecond

	start := time.Now()
	if _, err := b.ChargeLeft(); err == nil {
		t.Error("ChargeLeft should fail when the daemon stalls")
	}
	if err := b.Translate(); err == nil {
		t.Error("Translate should fail when the daemon stalls")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("stalled requests took %v, want them cut at the board timeout", elapsed)
	}
}
