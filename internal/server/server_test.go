package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hailam/chessplay5d/internal/notation/codecs"
	"github.com/hailam/chessplay5d/internal/storage"
)

const sampleGame = `[Board "Standard"]
1. e4 / e5 2. Nf3 / Nc6`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	srv := httptest.NewServer(NewHandler(store, nil, codecs.Options{}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return string(data)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/convert?from=5dpgn&to=4xel", sampleGame)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := readAll(t, resp); !strings.HasPrefix(got, "w1. L0T1 Pe2 L0T1 e4.") {
		t.Errorf("converted text = %q", got)
	}

	tests := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"UnknownFormat", "/convert?from=nope", sampleGame, http.StatusBadRequest},
		{"Illegal", "/convert", "1. e5", http.StatusBadRequest},
		{"Syntax", "/convert", "1. Zz9", http.StatusBadRequest},
		{"OversizedBoard", "/convert", `[Board "Custom"] [Size "4294967296x4294967296"]`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+tt.url, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			decodeJSON(t, resp, &e)
			if e.Error == "" {
				t.Error("error body should carry a message")
			}
		})
	}
}

func TestGameLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/games?format=pgn", sampleGame)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d, want 201", resp.StatusCode)
	}
	var rec storage.GameRecord
	decodeJSON(t, resp, &rec)
	if rec.ID == "" || rec.Format != "5dpgn" || rec.Moves != 4 || rec.Title != "Standard" {
		t.Fatalf("saved record = %+v", rec)
	}

	var list []storage.GameRecord
	decodeJSON(t, do(t, http.MethodGet, srv.URL+"/games", ""), &list)
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Fatalf("list = %+v", list)
	}

	t.Run("GetJSON", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/games/"+rec.ID, "")
		if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var snap map[string]any
		decodeJSON(t, resp, &snap)
		if len(snap) == 0 {
			t.Error("snapshot should not be empty")
		}
	})

	t.Run("Preview", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/games/"+rec.ID+"/preview", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if got := readAll(t, resp); !strings.Contains(got, "(0T1") {
			t.Errorf("preview missing timeline label:\n%s", got)
		}
	})

	t.Run("Image", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/games/"+rec.ID+"/image", "")
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("Content-Type = %q", ct)
		}
		if _, err := png.Decode(resp.Body); err != nil {
			t.Errorf("png.Decode failed: %v", err)
		}
	})

	resp = do(t, http.MethodDelete, srv.URL+"/games/"+rec.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		if resp := do(t, method, srv.URL+"/games/"+rec.ID, ""); resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s after delete = %d, want 404", method, resp.StatusCode)
		}
	}
}

func TestVariants(t *testing.T) {
	srv := newTestServer(t)
	var out []variantResponse
	decodeJSON(t, do(t, http.MethodGet, srv.URL+"/variants", ""), &out)
	found := false
	for _, v := range out {
		if v.Name == "STANDARD" {
			found = v.Size == "8x8"
		}
	}
	if !found {
		t.Errorf("Standard 8x8 missing from %+v", out)
	}
}
