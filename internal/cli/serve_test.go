package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidedock/pkg/tree"
)

func newTestServer(t *testing.T) (*httptest.Server, *workspace) {
	t.Helper()
	ws := openTestWorkspace(t)
	srv := httptest.NewServer(newServer(ws, log.Default()).routes())
	t.Cleanup(srv.Close)
	return srv, ws
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeLayout(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/layout", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var r layoutReport
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Station != "sidebar" || len(r.Columns) != 2 {
		t.Errorf("report = %+v", r)
	}
}

func TestServeDivider(t *testing.T) {
	srv, ws := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/divider", `{"at":{"x":102,"y":10},"to":{"x":162,"y":10}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got dividerResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Columns) != 2 || got.Columns[0] != 160 {
		t.Errorf("columns = %v, want first 160", got.Columns)
	}
	if got.Validated != got.Proposed {
		t.Errorf("validated %v != proposed %v", got.Validated, got.Proposed)
	}
	if size := ws.st.PersistentColumns()[0].Effective(); size != 160 {
		t.Errorf("persistent size = %d, want 160", size)
	}
}

func TestServeDividerErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"no target", `{"at":{"x":102,"y":10}}`, http.StatusBadRequest},
		{"both targets", `{"at":{"x":102,"y":10},"to":{"x":1,"y":1},"ratio":0.5}`, http.StatusBadRequest},
		{"no divider", `{"at":{"x":50,"y":50},"ratio":0.5}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/divider", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestServePreview(t *testing.T) {
	srv, ws := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/preview", `{"target":1,"side":"after-header","width":120,"height":120}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, _, _, ok := ws.st.Preview(); !ok {
		t.Error("preview not active after POST /preview")
	}

	resp = do(t, http.MethodDelete, srv.URL+"/preview", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, _, _, ok := ws.st.Preview(); ok {
		t.Error("preview still active after DELETE /preview")
	}
}

func TestServeDrop(t *testing.T) {
	srv, ws := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/drop", `{"target":3,"side":"after-header","content":4,"width":80,"height":100}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var r layoutReport
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(r.Columns) != 3 {
		t.Errorf("columns = %d, want 3", len(r.Columns))
	}
	if ws.st.Tree().LeafOf(4) == tree.Nil {
		t.Error("content 4 not in tree after drop")
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"no content", `{"target":1,"side":"after-header"}`, http.StatusBadRequest},
		{"bad side", `{"target":1,"side":"above","content":5}`, http.StatusBadRequest},
		{"unknown target", `{"target":99,"side":"after-header","content":5}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/drop", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
