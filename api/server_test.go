package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/matt-g-everett/ledtl/scene"
	"github.com/matt-g-everett/ledtl/timeline"
)

const fade = `
name: fade
timeline:
  - keyframe: all
    props: {color: "#000000"}
    wait: 100
  - keystop: all
    props: {color: "#ffffff"}
  - callback: ping
`

func newTestApi(t *testing.T) *Api {
	t.Helper()
	f, err := scene.Parse([]byte(fade))
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewApi(map[string]*scene.File{"fade": f}, 3, scene.Hooks{"ping": func(float64) {}}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func get(t *testing.T, h http.Handler, url string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code == http.StatusOK && out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s: bad body %q: %v", url, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestScenes(t *testing.T) {
	h := newTestApi(t).Handler()

	var infos []sceneInfo
	if code := get(t, h, "/scenes", &infos); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	want := []sceneInfo{{Name: "fade", Duration: 100}}
	if !reflect.DeepEqual(infos, want) {
		t.Errorf("expected %+v, got %+v", want, infos)
	}
}

func TestFrame(t *testing.T) {
	h := newTestApi(t).Handler()

	tests := []struct {
		t    string
		want string
	}{
		{"50", "#808080"},
		{"500", "#ffffff"},
		{"0", "#000000"},
		{"50", "#808080"},
	}
	for _, tt := range tests {
		var resp frameResponse
		if code := get(t, h, "/frame?scene=fade&t="+tt.t, &resp); code != http.StatusOK {
			t.Fatalf("t=%s: expected 200, got %d", tt.t, code)
		}
		if len(resp.Pixels) != 3 || resp.Pixels[2] != tt.want {
			t.Errorf("t=%s: expected %s, got %v", tt.t, tt.want, resp.Pixels)
		}
	}

	if code := get(t, h, "/frame?scene=nope&t=1", nil); code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown scene, got %d", code)
	}
	if code := get(t, h, "/frame?scene=fade&t=soon", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad time, got %d", code)
	}
}

func TestFrameRejectsNonFiniteTime(t *testing.T) {
	h := newTestApi(t).Handler()

	for _, bad := range []string{"NaN", "Inf", "-Inf"} {
		if code := get(t, h, "/frame?scene=fade&t="+bad, nil); code != http.StatusBadRequest {
			t.Errorf("t=%s: expected 400, got %d", bad, code)
		}
	}

	var resp frameResponse
	if code := get(t, h, "/frame?scene=fade&t=50", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Pixels[2] != "#808080" {
		t.Errorf("expected #808080, got %v", resp.Pixels)
	}
}

func TestEase(t *testing.T) {
	h := newTestApi(t).Handler()

	var resp easeResponse
	if code := get(t, h, "/ease?name=linear&samples=3", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !reflect.DeepEqual(resp.Values, []float64{0, 0.5, 1}) {
		t.Errorf("unexpected samples %v", resp.Values)
	}

	if code := get(t, h, "/ease?name=linear&samples=4&backAndForth=true", &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Values[0] != 0 || resp.Values[3] != 0 || resp.Values[1] != 0.5 {
		t.Errorf("unexpected back and forth samples %v", resp.Values)
	}

	if code := get(t, h, "/ease?name=wobbly", nil); code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown ease, got %d", code)
	}
	if code := get(t, h, "/ease?name=linear&samples=0", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad samples, got %d", code)
	}

	var names []string
	get(t, h, "/eases", &names)
	if len(names) == 0 {
		t.Error("expected the ease catalog")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestApi(t).Handler()
	for _, url := range []string{"/scenes", "/frame?scene=fade&t=1", "/ease?name=linear", "/eases"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", url, rec.Code)
		}
	}
}

func TestNewApiRejectsBadScenes(t *testing.T) {
	f, err := scene.Parse([]byte("timeline: [{callback: missing}]"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewApi(map[string]*scene.File{"bad": f}, 3, nil, "")
	if !errors.Is(err, timeline.ErrInvalidDescriptor) {
		t.Errorf("expected ErrInvalidDescriptor, got %v", err)
	}
}

func TestServeStops(t *testing.T) {
	a := newTestApi(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- a.Serve(ctx, "127.0.0.1:0") }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
