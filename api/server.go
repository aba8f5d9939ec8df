package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/matt-g-everett/ledtl/curve"
	"github.com/matt-g-everett/ledtl/scene"
	"github.com/matt-g-everett/ledtl/stream"
	"github.com/matt-g-everett/ledtl/timeline"
)

const maxSamples = 10000

// preview is a scene played on its own strip, scrubbed by requests.
type preview struct {
	mu       sync.Mutex
	file     *scene.File
	strip    *stream.Strip
	timeline *timeline.Timeline
}

// Api serves scene previews and the static client.
type Api struct {
	static   string
	previews map[string]*preview
	names    []string
}

type sceneInfo struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Loop     bool    `json:"loop"`
}

type frameResponse struct {
	Scene  string   `json:"scene"`
	T      float64  `json:"t"`
	Pixels []string `json:"pixels"`
}

type easeResponse struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// NewApi builds a preview timeline of pixels pixels for every scene. static is the
// directory served at /.
func NewApi(scenes map[string]*scene.File, pixels int, hooks scene.Hooks, static string) (*Api, error) {
	a := new(Api)
	a.static = static
	a.previews = make(map[string]*preview, len(scenes))

	for name, f := range scenes {
		p := new(preview)
		p.file = f
		p.strip = stream.NewStrip(pixels)
		tl, err := f.Build(&timeline.Env{Access: p.strip, Resolver: p.strip}, hooks)
		if err != nil {
			return nil, err
		}
		p.timeline = tl
		a.previews[name] = p
		a.names = append(a.names, name)
	}
	sort.Strings(a.names)

	return a, nil
}

// Handler returns the routes of the api.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scenes", a.handleScenes)
	mux.HandleFunc("/frame", a.handleFrame)
	mux.HandleFunc("/ease", a.handleEase)
	mux.HandleFunc("/eases", a.handleEases)
	mux.Handle("/", http.FileServer(http.Dir(a.static)))
	return mux
}

// Serve listens on addr until the context is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (a *Api) handleScenes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := make([]sceneInfo, 0, len(a.names))
	for _, name := range a.names {
		p := a.previews[name]
		infos = append(infos, sceneInfo{Name: name, Duration: p.timeline.Duration(), Loop: p.file.Loop})
	}
	writeJSON(w, infos)
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("scene")
	p, ok := a.previews[name]
	if !ok {
		http.Error(w, "unknown scene", http.StatusNotFound)
		return
	}
	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		http.Error(w, "t must be a number", http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	p.timeline.Evaluate(t, nil)
	frame := p.strip.Render()
	p.mu.Unlock()

	resp := frameResponse{Scene: name, T: t, Pixels: make([]string, frame.Len())}
	for i := range resp.Pixels {
		resp.Pixels[i] = frame.Pixel(i).Hex()
	}
	writeJSON(w, resp)
}

func (a *Api) handleEase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	name := q.Get("name")
	f, ok := curve.Ease(name)
	if !ok {
		http.Error(w, "unknown ease", http.StatusNotFound)
		return
	}

	samples := 50
	if s := q.Get("samples"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxSamples {
			http.Error(w, "samples must be between 1 and 10000", http.StatusBadRequest)
			return
		}
		samples = n
	}

	resp := easeResponse{Name: name}
	if q.Get("backAndForth") == "true" {
		resp.Values = curve.SampleBackAndForth(f, samples)
	} else {
		resp.Values = curve.Sample(f, samples)
	}
	writeJSON(w, resp)
}

func (a *Api) handleEases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, curve.Names())
}
