package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/observability"
	"github.com/matzehuels/sidedock/pkg/span"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// serveCommand creates the serve command, which exposes one station over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags storeFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [station.toml]",
		Short: "Serve a station over an HTTP API",
		Long: `Serve a station over an HTTP API.

Routes:
  GET    /layout     current layout
  GET    /columns    column sizes
  POST   /divider    drag a divider: {"at":{"x":..,"y":..},"to":{"x":..,"y":..}}
  POST   /preview    open a drop preview: {"target":<content>,"side":"after-header","width":..,"height":..}
  DELETE /preview    close the drop preview
  POST   /drop       commit a placement: {"target":<content>,"side":..,"content":<id>,"width":..,"height":..}

Sizes are saved to the layout store after every change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], flags, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, flags storeFlags, addr string) error {
	ws, err := c.openWorkspace(ctx, path, flags)
	if err != nil {
		return err
	}
	defer ws.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(ws, c.Logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %s", ws.cfg.ID)
	printDetail("http://%s/layout", addr)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// server - HTTP access to one station
// =============================================================================

// server serializes every request on its station; the station itself is
// single-threaded.
type server struct {
	mu     sync.Mutex
	ws     *workspace
	logger *log.Logger
}

func newServer(ws *workspace, logger *log.Logger) *server {
	return &server{ws: ws, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hooks)

	r.Get("/layout", s.handleLayout)
	r.Get("/columns", s.handleColumns)
	r.Post("/divider", s.handleDivider)
	r.Post("/preview", s.handlePreview)
	r.Delete("/preview", s.handleClearPreview)
	r.Post("/drop", s.handleDrop)
	return r
}

// hooks reports every request to the registered HTTP hooks.
func hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p point) tree() tree.Point { return tree.Point{X: p.X, Y: p.Y} }

type dividerRequest struct {
	At    point    `json:"at"`
	To    *point   `json:"to,omitempty"`
	Ratio *float64 `json:"ratio,omitempty"`
}

type dividerResponse struct {
	Divider   string  `json:"divider"`
	Proposed  float64 `json:"proposed"`
	Validated float64 `json:"validated"`
	Columns   []int   `json:"columns"`
}

type placementRequest struct {
	Target  int64  `json:"target"`
	Side    string `json:"side"`
	Content int64  `json:"content,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Minimum *point `json:"minimum,omitempty"`
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.st.Flush()
	writeJSON(w, http.StatusOK, newReport(s.ws.st, s.ws.label))
}

func (s *server) handleColumns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.st.Flush()
	writeJSON(w, http.StatusOK, map[string][]int{"columns": newReport(s.ws.st, s.ws.label).sizes()})
}

func (s *server) handleDivider(w http.ResponseWriter, r *http.Request) {
	var req dividerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if (req.To == nil) == (req.Ratio == nil) {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "exactly one of to and ratio is required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ws.st
	d, ok := st.DividerAt(req.At.tree())
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no divider at %d,%d", req.At.X, req.At.Y))
		return
	}
	var proposed float64
	if req.Ratio != nil {
		proposed = *req.Ratio
	} else {
		proposed = st.RatioAt(d, req.To.tree())
	}
	valid := st.SetDivider(d, proposed)
	st.Flush()
	s.save(r.Context())

	writeJSON(w, http.StatusOK, dividerResponse{
		Divider:   d.String(),
		Proposed:  proposed,
		Validated: valid,
		Columns:   newReport(st, s.ws.label).sizes(),
	})
}

// placement resolves a placement request against the station.
func (s *server) placement(req placementRequest) (span.Request, error) {
	side, err := span.ParsePlacement(req.Side)
	if err != nil {
		return span.Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "side")
	}
	t := s.ws.st.Tree()
	target := t.Root()
	if req.Target != 0 {
		target = t.LeafOf(tree.ContentID(req.Target))
		if target == tree.Nil {
			return span.Request{}, errors.New(errors.ErrCodeNotFound, "content %d is not in the station", req.Target)
		}
	}
	return span.Request{
		Target: target,
		Side:   side,
		Size:   tree.Size{Width: req.Width, Height: req.Height},
	}, nil
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pr, err := s.placement(req)
	if err != nil {
		writeError(w, err)
		return
	}
	s.ws.st.SetPlacementPreview(pr)
	// Previews open without animation here; a client polls /layout.
	s.ws.st.Tick(s.ws.st.Options().SpanDuration)
	s.ws.st.Flush()
	writeJSON(w, http.StatusOK, newReport(s.ws.st, s.ws.label))
}

func (s *server) handleClearPreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.st.ClearPlacementPreview()
	s.ws.st.Flush()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Content <= 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "content must be a positive ID"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pr, err := s.placement(req)
	if err != nil {
		writeError(w, err)
		return
	}
	minimum := tree.Size{Width: 50, Height: 50}
	if req.Minimum != nil {
		minimum = tree.Size{Width: req.Minimum.X, Height: req.Minimum.Y}
	}
	if _, err := s.ws.st.Drop(pr, tree.ContentID(req.Content), pr.Size, minimum); err != nil {
		writeError(w, err)
		return
	}
	s.ws.st.Flush()
	s.save(r.Context())
	writeJSON(w, http.StatusOK, newReport(s.ws.st, s.ws.label))
}

// save persists the sizes; a failing store is logged, not fatal.
func (s *server) save(ctx context.Context) {
	if err := s.ws.save(ctx); err != nil {
		s.logger.Error("save layout", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidNode, errors.ErrCodeOutOfRange:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
