package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
)

// Server serves the dashboard directory over local HTTP.
type Server struct {
	Root        string
	Port        int
	OpenBrowser bool

	openURL func(string) error
}

// New creates a server for root on port.
func New(root string, port int) *Server {
	return &Server{
		Root:        root,
		Port:        port,
		OpenBrowser: true,
		openURL:     browser.OpenURL,
	}
}

// Handler returns the router: every path maps to a file under Root except
// private files, which answer 404.
func (s *Server) Handler() http.Handler {
	app := mux.NewRouter()
	app.Use(noCacheHeaders)
	app.MatcherFunc(isPrivate).HandlerFunc(http.NotFound)
	app.PathPrefix("/").Handler(http.FileServer(http.Dir(s.Root)))
	return app
}

// privateDirs hold configuration next to the dashboard.
var privateDirs = map[string]bool{"configs": true}

// privateExts are run history databases and their journals.
var privateExts = []string{".db", ".db-wal", ".db-shm", ".db-journal"}

// isPrivate matches dot-files, configuration directories and databases.
func isPrivate(r *http.Request, _ *mux.RouteMatch) bool {
	p := path.Clean("/" + r.URL.Path)
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") || privateDirs[strings.ToLower(seg)] {
			return true
		}
	}
	lower := strings.ToLower(p)
	for _, ext := range privateExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// noCacheHeaders allows any origin and forbids caching so the dashboard
// always reads the latest documents.
func noCacheHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	addr := fmt.Sprintf("http://localhost:%d", ln.Addr().(*net.TCPAddr).Port)
	log.Printf("[INFO] serving %s at %s", s.Root, addr)
	if s.OpenBrowser && s.openURL != nil {
		if err := s.openURL(addr); err != nil {
			log.Printf("[WARN] could not open browser, visit %s: %v", addr, err)
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("[INFO] server stopped")
	return nil
}
