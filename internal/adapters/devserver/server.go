// Package devserver serves the build output over HTTP and pushes reload
// notifications to connected browsers over a websocket.
package devserver

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DevServer = (*Server)(nil)

const shutdownTimeout = 5 * time.Second

// Server implements ports.DevServer.
type Server struct {
	root   string
	addr   string
	logger ports.Logger
	hub    *hub

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server for the output directory root, listening on addr once Listen is called.
func New(root, addr string, logger ports.Logger) *Server {
	return &Server{
		root:   root,
		addr:   addr,
		logger: logger,
		hub:    newHub(),
	}
}

// Listen implements ports.DevServer.
func (s *Server) Listen() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String(), nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", domain.Tag(domain.ErrPortBind, zerr.With(zerr.Wrap(err, domain.ErrPortBind.Error()), "addr", s.addr))
	}
	s.listener = ln
	return ln.Addr().String(), nil
}

// Serve implements ports.DevServer. It listens first if Listen was not called.
func (s *Server) Serve(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		s.hub.close()
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

// Reload implements ports.DevServer. Stylesheet-only changes are hot swapped,
// anything else reloads the page.
func (s *Server) Reload(paths []string) {
	if len(paths) == 0 {
		return
	}
	msg := Message{Type: MessageCSSReload}
	for _, p := range paths {
		if ext := filepath.Ext(p); ext != ".css" && ext != ".map" {
			msg.Type = MessageFullReload
			break
		}
	}
	s.hub.broadcast(msg)
}

// Clients returns the number of connected browsers.
func (s *Server) Clients() int {
	return s.hub.count()
}

// WatchOutput watches the output root with w and reloads browsers once per
// debounced batch of changes. It returns when ctx is cancelled.
func (s *Server) WatchOutput(ctx context.Context, w ports.Watcher, window time.Duration) error {
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return domain.Tag(domain.ErrIO, zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", s.root))
	}
	if err := w.Start(ctx, s.root); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	debouncer := watcher.NewDebouncer(window, s.Reload)
	defer debouncer.Stop()

	for event := range w.Events() {
		debouncer.Add(event.Path)
	}
	return nil
}

// Handler returns the HTTP handler: the reload websocket plus the output
// directory, with the reload client injected into HTML pages.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(domain.ReloadPath, s.handleWebSocket)
	mux.Handle("/", s.fileHandler())
	return mux
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("reload channel: " + err.Error())
		}
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	if !s.hub.add(c) {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	go s.hub.writePump(c)

	// Browsers never send; CloseRead handles control frames until the peer goes away.
	readCtx := conn.CloseRead(context.Background())
	<-readCtx.Done()
	s.hub.remove(c)
}

func (s *Server) fileHandler() http.Handler {
	files := http.FileServer(http.Dir(s.root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		file := filepath.Join(s.root, filepath.FromSlash(name))

		info, err := os.Stat(file)
		if err == nil && info.IsDir() {
			file = filepath.Join(file, "index.html")
			if !strings.HasSuffix(r.URL.Path, "/") {
				// Let the file server issue its directory redirect.
				files.ServeHTTP(w, r)
				return
			}
		}
		if !strings.EqualFold(filepath.Ext(file), ".html") {
			files.ServeHTTP(w, r)
			return
		}

		page, err := os.ReadFile(file) //nolint:gosec // confined to the output root by path.Clean
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(InjectReloadScript(page))
	})
}

// InjectReloadScript inserts the reload client before the last </body>, or
// appends it when the page has none.
func InjectReloadScript(page []byte) []byte {
	script := []byte(reloadScript)
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(bytes.Clone(page), script...)
	}

	out := make([]byte, 0, len(page)+len(script))
	out = append(out, page[:idx]...)
	out = append(out, script...)
	return append(out, page[idx:]...)
}

const reloadScript = `<script>(function () {
  var scheme = location.protocol === "https:" ? "wss:" : "ws:";
  function connect() {
    var ws = new WebSocket(scheme + "//" + location.host + "` + domain.ReloadPath + `");
    ws.onmessage = function (event) {
      var msg = JSON.parse(event.data);
      if (msg.type === "` + MessageCSSReload + `") {
        document.querySelectorAll('link[rel="stylesheet"]').forEach(function (link) {
          var url = new URL(link.href);
          url.searchParams.set("kiln", Date.now());
          link.href = url.toString();
        });
        return;
      }
      location.reload();
    };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }
  connect();
})();</script>
`
