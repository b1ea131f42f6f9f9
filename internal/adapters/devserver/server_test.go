package devserver_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/devserver"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func outputRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html><body><h1>hi</h1></body></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "main.min.css"), []byte(".a{}"), 0o600))
	return root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_InjectsIntoHTML(t *testing.T) {
	h := devserver.New(outputRoot(t), "127.0.0.1:0", nil).Handler()

	for _, target := range []string{"/", "/index.html"} {
		rec := get(t, h, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		body := rec.Body.String()
		assert.Contains(t, body, domain.ReloadPath, target)
		assert.Less(t, len("<html><body><h1>hi</h1>"), len(body))
		assert.Contains(t, body, "</script>\n</body></html>", target)
	}
}

func TestHandler_ServesOtherFilesUnchanged(t *testing.T) {
	h := devserver.New(outputRoot(t), "127.0.0.1:0", nil).Handler()

	rec := get(t, h, "/css/main.min.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".a{}", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing.html").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing.js").Code)
}

func TestInjectReloadScript(t *testing.T) {
	out := string(devserver.InjectReloadScript([]byte("<p>fragment</p>")))
	assert.Contains(t, out, "<p>fragment</p><script>")

	out = string(devserver.InjectReloadScript([]byte("<BODY>x</BODY>")))
	assert.Contains(t, out, "x<script>")
	assert.Contains(t, out, "</script>\n</BODY>")
}

func TestListen_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, err = devserver.New(t.TempDir(), ln.Addr().String(), nil).Listen()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrPortBind)

	var z interface{ Metadata() map[string]any }
	require.ErrorAs(t, err, &z)
	assert.Equal(t, ln.Addr().String(), z.Metadata()["addr"])
}

func startServer(t *testing.T, root string) (*devserver.Server, string, context.CancelFunc, <-chan error) {
	t.Helper()
	srv := devserver.New(root, "127.0.0.1:0", nil)
	addr, err := srv.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	return srv, addr, cancel, done
}

func dial(t *testing.T, srv *devserver.Server, addr string, want int) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+addr+domain.ReloadPath, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.Clients() == want }, 5*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) devserver.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg devserver.Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func TestServe_ReloadBroadcast(t *testing.T) {
	srv, addr, cancel, done := startServer(t, outputRoot(t))

	first := dial(t, srv, addr, 1)
	defer first.CloseNow()
	second := dial(t, srv, addr, 2)
	defer second.CloseNow()

	srv.Reload([]string{"/site/build/css/main.min.css"})
	assert.Equal(t, devserver.MessageCSSReload, readMessage(t, first).Type)
	assert.Equal(t, devserver.MessageCSSReload, readMessage(t, second).Type)

	srv.Reload([]string{"/site/build/css/main.min.css", "/site/build/index.html"})
	assert.Equal(t, devserver.MessageFullReload, readMessage(t, first).Type)
	assert.Equal(t, devserver.MessageFullReload, readMessage(t, second).Type)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(body), domain.ReloadPath)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_DisconnectedClientIsDropped(t *testing.T) {
	srv, addr, cancel, done := startServer(t, outputRoot(t))
	defer func() {
		cancel()
		<-done
	}()

	gone := dial(t, srv, addr, 1)
	stay := dial(t, srv, addr, 2)
	defer stay.CloseNow()

	require.NoError(t, gone.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return srv.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	srv.Reload([]string{"index.html"})
	assert.Equal(t, devserver.MessageFullReload, readMessage(t, stay).Type)
}

func TestReload_NoPaths(t *testing.T) {
	srv := devserver.New(t.TempDir(), "127.0.0.1:0", nil)
	srv.Reload(nil)
	assert.Zero(t, srv.Clients())
}

func eventSeq(events ...ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for _, e := range events {
			if !yield(e) {
				return
			}
		}
	}
}

func TestWatchOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := filepath.Join(t.TempDir(), "build")
	w := mocks.NewMockWatcher(ctrl)

	gomock.InOrder(
		w.EXPECT().Start(gomock.Any(), root).Return(nil),
		w.EXPECT().Events().Return(eventSeq(
			ports.WatchEvent{Path: filepath.Join(root, "index.html"), Operation: ports.OpWrite},
		)),
		w.EXPECT().Stop().Return(nil),
	)

	srv := devserver.New(root, "127.0.0.1:0", nil)
	require.NoError(t, srv.WatchOutput(context.Background(), w, time.Millisecond))
	assert.DirExists(t, root)
}

func TestWatchOutput_StartFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	boom := errors.New("boom")
	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(boom)

	err := devserver.New(t.TempDir(), "127.0.0.1:0", nil).WatchOutput(context.Background(), w, time.Millisecond)
	require.ErrorIs(t, err, boom)
}
