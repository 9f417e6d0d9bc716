package webtui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresAddr(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}

func TestTerminalPage(t *testing.T) {
	s, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Title: "demo <project>"})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "xterm@"+xtermVersion)
	assert.Contains(t, string(body), "demo &lt;project&gt;")
}

func TestParseControl(t *testing.T) {
	m, ok := parseControl(websocket.TextMessage, []byte(`{"type":"Resize","cols":80,"rows":24}`))
	require.True(t, ok)
	assert.Equal(t, controlMsg{Type: "resize", Cols: 80, Rows: 24}, m)

	_, ok = parseControl(websocket.TextMessage, []byte("{"))
	assert.False(t, ok, "a lone brace is a keystroke")
	_, ok = parseControl(websocket.BinaryMessage, []byte(`{"type":"resize"}`))
	assert.False(t, ok)
	_, ok = parseControl(websocket.TextMessage, []byte("q"))
	assert.False(t, ok)
}

func TestSameOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://localhost:7777/ws", nil)
	assert.True(t, sameOrigin(r))
	r.Header.Set("Origin", "http://localhost:7777")
	assert.True(t, sameOrigin(r))
	r.Header.Set("Origin", "http://evil.example")
	assert.False(t, sameOrigin(r))
}

func TestWebsocketBridgesPTY(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	s, err := NewServer(ServerConfig{
		Addr:    "127.0.0.1:0",
		Command: func([]string) *exec.Cmd { return exec.Command("cat") },
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"resize","cols":100,"rows":30}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello\n")))

	var got strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(got.String(), "hello") && time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		got.Write(data)
	}
	assert.Contains(t, got.String(), "hello")
}
