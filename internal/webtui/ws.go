package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

type controlMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

// parseControl decodes a JSON control frame. Keystrokes are never valid JSON objects of this shape.
func parseControl(mt int, data []byte) (controlMsg, bool) {
	if mt != websocket.TextMessage || len(data) == 0 || data[0] != '{' {
		return controlMsg{}, false
	}
	var m controlMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return controlMsg{}, false
	}
	m.Type = strings.ToLower(strings.TrimSpace(m.Type))
	return m, m.Type != ""
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     sameOrigin,
}

func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	return strings.HasSuffix(origin, "://"+strings.TrimSpace(r.Host))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Log.WithError(err).Debug("websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ptmx, cleanup, err := s.startPTY()
	if err != nil {
		s.cfg.Log.WithError(err).Warn("start session")
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer cleanup()

	log := s.cfg.Log.WithField("remote", r.RemoteAddr)
	log.Info("session started")

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ptmx, conn)
	}()
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, ptmx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Debug("session pump stopped")
		}
	}
	cancel()
	cleanup()
	_ = conn.Close()
	wg.Wait()
	log.Info("session ended")
}

func (s *Server) startPTY() (*os.File, func(), error) {
	cmd := s.cfg.Command(s.cfg.Args)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 120, Rows: 40})
	if err != nil {
		return nil, nil, err
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			_ = ptmx.Close()
			_ = cmd.Process.Kill()
			_, _ = cmd.Process.Wait()
		})
	}
	return ptmx, cleanup, nil
}

func pumpPTYToWS(ptmx *os.File, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, ptmx *os.File) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if m, ok := parseControl(mt, data); ok {
			if m.Type == "resize" && m.Cols > 0 && m.Rows > 0 {
				_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)})
			}
			continue
		}
		if len(data) == 0 {
			continue
		}
		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
}
