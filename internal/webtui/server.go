// Package webtui shares the hackspace TUI in a browser: each websocket connection gets its own
// TUI process on a pseudo-terminal, rendered client-side by xterm.js.
package webtui

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

const xtermVersion = "5.3.0"

var pageTmpl = template.Must(template.New("terminal").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>hackspace{{if .Title}} · {{.Title}}{{end}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/xterm@{{.XtermVersion}}/css/xterm.css">
<style>html,body,#term{height:100%;margin:0;background:#111}</style>
</head>
<body>
<div id="term"></div>
<script src="https://cdn.jsdelivr.net/npm/xterm@{{.XtermVersion}}/lib/xterm.js"></script>
<script src="https://cdn.jsdelivr.net/npm/xterm-addon-fit@0.8.0/lib/xterm-addon-fit.js"></script>
<script>
const term = new Terminal({cursorBlink: true});
const fit = new FitAddon.FitAddon();
term.loadAddon(fit);
term.open(document.getElementById("term"));
fit.fit();
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "arraybuffer";
const resize = () => { fit.fit(); if (ws.readyState === 1) ws.send(JSON.stringify({type: "resize", cols: term.cols, rows: term.rows})); };
ws.onopen = resize;
ws.onmessage = (e) => term.write(typeof e.data === "string" ? e.data : new Uint8Array(e.data));
ws.onclose = () => term.write("\r\n[session closed]\r\n");
term.onData((d) => ws.send(d));
window.addEventListener("resize", resize);
</script>
</body>
</html>
`))

type ServerConfig struct {
	Addr  string
	Title string
	// Args are passed to the child hackspace process (persistent flags only; no subcommand).
	Args []string
	// Command overrides the child process; defaults to re-running the current executable.
	Command func(args []string) *exec.Cmd
	Log     logrus.FieldLogger
}

type Server struct {
	cfg ServerConfig
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	if cfg.Command == nil {
		cfg.Command = selfCommand
	}
	if cfg.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Log = l
	}
	return &Server{cfg: cfg}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	vm := struct {
		Title        string
		XtermVersion string
	}{Title: strings.TrimSpace(s.cfg.Title), XtermVersion: xtermVersion}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, vm); err != nil {
		s.cfg.Log.WithError(err).Warn("render terminal page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func selfCommand(args []string) *exec.Cmd {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	// No subcommand => interactive TUI.
	return exec.Command(exe, args...)
}
