// Package preview serves generated spritesheets and frames over SSH
// as terminal half-block art, so art can be inspected from anywhere a
// terminal reaches without copying files around.
package preview

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gliderlabs/ssh"
	"go.uber.org/zap"

	"spriteforge/internal/ansi"
)

// Server lists PNGs under a root directory and renders the selected
// one to each connected session.
type Server struct {
	addr    string
	hostKey string
	root    string
	log     *zap.Logger
}

// NewServer creates a preview server for the PNGs under root.
func NewServer(addr, hostKey, root string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{addr: addr, hostKey: hostKey, root: root, log: log}
}

// Start begins listening for SSH connections. Blocks.
func (s *Server) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}
	s.log.Info("preview server listening", zap.String("addr", s.addr))
	return server.ListenAndServe()
}

func (s *Server) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	files, err := s.listPNGs()
	if err != nil || len(files) == 0 {
		fmt.Fprintf(sess, "No PNGs under %s\n", s.root)
		return
	}

	s.log.Info("preview session opened",
		zap.String("user", sess.User()),
		zap.Int("files", len(files)))

	var termMu sync.Mutex
	termW := ptyReq.Window.Width
	width := func() int {
		termMu.Lock()
		defer termMu.Unlock()
		return termW
	}

	io.WriteString(sess, ansi.EnableAltScreen())
	io.WriteString(sess, ansi.HideCursor())
	defer func() {
		io.WriteString(sess, ansi.ShowCursor())
		io.WriteString(sess, ansi.DisableAltScreen())
	}()

	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termMu.Unlock()
		}
	}()

	cur := 0
	s.draw(sess, files, cur, width())

	buf := make([]byte, 16)
	for {
		n, err := sess.Read(buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			switch b {
			case 'q', 3: // q or Ctrl-C
				return
			case 'n', ' ':
				cur = (cur + 1) % len(files)
			case 'p':
				cur = (cur - 1 + len(files)) % len(files)
			default:
				continue
			}
			s.draw(sess, files, cur, width())
		}
	}
}

func (s *Server) draw(w io.Writer, files []string, cur, termW int) {
	io.WriteString(w, ansi.ClearScreen())
	io.WriteString(w, ansi.MoveTo(1, 1))

	rel, _ := filepath.Rel(s.root, files[cur])
	fmt.Fprintf(w, "[%d/%d] %s  (n: next, p: prev, q: quit)\r\n", cur+1, len(files), rel)

	f, err := os.Open(files[cur])
	if err != nil {
		fmt.Fprintf(w, "open: %v\r\n", err)
		return
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		fmt.Fprintf(w, "decode: %v\r\n", err)
		return
	}

	art := ansi.RenderImage(img, termW)
	// Sessions need CRLF line endings.
	io.WriteString(w, strings.ReplaceAll(art, "\n", "\r\n"))
}

func (s *Server) listPNGs() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".png") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}
	sort.Strings(files)
	return files, nil
}
