// Package player implements app.MediaPlayer back ends.
package player

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	queueSize   = 32
	dialTimeout = 3 * time.Second
)

// MPV drives an mpv process over its JSON IPC socket. mpv is started lazily
// on the first Play and kept idle between entries. Every method only queues
// a command, so the UI loop never waits on the player.
type MPV struct {
	path   string
	socket string
	log    *zap.Logger

	queue chan []any
	once  sync.Once
	done  chan struct{}

	mu   sync.Mutex
	proc *exec.Cmd

	// Replaced in tests.
	spawn func() error
	dial  func() (net.Conn, error)
}

// NewMPV creates a player using the mpv binary at path.
func NewMPV(path string, log *zap.Logger) *MPV {
	if log == nil {
		log = zap.NewNop()
	}
	m := &MPV{
		path:   path,
		socket: filepath.Join(os.TempDir(), "rentreels-mpv-"+uuid.NewString()[:8]+".sock"),
		log:    log,
		queue:  make(chan []any, queueSize),
		done:   make(chan struct{}),
	}
	m.spawn = m.startProcess
	m.dial = m.dialSocket
	return m
}

func (m *MPV) Play(src string) {
	m.send("loadfile", src, "replace")
	m.send("set_property", "pause", false)
}

func (m *MPV) Pause() { m.send("set_property", "pause", true) }
func (m *MPV) Resume() { m.send("set_property", "pause", false) }
func (m *MPV) SetMuted(muted bool) { m.send("set_property", "mute", muted) }
func (m *MPV) Stop() { m.send("stop") }

// Close stops the worker and terminates mpv.
func (m *MPV) Close() error {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.proc != nil && m.proc.Process != nil {
		_ = m.proc.Process.Kill()
		_ = m.proc.Wait()
		m.proc = nil
	}
	_ = os.Remove(m.socket)
	return nil
}

func (m *MPV) send(args ...any) {
	m.once.Do(func() { go m.run() })
	select {
	case m.queue <- args:
	default:
		m.log.Warn("player queue full, dropping command", zap.Any("command", args))
	}
}

func (m *MPV) run() {
	var conn net.Conn
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	for {
		select {
		case <-m.done:
			return
		case cmd := <-m.queue:
			conn = m.deliver(conn, cmd)
		}
	}
}

// deliver writes cmd and returns the connection to keep using. A write on a
// dead socket reconnects and sends cmd once more, so mpv does not miss a
// loadfile or pause.
func (m *MPV) deliver(conn net.Conn, cmd []any) net.Conn {
	for attempt := 1; attempt <= 2; attempt++ {
		if conn == nil {
			c, err := m.connect()
			if err != nil {
				m.log.Error("player unavailable", zap.Error(err))
				return nil
			}
			conn = c
			go func() { _, _ = io.Copy(io.Discard, c) }()
		}
		err := writeCommand(conn, cmd)
		if err == nil {
			return conn
		}
		m.log.Warn("player command failed", zap.Any("command", cmd), zap.Int("attempt", attempt), zap.Error(err))
		conn.Close()
		conn = nil
	}
	return nil
}

func (m *MPV) connect() (net.Conn, error) {
	if c, err := m.dial(); err == nil {
		return c, nil
	}
	if err := m.spawn(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(dialTimeout)
	for {
		c, err := m.dial()
		if err == nil {
			return c, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("connecting to mpv: %w", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (m *MPV) startProcess() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.proc != nil {
		return nil
	}
	cmd := exec.Command(m.path,
		"--idle=yes",
		"--no-terminal",
		"--keep-open=yes",
		"--loop-file=inf",
		"--input-ipc-server="+m.socket,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", m.path, err)
	}
	m.proc = cmd
	m.log.Info("mpv started", zap.Int("pid", cmd.Process.Pid), zap.String("socket", m.socket))
	return nil
}

func (m *MPV) dialSocket() (net.Conn, error) {
	return net.DialTimeout("unix", m.socket, time.Second)
}

type ipcCommand struct {
	Command []any `json:"command"`
}

func writeCommand(w io.Writer, args []any) error {
	line, err := json.Marshal(ipcCommand{Command: args})
	if err != nil {
		return err
	}
	_, err = w.Write(append(line, '\n'))
	return err
}
