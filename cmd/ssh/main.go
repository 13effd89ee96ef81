package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(os.Stderr, config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(logger); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	settings, err := config.Load(config.GetEnv("INVADERS_CONFIG", ""))
	if err != nil {
		return err
	}
	logger.Info("ssh config", "host", host, "port", port, "host_key", hostKeyPath)

	// Cancelled on shutdown; every running session derives from it
	gameCtx, stopGames := context.WithCancel(context.Background())
	defer stopGames()

	games := &gameHandler{
		ctx:      gameCtx,
		settings: settings,
		logger:   logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("shutting down server")

	// End every game so sessions restore their terminals and return
	stopGames()
	games.wait(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// gameHandler runs an independent game for every SSH session.
type gameHandler struct {
	ctx      context.Context
	settings config.Settings
	logger   *log.Logger

	mu     sync.Mutex
	closed bool // Set once shutdown starts; no new games after that
	active sync.WaitGroup
}

// begin registers a new game. It returns false once shutdown has started.
func (g *gameHandler) begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.active.Add(1)
	return true
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		if !g.begin() {
			fmt.Fprintln(sess, "Server is shutting down.")
			return
		}
		defer g.active.Done()

		logger := g.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("game session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		stop := context.AfterFunc(g.ctx, cancel)
		defer stop()

		if err := loop.Run(ctx, bufio.NewReader(sess), sess, loop.Options{
			Settings:     g.settings,
			Logger:       logger,
			TermSizeFunc: sizeTracker.getSize,
		}); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("game session ended")
		next(sess)
	}
}

// wait blocks until every session has returned or the timeout expires.
func (g *gameHandler) wait(timeout time.Duration) {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		g.active.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(timeout):
		g.logger.Warn("sessions still running after shutdown timeout")
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
