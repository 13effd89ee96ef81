// Package loop drives one game session on a terminal: it polls input, steps the
// simulation at a fixed rate and renders the canvas and HUD.
package loop

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/asset"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
)

// Options configures Run. Zero fields get defaults.
type Options struct {
	Settings     config.Settings
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
	Assets       fs.FS // Sprite files; defaults to the embedded sprites
	Rand         *rand.Rand
}

func (o *Options) setDefaults() {
	if o.Settings.Timing.FPS == 0 {
		o.Settings = config.Default()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Assets == nil {
		o.Assets = asset.Files
	}
}

// Run plays a session on r/w until the quit key is pressed, r is exhausted or
// ctx is cancelled. It returns an error only if the terminal fails.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	opts.setDefaults()
	logger := opts.Logger

	loader := asset.NewLoader(ctx, opts.Assets)
	playerSprite := loader.Load(asset.PlayerSprite)
	invaderSprite := loader.Load(asset.InvaderSprite)
	go func() {
		if err := loader.Wait(); err != nil {
			logger.Error("sprite loading failed", "err", err)
		}
	}()

	hud := NewHUD(w, opts.Settings.Keys)
	session := game.NewSession(game.Options{
		Settings:      opts.Settings,
		Rand:          opts.Rand,
		Logger:        logger,
		Sink:          hud,
		PlayerSprite:  playerSprite,
		InvaderSprite: invaderSprite,
	})
	timing := opts.Settings.Timing
	stream := input.StartStream(r, timing.KeyRepeatDelay.Duration, timing.KeyHold.Duration)

	d := newDriver(w, opts, session, hud)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	frameTime := opts.Settings.FrameTime()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		frameStart := time.Now()

		// ===== INPUT PHASE =====
		events, open := stream.Poll(frameStart)
		if !open {
			logger.Debug("input closed")
			break
		}
		if d.handle(events) {
			logger.Debug("quit requested")
			break
		}

		// ===== UPDATE PHASE =====
		if err := d.resize(); err != nil {
			return err
		}
		session.Step(frameStart)

		// ===== DRAW PHASE =====
		if err := d.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// ===== FRAME TIMING =====
		timer.Reset(max(frameTime-time.Since(frameStart), 0))
		select {
		case <-ctx.Done():
			draw.ClearScreen(w)
			return nil
		case <-timer.C:
		}
	}

	draw.ClearScreen(w)
	return nil
}

// driver owns the per-connection rendering state of a session.
type driver struct {
	settings config.Settings
	termSize draw.TermSizeFunc
	bindings input.Bindings
	session  *game.Session
	hud      *HUD
	canvas   *draw.Canvas
	out      *draw.ChunkWriter

	termW, termH int
	lastState    game.State
	dirty        bool // Screen must be cleared before the next frame
}

func newDriver(w io.Writer, opts Options, session *game.Session, hud *HUD) *driver {
	play := opts.Settings.Play
	return &driver{
		settings:  opts.Settings,
		termSize:  opts.TermSizeFunc,
		bindings:  input.NewBindings(opts.Settings.Keys),
		session:   session,
		hud:       hud,
		canvas:    draw.NewScaledCanvas(0, 0, play.Width, play.Height),
		out:       draw.NewChunkWriter(w, 0, 0),
		lastState: session.State(),
		termW:     -1,
		termH:     -1,
	}
}

// handle routes key events. Start and quit are handled here; everything else
// goes to the session. Returns true when the player asked to quit.
func (d *driver) handle(events []input.Event) (quit bool) {
	for _, ev := range events {
		if ev.Down && d.bindings.Matches(ev.Key, input.ActionQuit) {
			return true
		}
		if ev.Down && d.bindings.Matches(ev.Key, input.ActionStart) {
			switch d.session.State() {
			case game.Idle:
				d.session.Start()
				continue
			case game.GameOver:
				d.session.Restart()
				continue
			}
		}
		d.session.HandleKey(ev)
	}
	return false
}

// resize adapts the canvas to the current terminal size.
func (d *driver) resize() error {
	termW, termH, err := d.termSize()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	if termW == d.termW && termH == d.termH {
		return nil
	}
	d.termW, d.termH = termW, termH

	r := d.settings.Render
	renderW, renderH, offCol, offRow := draw.ClampTermSize(termW, termH, r.MaxColumns, r.MaxRows)
	d.canvas.Resize(renderW, renderH)
	d.canvas.SetOffset(offCol, offRow)
	d.out.SetOffset(offCol, offRow)
	d.dirty = true
	return nil
}

// drawFrame renders the session and HUD and flushes the frame.
func (d *driver) drawFrame() error {
	if state := d.session.State(); state != d.lastState {
		d.lastState = state
		d.dirty = true
	}
	if d.dirty {
		d.dirty = false
		d.out.ClearScreen()
		d.canvas.ForceRedraw()
		if err := d.canvas.RenderBorder(d.out); err != nil {
			return err
		}
	}

	d.canvas.Clear()
	d.session.Draw(d.canvas)
	if err := d.canvas.Render(d.out); err != nil {
		return err
	}
	d.hud.Draw(d.out, d.session, d.canvas.TerminalWidth(), d.canvas.TerminalHeight())

	return d.out.Flush()
}
