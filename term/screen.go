// Package term is the terminal surface: it renders frames with half-block
// characters through tcell and maps keys to game input.
package term

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
)

const (
	halfBlock = '▀'

	orbitStep = 25.0 // pixels of drag per arrow press
	zoomStep  = 1.0

	maxTerminalFPS = 30
)

// Screen is a game.Surface backed by a tcell screen.
type Screen struct {
	screen tcell.Screen
	title  string

	events chan tcell.Event
	quit   chan struct{}

	cols, rows int
	resized    bool
	closing    bool

	frameDur time.Duration
	last     time.Time

	canvas *Canvas
}

// New opens the terminal.
func New(cfg *config.Config) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(s, cfg)
}

// NewWithScreen initialises s and starts reading its events.
func NewWithScreen(s tcell.Screen, cfg *config.Config) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("initialising screen: %w", err)
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()

	fps := cfg.Screen.TargetFPS
	if fps <= 0 || fps > maxTerminalFPS {
		fps = maxTerminalFPS
	}

	t := &Screen{
		screen:   s,
		title:    cfg.Screen.Title,
		events:   make(chan tcell.Event, 64),
		quit:     make(chan struct{}),
		resized:  true,
		frameDur: time.Second / time.Duration(fps),
		canvas:   NewCanvas(0, 0),
	}
	t.cols, t.rows = s.Size()
	go t.poll()
	return t, nil
}

// poll forwards screen events until the screen is finalised.
func (t *Screen) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// ShouldClose reports whether quit was requested by a signal key.
func (t *Screen) ShouldClose() bool {
	return t.closing
}

// FrameTime paces the loop to the target rate and returns the time since the
// previous frame in seconds.
func (t *Screen) FrameTime() float32 {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		return float32(t.frameDur.Seconds())
	}
	if wait := t.frameDur - now.Sub(t.last); wait > 0 {
		time.Sleep(wait)
		now = time.Now()
	}
	dt := now.Sub(t.last)
	t.last = now
	return float32(dt.Seconds())
}

// Input drains pending events into one frame of input.
func (t *Screen) Input() game.Input {
	var in game.Input
	for {
		select {
		case ev := <-t.events:
			t.apply(ev, &in)
		default:
			if t.resized {
				in.Width, in.Height = t.cols, t.rows*2
				t.resized = false
			}
			return in
		}
	}
}

// apply folds one event into in.
func (t *Screen) apply(ev tcell.Event, in *game.Input) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		t.cols, t.rows = ev.Size()
		t.resized = true
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			t.closing = true
		}
		keyInput(ev.Key(), ev.Rune(), in)
	}
}

// keyInput maps one key press onto in.
func keyInput(key tcell.Key, r rune, in *game.Input) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		in.Quit = true
	case tcell.KeyLeft:
		in.OrbitDX -= orbitStep
	case tcell.KeyRight:
		in.OrbitDX += orbitStep
	case tcell.KeyUp:
		in.OrbitDY -= orbitStep
	case tcell.KeyDown:
		in.OrbitDY += orbitStep
	case tcell.KeyEnter:
		in.Toggle = !in.Toggle
	case tcell.KeyRune:
		switch r {
		case ' ':
			// Two presses within one frame cancel out
			in.Toggle = !in.Toggle
		case 'q', 'Q':
			in.Quit = true
		case 'r', 'R':
			in.ResetCamera = true
		case '+', '=':
			in.Zoom += zoomStep
		case '-', '_':
			in.Zoom -= zoomStep
		}
	}
}

// Draw renders one frame: the scene in half blocks with the title and status
// overlaid.
func (t *Screen) Draw(f *game.Frame) {
	t.canvas.Resize(t.cols, t.rows*2)
	t.canvas.Rasterize(f)

	for y := 0; y < t.rows; y++ {
		for x := 0; x < t.cols; x++ {
			top := t.canvas.At(x, 2*y)
			bottom := t.canvas.At(x, 2*y+1)
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	gold := tcell.NewRGBColor(255, 215, 0)
	t.text(0, t.title, tcell.StyleDefault.Foreground(gold).Bold(true))

	action := "ASSEMBLE"
	if f.State == components.StateFormed {
		action = "DISPERSE"
	}
	t.text(t.rows-2, fmt.Sprintf("[ %s ]  STATUS: %s  %3.0f%%", action, f.State, f.Progress*100),
		tcell.StyleDefault.Foreground(gold))
	t.text(t.rows-1, "space toggle  arrows orbit  +/- zoom  r reset  q quit",
		tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 150, 150)))

	t.screen.Show()
}

// text writes s centred on row, keeping the cell backgrounds already drawn.
func (t *Screen) text(row int, s string, style tcell.Style) {
	if row < 0 || row >= t.rows {
		return
	}
	x := (t.cols - utf8.RuneCountInString(s)) / 2
	if x < 0 {
		x = 0
	}
	_, bg, _ := style.Decompose()
	for _, r := range s {
		if x >= t.cols {
			return
		}
		cellStyle := style
		if bg == tcell.ColorDefault {
			cellStyle = style.Background(rgb(t.canvas.At(x, 2*row+1)))
		}
		t.screen.SetContent(x, row, r, nil, cellStyle)
		x++
	}
}

// Close stops the event reader and restores the terminal.
func (t *Screen) Close() {
	select {
	case <-t.quit:
		return
	default:
	}
	close(t.quit)
	t.screen.Fini()
}

// Size returns the terminal size in cells.
func (t *Screen) Size() (cols, rows int) {
	return t.cols, t.rows
}

func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
