package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
)

func TestKeyInput(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want game.Input
	}{
		{"space toggles", tcell.KeyRune, ' ', game.Input{Toggle: true}},
		{"enter toggles", tcell.KeyEnter, 0, game.Input{Toggle: true}},
		{"q quits", tcell.KeyRune, 'q', game.Input{Quit: true}},
		{"escape quits", tcell.KeyEscape, 0, game.Input{Quit: true}},
		{"ctrl-c quits", tcell.KeyCtrlC, 0, game.Input{Quit: true}},
		{"r resets", tcell.KeyRune, 'r', game.Input{ResetCamera: true}},
		{"left orbits", tcell.KeyLeft, 0, game.Input{OrbitDX: -orbitStep}},
		{"right orbits", tcell.KeyRight, 0, game.Input{OrbitDX: orbitStep}},
		{"up orbits", tcell.KeyUp, 0, game.Input{OrbitDY: -orbitStep}},
		{"down orbits", tcell.KeyDown, 0, game.Input{OrbitDY: orbitStep}},
		{"plus zooms in", tcell.KeyRune, '+', game.Input{Zoom: zoomStep}},
		{"minus zooms out", tcell.KeyRune, '-', game.Input{Zoom: -zoomStep}},
		{"other runes ignored", tcell.KeyRune, 'x', game.Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in game.Input
			keyInput(tt.key, tt.r, &in)
			if in != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, in)
			}
		})
	}
}

func TestKeyInput_DoubleToggleCancels(t *testing.T) {
	var in game.Input
	keyInput(tcell.KeyRune, ' ', &in)
	keyInput(tcell.KeyRune, ' ', &in)
	if in.Toggle {
		t.Error("expected two toggles in one frame to cancel")
	}
}

func TestScreen_DrawSimulation(t *testing.T) {
	cfg := config.Default()
	sim := tcell.NewSimulationScreen("UTF-8")
	scr, err := NewWithScreen(sim, cfg)
	if err != nil {
		t.Fatalf("creating screen: %v", err)
	}
	defer scr.Close()

	cols, rows := scr.Size()
	if cols == 0 || rows == 0 {
		t.Fatalf("expected a sized simulation screen, got %dx%d", cols, rows)
	}

	// First input reports the pixel viewport, two pixels per row
	in := scr.Input()
	if in.Width != cols || in.Height != rows*2 {
		t.Fatalf("expected viewport %dx%d, got %dx%d", cols, rows*2, in.Width, in.Height)
	}
	if again := scr.Input(); again.Width != 0 {
		t.Errorf("expected viewport reported once, got %d", again.Width)
	}

	g := testGame(t, in.Width, in.Height)
	scr.Draw(g.Frame())

	cells, w, h := sim.GetContents()
	if w != cols || h != rows || len(cells) != w*h {
		t.Fatalf("unexpected contents size %dx%d (%d cells)", w, h, len(cells))
	}
	blocks := 0
	for _, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] == halfBlock {
			blocks++
		}
	}
	if blocks < w*(h-3) {
		t.Errorf("expected the scene rows filled with half blocks, got %d", blocks)
	}

	// Close twice is safe
	scr.Close()
}
