package game

import "github.com/pthm-cable/evergreen/config"

// Options configures a Game.
type Options struct {
	Config *config.Config // nil = config.Cfg()
	Seed   int64

	LogStats       bool
	StatsWindowSec float64 // 0 = cfg.Telemetry.StatsWindow
	OutputDir      string  // empty = no CSV output
	Workers        int     // 0 = cfg.Workers.Count
}
