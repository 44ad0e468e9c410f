// Package script runs a game headlessly from a YAML list of commands and
// waits. With a fixed seed the outcome is fully reproducible, which makes
// scripts useful for regression checks and for demoing the engine.
//
//	seed: 42
//	steps:
//	  - cmd: left
//	    repeat: 3
//	  - wait: 1500ms
//	  - cmd: hard
package script

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Script is a parsed command script.
type Script struct {
	Seed       int64  `yaml:"seed"`
	Player     string `yaml:"player"`
	Difficulty string `yaml:"difficulty"`
	Steps      []Step `yaml:"steps"`
}

// Step is either a command, optionally repeated, or a wait that feeds
// elapsed time into the game.
type Step struct {
	Cmd    string        `yaml:"cmd,omitempty"`
	Repeat int           `yaml:"repeat,omitempty"`
	Wait   time.Duration `yaml:"wait,omitempty"`
}

// Result summarizes a finished run.
type Result struct {
	Applied  int
	Rejected int
	Elapsed  time.Duration
	Final    tetris.Snapshot
}

// Load reads and validates a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: failed to read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("script: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("invalid yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

func (s Script) validate() error {
	var errs []error
	if _, err := config.ParsePreset(s.Difficulty); err != nil {
		errs = append(errs, err)
	}
	for i, st := range s.Steps {
		switch {
		case st.Cmd != "" && st.Wait != 0:
			errs = append(errs, fmt.Errorf("step %d: cmd and wait are exclusive", i+1))
		case st.Cmd != "":
			if _, err := tetris.ParseCommand(st.Cmd); err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
			}
		case st.Wait < 0:
			errs = append(errs, fmt.Errorf("step %d: negative wait %s", i+1, st.Wait))
		case st.Wait == 0:
			errs = append(errs, fmt.Errorf("step %d: empty step", i+1))
		}
		if st.Repeat < 0 {
			errs = append(errs, fmt.Errorf("step %d: negative repeat %d", i+1, st.Repeat))
		}
	}
	return errors.Join(errs...)
}

// Run plays the script against g and stops early if the game ends.
// Unknown commands count as rejected.
func (s Script) Run(g *tetris.Game) Result {
	var res Result
	for _, st := range s.Steps {
		if g.Over() {
			break
		}
		cmd, _ := tetris.ParseCommand(st.Cmd)
		n := max(st.Repeat, 1)
		for range n {
			if g.Over() {
				break
			}
			if st.Cmd == "" {
				g.Advance(st.Wait)
				res.Elapsed += st.Wait
				continue
			}
			if g.Apply(cmd) {
				res.Applied++
			} else {
				res.Rejected++
			}
		}
	}
	res.Final = g.Snapshot()
	return res
}
