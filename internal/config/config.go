// Package config loads the environment-variable-driven settings that shape
// a fresh Context: the Dialect (internal/context) and the core library's
// bootstrap level and opt-out bitmask (spec §4.11).
//
// Grounded on the teacher's indirect github.com/caarlos0/env/v6 dependency
// (pulled in transitively through github.com/mna/mainer's own config
// loading), promoted here to a direct, TeaScript-specific use, and on
// original_source/include/teascript/Dialect.hpp for the default values
// internal/context.Dialect reproduces.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/teascript-go/teascript/internal/context"
)

// Level is the core library bootstrap stage (spec §4.11): each stage loads
// a superset of the previous stage's globals and TeaScript source bundles.
// Ordered numerically (LevelMinimal < LevelUtil < LevelCore < LevelFull) so
// corelib can gate a registration on `level >= config.LevelUtil`, mirroring
// original_source/include/teascript/CoreLibrary.hpp's own
// `core_level >= config::LevelUtil`-style guards throughout its bootstrap.
type Level int

const (
	LevelMinimal Level = iota
	LevelUtil
	LevelCore
	LevelFull
)

func (l Level) String() string {
	switch l {
	case LevelMinimal:
		return "minimal"
	case LevelUtil:
		return "util"
	case LevelCore:
		return "core"
	case LevelFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseLevel parses one of "minimal"/"util"/"core"/"full" into a Level,
// for callers (such as the CLI's --level flag) that source it from outside
// the environment-variable path Load reads.
func ParseLevel(s string) (Level, error) {
	lvl, ok := levelFromString(s)
	if !ok {
		return 0, fmt.Errorf("config: unknown bootstrap level %q", s)
	}
	return lvl, nil
}

func levelFromString(s string) (Level, bool) {
	switch s {
	case "minimal":
		return LevelMinimal, true
	case "util":
		return LevelUtil, true
	case "core":
		return LevelCore, true
	case "full":
		return LevelFull, true
	default:
		return 0, false
	}
}

// OptOut is a bitmask of individually disableable core library features
// (spec §4.11).
type OptOut uint16

const (
	NoStdout OptOut = 1 << iota
	NoStderr
	NoFileRead
	NoFileWrite
	NoFileDelete
	NoEval
)

// Has reports whether mask disables feature o.
func (mask OptOut) Has(o OptOut) bool { return mask&o != 0 }

// Settings is the full set of environment-loadable TeaScript configuration:
// the grammar/semantics Dialect plus the core library's staged-bootstrap
// controls.
type Settings struct {
	Dialect context.Dialect

	LevelName string `env:"TEASCRIPT_BOOTSTRAP_LEVEL" envDefault:"full"`
	Level     Level  // derived from LevelName by Load; env package ignores untagged fields

	NoStdout     bool `env:"TEASCRIPT_NO_STDOUT" envDefault:"false"`
	NoStderr     bool `env:"TEASCRIPT_NO_STDERR" envDefault:"false"`
	NoFileRead   bool `env:"TEASCRIPT_NO_FILE_READ" envDefault:"false"`
	NoFileWrite  bool `env:"TEASCRIPT_NO_FILE_WRITE" envDefault:"false"`
	NoFileDelete bool `env:"TEASCRIPT_NO_FILE_DELETE" envDefault:"false"`
	NoEval       bool `env:"TEASCRIPT_NO_EVAL" envDefault:"false"`
}

// Load reads Settings from the process environment, falling back to the
// official TeaScript dialect's defaults for any unset variable.
func Load() (Settings, error) {
	s := Settings{Dialect: context.DefaultDialect()}
	if err := env.Parse(&s); err != nil {
		return Settings{}, err
	}
	lvl, ok := levelFromString(s.LevelName)
	if !ok {
		return Settings{}, fmt.Errorf("config: unknown bootstrap level %q", s.LevelName)
	}
	s.Level = lvl
	return s, nil
}

// OptOutMask collapses the individual No* toggles into the bitmask
// corelib's registration table filters on.
func (s Settings) OptOutMask() OptOut {
	var mask OptOut
	if s.NoStdout {
		mask |= NoStdout
	}
	if s.NoStderr {
		mask |= NoStderr
	}
	if s.NoFileRead {
		mask |= NoFileRead
	}
	if s.NoFileWrite {
		mask |= NoFileWrite
	}
	if s.NoFileDelete {
		mask |= NoFileDelete
	}
	if s.NoEval {
		mask |= NoEval
	}
	return mask
}
