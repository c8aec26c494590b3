// Package config resolves the startup configuration shared by every
// frontend: built-in defaults, then an optional TOML file, then flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Garsondee/pong-wars/internal/sim"
)

// Defaults match the classic 600px board.
const (
	DefaultGridSize   = 24
	DefaultTileSize   = 25
	DefaultDayColor   = "#EE72F1"
	DefaultNightColor = "#21202C"
	DefaultTPS        = 60
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the resolved startup configuration.
type Config struct {
	GridSize   int
	TileSize   int
	DayColor   color.RGBA
	NightColor color.RGBA
	Seed       int64 // 0 picks a time-based seed
	TPS        int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GridSize:   DefaultGridSize,
		TileSize:   DefaultTileSize,
		DayColor:   mustColor(DefaultDayColor),
		NightColor: mustColor(DefaultNightColor),
		TPS:        DefaultTPS,
	}
}

// Validate rejects non-positive sizes and rates.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("%w: grid_size %d must be > 0", ErrInvalid, c.GridSize)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size %d must be > 0", ErrInvalid, c.TileSize)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps %d must be > 0", ErrInvalid, c.TPS)
	}
	return nil
}

// Sim returns the geometry part handed to the simulation.
func (c Config) Sim() sim.Config {
	return sim.Config{GridSize: c.GridSize, TileSize: c.TileSize}
}

// SimOptions returns the simulation options implied by the config.
func (c Config) SimOptions() []sim.Option {
	if c.Seed == 0 {
		return nil
	}
	return []sim.Option{sim.WithSeed(c.Seed)}
}

// TeamColor returns the colour a team's tiles are drawn in. A ball is drawn
// in its own team's colour so it stands out on the opposing territory.
func (c Config) TeamColor(t sim.Team) color.RGBA {
	if t == sim.TeamDay {
		return c.DayColor
	}
	return c.NightColor
}

// fileConfig mirrors the TOML layout. Pointers tell "absent" from zero.
type fileConfig struct {
	GridSize   *int   `toml:"grid_size"`
	TileSize   *int   `toml:"tile_size"`
	DayColor   string `toml:"day_color"`
	NightColor string `toml:"night_color"`
	Seed       *int64 `toml:"seed"`
	TPS        *int   `toml:"tps"`
}

// LoadFile applies the TOML file at path on top of base. Unknown keys are
// an error so typos do not silently fall back to defaults.
func LoadFile(base Config, path string) (Config, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return base, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	cfg, err := fc.apply(base)
	if err != nil {
		return base, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg Config) (Config, error) {
	if fc.GridSize != nil {
		cfg.GridSize = *fc.GridSize
	}
	if fc.TileSize != nil {
		cfg.TileSize = *fc.TileSize
	}
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.TPS != nil {
		cfg.TPS = *fc.TPS
	}
	var err error
	if fc.DayColor != "" {
		if cfg.DayColor, err = ParseColor(fc.DayColor); err != nil {
			return cfg, fmt.Errorf("day_color: %w", err)
		}
	}
	if fc.NightColor != "" {
		if cfg.NightColor, err = ParseColor(fc.NightColor); err != nil {
			return cfg, fmt.Errorf("night_color: %w", err)
		}
	}
	return cfg, nil
}

// ParseColor parses a "#RRGGBB" or "#RGB" hex colour into an opaque RGBA.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: colour %q: %v", ErrInvalid, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func mustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Flags holds the command-line overrides registered on a FlagSet.
type Flags struct {
	fs    *flag.FlagSet
	path  string
	grid  int
	tile  int
	tps   int
	seed  int64
	day   string
	night string
}

// RegisterFlags adds the shared configuration flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.path, "config", "", "path to a TOML config file")
	fs.IntVar(&f.grid, "grid", DefaultGridSize, "tiles per board side")
	fs.IntVar(&f.tile, "tile", DefaultTileSize, "tile edge in pixels")
	fs.IntVar(&f.tps, "tps", DefaultTPS, "simulation ticks per second")
	fs.Int64Var(&f.seed, "seed", 0, "spawn RNG seed (0 = time based)")
	fs.StringVar(&f.day, "day", DefaultDayColor, "day team colour (hex)")
	fs.StringVar(&f.night, "night", DefaultNightColor, "night team colour (hex)")
	return f
}

// Resolve builds the final Config after fs has been parsed: defaults, then
// the -config file, then any flag given explicitly on the command line.
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.path != "" {
		var err error
		if cfg, err = LoadFile(cfg, f.path); err != nil {
			return cfg, err
		}
	}

	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "grid":
			cfg.GridSize = f.grid
		case "tile":
			cfg.TileSize = f.tile
		case "tps":
			cfg.TPS = f.tps
		case "seed":
			cfg.Seed = f.seed
		case "day":
			cfg.DayColor, err = ParseColor(f.day)
		case "night":
			cfg.NightColor, err = ParseColor(f.night)
		}
	})
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
