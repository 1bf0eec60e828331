// Package config loads the YAML configuration of the puzzle tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/kass/mercator-puzzle/pkg/bounds"
	"github.com/kass/mercator-puzzle/pkg/continents"
	"github.com/kass/mercator-puzzle/pkg/game"
	"github.com/kass/mercator-puzzle/pkg/loader"
	"github.com/kass/mercator-puzzle/pkg/models"
)

// Config structure for YAML configuration
type Config struct {
	Game struct {
		Continent  string `yaml:"continent"`
		LapPortion int    `yaml:"lap_portion"`
		Seed       int64  `yaml:"seed"`
	} `yaml:"game"`
	Map struct {
		MaxLatitude float64          `yaml:"max_latitude"`
		Viewport    *models.Viewport `yaml:"viewport"`
	} `yaml:"map"`
	Data struct {
		GeoJSON    string   `yaml:"geojson"`
		Exclude    []string `yaml:"exclude"`
		Results    string   `yaml:"results"`
		Placements string   `yaml:"placements"`
	} `yaml:"data"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Game.LapPortion = game.DefaultLapPortion
	c.Map.MaxLatitude = bounds.DefaultMaxMapLatitude
	c.Data.GeoJSON = "countries.geo.json"
	c.Data.Exclude = append([]string(nil), loader.DefaultExclude...)
	c.Data.Results = "results.gob"
	c.Data.Placements = "placements.gob"
	c.Log.Level = "info"
	return c
}

// Load reads a YAML file over the defaults
func Load(filename string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return c, nil
}

// LoadFirst loads the first existing file of filenames and returns its name.
// When none exists the defaults are returned with an empty name.
func LoadFirst(filenames ...string) (Config, string, error) {
	for _, filename := range filenames {
		c, err := Load(filename)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return c, filename, err
		}
		return c, filename, nil
	}
	return Default(), "", nil
}

// Validate checks value ranges and names
func (c Config) Validate() error {
	if c.Game.LapPortion <= 0 {
		return fmt.Errorf("lap_portion must be positive, got %d", c.Game.LapPortion)
	}
	if c.Map.MaxLatitude <= 0 || c.Map.MaxLatitude >= 90 {
		return fmt.Errorf("max_latitude must be in (0, 90), got %g", c.Map.MaxLatitude)
	}
	if c.Game.Continent != "" {
		if _, ok := continents.ByName(c.Game.Continent); !ok {
			return fmt.Errorf("unknown continent %q", c.Game.Continent)
		}
	}
	if vp := c.Map.Viewport; vp != nil {
		if vp.Northeast.Lat <= vp.Southwest.Lat {
			return errors.New("viewport northeast must be north of southwest")
		}
		if vp.Northeast.Lat > c.Map.MaxLatitude || vp.Southwest.Lat < -c.Map.MaxLatitude {
			return fmt.Errorf("viewport exceeds max_latitude %g", c.Map.MaxLatitude)
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// LogLevel returns the configured zerolog level.
func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Continent returns the configured continent. The zero Continent, meaning the
// whole world, is returned when none is set.
func (c Config) Continent() continents.Continent {
	k, _ := continents.ByName(c.Game.Continent)
	return k
}

// Viewport returns the explicit viewport, or the continent's, or the world.
func (c Config) Viewport() models.Viewport {
	if c.Map.Viewport != nil {
		return *c.Map.Viewport
	}
	if k := c.Continent(); k.Outline.Valid() {
		return k.Viewport()
	}
	vp := models.WorldViewport()
	vp.Northeast.Lat = c.Map.MaxLatitude
	vp.Southwest.Lat = -c.Map.MaxLatitude
	return vp
}
