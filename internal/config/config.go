package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"SiteViewer/internal/renderer"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration file.
type Config struct {
	Window  Window  `yaml:"window"`
	Scene   Scene   `yaml:"scene"`
	Camera  Camera  `yaml:"camera"`
	Overlay Overlay `yaml:"overlay"`
	Log     Log     `yaml:"log"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// X and Y place the window on screen. Both must be set to take effect.
	X *int `yaml:"x"`
	Y *int `yaml:"y"`
}

// Position returns the configured window position, if any.
func (w Window) Position() (x, y int, ok bool) {
	if w.X == nil || w.Y == nil {
		return 0, 0, false
	}
	return *w.X, *w.Y, true
}

// Scene locates the model that is placed on the site.
type Scene struct {
	Path string `yaml:"path"`
	File string `yaml:"file"`
	// RecalculateNormals ignores normals stored in the model file.
	RecalculateNormals bool `yaml:"recalculate_normals"`
}

// Camera holds the initial distance and the input step sizes. Angles are in
// degrees.
type Camera struct {
	Distance         float32 `yaml:"distance"`
	MinDistance      float32 `yaml:"min_distance"`
	RotationStep     float32 `yaml:"rotation_step"`
	DistanceStep     float32 `yaml:"distance_step"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

type Overlay struct {
	Font   string     `yaml:"font"`
	Size   float64    `yaml:"size"`
	Color  [3]uint8   `yaml:"color"`
	Labels []LabelDef `yaml:"labels"`
}

// LabelDef is one line of overlay text, in pixels relative to the overlay
// viewport.
type LabelDef struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Text string `yaml:"text"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "SiteViewer",
			Width:  1024,
			Height: 768,
		},
		Scene: Scene{
			Path: "assets/models/truck",
			File: "truck.obj",
		},
		Camera: Camera{
			Distance:         renderer.DefaultSceneDistance,
			MinDistance:      100,
			RotationStep:     5,
			DistanceStep:     500,
			MouseSensitivity: 0.25,
		},
		Overlay: Overlay{
			Font:  "Verdana",
			Size:  renderer.DefaultFontSize,
			Color: [3]uint8{255, 0, 0},
			Labels: []LabelDef{
				{X: 0, Y: 200, Text: "Course: Computer Graphics"},
				{X: 0, Y: 165, Text: "School year: 2021/22"},
				{X: 0, Y: 130, Text: "Scene: construction site"},
				{X: 0, Y: 95, Text: "Model: truck"},
				{X: 0, Y: 60, Text: "Assignment: 5.2"},
			},
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults with an empty Source; unknown keys and invalid values are errors.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.Source = path

	if err := Decode(bytes.NewReader(data), cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML from r onto cfg. An empty document leaves cfg as is.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Scene.File == "" {
		return errors.New("scene.file is required")
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("camera.distance %v must be positive", c.Camera.Distance)
	}
	if c.Camera.MinDistance < 0 || c.Camera.MinDistance > c.Camera.Distance {
		return fmt.Errorf("camera.min_distance %v must be between 0 and camera.distance", c.Camera.MinDistance)
	}
	if c.Overlay.Size <= 0 {
		return fmt.Errorf("overlay.size %v must be positive", c.Overlay.Size)
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ToLabels converts the overlay section into drawable labels.
func (o Overlay) ToLabels() []renderer.Label {
	color := renderer.RGB8(o.Color[0], o.Color[1], o.Color[2])
	labels := make([]renderer.Label, 0, len(o.Labels))
	for _, l := range o.Labels {
		labels = append(labels, renderer.Label{
			X:     l.X,
			Y:     l.Y,
			Font:  o.Font,
			Size:  o.Size,
			Color: color,
			Text:  l.Text,
		})
	}
	return labels
}
