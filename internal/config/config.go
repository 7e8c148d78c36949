package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Window holds window and context settings
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// Camera holds free-look camera tuning and the fixed projection
type Camera struct {
	Position    [3]float32 `toml:"position"`
	FOV         float32    `toml:"fov"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	Speed       float32    `toml:"speed"`
	Sensitivity float64    `toml:"sensitivity"`
}

// Render holds frame settings
type Render struct {
	ClearColor [4]float32 `toml:"clear_color"`
	MaxFPS     int        `toml:"max_fps"` // 0 means unlimited
	Wireframe  bool       `toml:"wireframe"`
}

// Assets holds paths for shaders, textures and models
type Assets struct {
	ShaderDir string `toml:"shader_dir"`
	Texture   string `toml:"texture"`
}

// Config is the full demo configuration
type Config struct {
	Window   Window            `toml:"window"`
	Camera   Camera            `toml:"camera"`
	Render   Render            `toml:"render"`
	Assets   Assets            `toml:"assets"`
	Bindings map[string]string `toml:"bindings"` // action name -> key name
	LogLevel string            `toml:"log_level"`
}

// Default returns the settings used when no config file is given
func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "LearnOpenGL",
			VSync:  true,
		},
		Camera: Camera{
			Position:    [3]float32{0, 0, 3},
			FOV:         45,
			Near:        0.1,
			Far:         100,
			Speed:       3.5,
			Sensitivity: 0.1,
		},
		Render: Render{
			ClearColor: [4]float32{0.4, 0.1, 0.3, 1.0},
		},
		Assets: Assets{
			ShaderDir: "shaders",
			Texture:   "niko.png",
		},
		LogLevel: "info",
	}
}

// Load reads a TOML file over the defaults. A missing file is not an error
// when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s not found: %w", path, err)
		}
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg and clamps out-of-range values.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg.clamp()
	return nil
}

// AspectRatio returns width/height of the configured window
func (c Config) AspectRatio() float32 {
	return float32(c.Window.Width) / float32(c.Window.Height)
}

func (c *Config) clamp() {
	// Clamp to reasonable values
	if c.Window.Width < 64 {
		c.Window.Width = 64
	}
	if c.Window.Height < 64 {
		c.Window.Height = 64
	}
	if c.Camera.FOV < 1 {
		c.Camera.FOV = 1
	}
	if c.Camera.FOV > 179 {
		c.Camera.FOV = 179
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = 0.1
	}
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Far = c.Camera.Near * 1000
	}
	if c.Camera.Speed < 0 {
		c.Camera.Speed = 0
	}
	if c.Camera.Sensitivity < 0 {
		c.Camera.Sensitivity = 0
	}
	if c.Render.MaxFPS < 0 {
		c.Render.MaxFPS = 0
	}
	if c.Render.MaxFPS > 1000 {
		c.Render.MaxFPS = 1000
	}
}

// Encode writes cfg as TOML, used by `learn-gl config` to dump the defaults.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
