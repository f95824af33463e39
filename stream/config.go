package stream

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds the settings for a vistx process.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Topics   struct {
			Specs  string `yaml:"specs"`
			Frames string `yaml:"frames"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel"`
	} `yaml:"redis"`
	Canvas struct {
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
		Background string `yaml:"background"`
	} `yaml:"canvas"`
	Player struct {
		FPS        float64 `yaml:"fps"`
		PublishFPS float64 `yaml:"publishFps"`
		Lint       bool    `yaml:"lint"`
	} `yaml:"player"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
}

// DefaultConfig returns the settings used for anything a config file leaves out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "vistx"
	c.Mqtt.Topics.Specs = "vistx/specs"
	c.Mqtt.Topics.Frames = "vistx/frames"
	c.Redis.Channel = "vistx:specs"
	c.Canvas.Width = 480
	c.Canvas.Height = 360
	c.Canvas.Background = "#000"
	c.Player.FPS = 60
	c.Player.PublishFPS = 10
	c.Player.Lint = true
	c.HTTP.Addr = ":3000"
	return c
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config read failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config parse failed: %w", err)
	}
	return c, nil
}

// LoadEnvFile exports the variables in a dotenv file. A missing file is not
// an error; variables already set in the environment win.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays VISTX_* variables found by lookup, normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"VISTX_MQTT_URL":          &c.Mqtt.URL,
		"VISTX_MQTT_USERNAME":     &c.Mqtt.Username,
		"VISTX_MQTT_PASSWORD":     &c.Mqtt.Password,
		"VISTX_MQTT_CLIENT_ID":    &c.Mqtt.ClientID,
		"VISTX_MQTT_SPECS_TOPIC":  &c.Mqtt.Topics.Specs,
		"VISTX_MQTT_FRAMES_TOPIC": &c.Mqtt.Topics.Frames,
		"VISTX_REDIS_ADDR":        &c.Redis.Addr,
		"VISTX_REDIS_PASSWORD":    &c.Redis.Password,
		"VISTX_REDIS_CHANNEL":     &c.Redis.Channel,
		"VISTX_CANVAS_BACKGROUND": &c.Canvas.Background,
		"VISTX_HTTP_ADDR":         &c.HTTP.Addr,
	}
	for k, dst := range strs {
		if v, ok := lookup(k); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"VISTX_REDIS_DB":      &c.Redis.DB,
		"VISTX_CANVAS_WIDTH":  &c.Canvas.Width,
		"VISTX_CANVAS_HEIGHT": &c.Canvas.Height,
	}
	for k, dst := range ints {
		if v, ok := lookup(k); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"VISTX_FPS":         &c.Player.FPS,
		"VISTX_PUBLISH_FPS": &c.Player.PublishFPS,
	}
	for k, dst := range floats {
		if v, ok := lookup(k); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*dst = f
		}
	}

	if v, ok := lookup("VISTX_LINT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VISTX_LINT: %w", err)
		}
		c.Player.Lint = b
	}
	return nil
}
