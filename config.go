package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	"github.com/mastercactapus/pageturner/hid"
	"github.com/mastercactapus/pageturner/pins"
	"github.com/mastercactapus/pageturner/turner"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	GPIO           string `yaml:"GPIO"`
	HID            string `yaml:"HID"`
	DebounceMs     int64  `yaml:"DebounceMs"`
	PollIntervalMs int64  `yaml:"PollIntervalMs"`

	Pins      PinConfig       `yaml:"Pins"`
	Screen    ScreenConfig    `yaml:"Screen"`
	Mouse     MouseConfig     `yaml:"Mouse"`
	Bluetooth BluetoothConfig `yaml:"Bluetooth"`
}

type PinConfig struct {
	Mode  int `yaml:"Mode"`
	Left  int `yaml:"Left"`
	Right int `yaml:"Right"`
	LED   int `yaml:"LED"`
}

type ScreenConfig struct {
	Width  int `yaml:"Width"`
	Height int `yaml:"Height"`
}

type MouseConfig struct {
	MaxStep     int   `yaml:"MaxStep"`
	MinStep     int   `yaml:"MinStep"`
	StepDelayMs int64 `yaml:"StepDelayMs"`
}

type BluetoothConfig struct {
	Alias          string `yaml:"Alias"`
	Adapter        string `yaml:"Adapter"`
	ConfigureBluez bool   `yaml:"ConfigureBluez"`
}

func DefaultConfig() Config {
	s := turner.DefaultSettings()
	return Config{
		GPIO:           string(pins.BackendPeriph),
		HID:            string(hid.LinkBluetooth),
		DebounceMs:     s.Debounce.Milliseconds(),
		PollIntervalMs: s.PollInterval.Milliseconds(),
		Pins: PinConfig{
			Mode:  s.Pins.Mode,
			Left:  s.Pins.Left,
			Right: s.Pins.Right,
			LED:   s.Pins.LED,
		},
		Screen: ScreenConfig{Width: s.Screen.Width, Height: s.Screen.Height},
		Mouse: MouseConfig{
			MaxStep:     s.MaxStep,
			MinStep:     s.MinStep,
			StepDelayMs: s.StepDelay.Milliseconds(),
		},
		Bluetooth: BluetoothConfig{
			Alias:          hid.DefaultAlias,
			ConfigureBluez: true,
		},
	}
}

// LoadConfig reads path over the defaults. Files ending in .yaml or .yml are
// YAML, anything else is TOML. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("Path", path).Warnln("config file not found, using defaults")
		return c, nil
	}
	if err != nil {
		return c, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &c)
		for _, k := range md.Undecoded() {
			log.WithField("Key", k.String()).Warnln("unknown config key")
		}
	}
	if err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c Config) Settings() turner.Settings {
	return turner.Settings{
		Pins: turner.Wiring{
			Mode:  c.Pins.Mode,
			Left:  c.Pins.Left,
			Right: c.Pins.Right,
			LED:   c.Pins.LED,
		},
		Debounce:     c.Debounce(),
		PollInterval: c.PollInterval(),
		Screen:       turner.Geometry{Width: c.Screen.Width, Height: c.Screen.Height},
		MaxStep:      c.Mouse.MaxStep,
		MinStep:      c.Mouse.MinStep,
		StepDelay:    time.Duration(c.Mouse.StepDelayMs) * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if _, err := pins.ParseBackend(c.GPIO); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := hid.ParseLink(c.HID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c Config) bindings() []pins.Binding {
	return []pins.Binding{
		{Label: "mode", Pin: c.Pins.Mode, Runes: []rune{'m', '1'}, Keys: []tcell.Key{tcell.KeyTab}},
		{Label: "left", Pin: c.Pins.Left, Runes: []rune{'a', '2'}, Keys: []tcell.Key{tcell.KeyLeft}},
		{Label: "right", Pin: c.Pins.Right, Runes: []rune{'d', '3'}, Keys: []tcell.Key{tcell.KeyRight}},
	}
}

// OpenPins returns the configured GPIO backend. The terminal backend is also
// returned on its own so the caller can route output to it.
func (c Config) OpenPins() (pins.IO, *pins.Terminal, error) {
	b, err := pins.ParseBackend(c.GPIO)
	if err != nil {
		return nil, nil, err
	}
	switch b {
	case pins.BackendPeriph:
		p, err := pins.NewPeriph()
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case pins.BackendTerminal:
		t, err := pins.NewTerminal(c.bindings(), c.Pins.LED)
		if err != nil {
			return nil, nil, err
		}
		return t, t, nil
	}
	return pins.NewRaspi(), nil, nil
}

func (c Config) OpenHID() (*hid.Combo, error) {
	k, err := hid.ParseLink(c.HID)
	if err != nil {
		return nil, err
	}
	if k == hid.LinkLog {
		return hid.NewCombo(hid.NewLogLink(nil)), nil
	}
	return hid.NewCombo(hid.NewBluetooth(hid.BluetoothConfig{
		Adapter:        c.Bluetooth.Adapter,
		Alias:          c.Bluetooth.Alias,
		ConfigureBluez: c.Bluetooth.ConfigureBluez,
	})), nil
}
