package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/units"
	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDWeb      string
	MQTTClientIDConsole  string
	MQTTClientIDProducer string
	MQTTClientIDNMEA     string
	MQTTClientIDDisplay  string

	// Topics
	TopicUpdates string

	// NMEA serial input
	GPSSerialPort string
	GPSBaudRate   int

	// Timing
	ConsoleLogInterval int // milliseconds
	ProducerInterval   int // milliseconds

	// Mock vessel start position
	MockLatitude  float64
	MockLongitude float64

	// Web Server
	WebServerPort int
	WebStaticDir  string

	// Dashboard
	DisplayOrder  []paths.ID
	UnitOverrides map[units.Group]units.Unit

	// OLED repeater
	DisplayLeftI2CAddr    uint16
	DisplayRightI2CAddr   uint16
	DisplayUpdateInterval int // milliseconds
	DisplayLeftPaths      []paths.ID
	DisplayRightPaths     []paths.ID
}

// Package-level singleton: set once by InitGlobal, read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		MQTTClientIDWeb:       "marine-web-subscriber",
		MQTTClientIDConsole:   "marine-console-subscriber",
		MQTTClientIDProducer:  "marine-producer-mock",
		MQTTClientIDNMEA:      "marine-nmea-producer",
		MQTTClientIDDisplay:   "marine-display-subscriber",
		GPSBaudRate:           4800,
		ConsoleLogInterval:    1000,
		ProducerInterval:      1000,
		WebServerPort:         8080,
		WebStaticDir:          "web",
		UnitOverrides:         map[units.Group]units.Unit{},
		DisplayLeftI2CAddr:    0x3C,
		DisplayRightI2CAddr:   0x3D,
		DisplayUpdateInterval: 500,
		DisplayLeftPaths:      []paths.ID{paths.Latitude, paths.Longitude, paths.SpeedOverGround, paths.CourseOverGround},
		DisplayRightPaths:     []paths.ID{paths.Depth, paths.WindSpeedApparent, paths.WindAngleApparent, paths.WaterTemperature},
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines. Empty lines and lines starting with # are skipped.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	if g, ok := strings.CutPrefix(key, "UNIT_"); ok {
		group, err := units.ParseGroup(strings.ToLower(g))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		c.UnitOverrides[group] = units.Unit(value)
		return nil
	}

	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_NMEA":
		c.MQTTClientIDNMEA = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_UPDATES":
		c.TopicUpdates = value

	// NMEA serial input
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Timing
	case "CONSOLE_LOG_INTERVAL":
		interval, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.ConsoleLogInterval = interval
	case "PRODUCER_INTERVAL":
		interval, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.ProducerInterval = interval

	case "MOCK_LATITUDE":
		lat, err := strconv.ParseFloat(value, 64)
		if err != nil || lat < -90 || lat > 90 {
			return fmt.Errorf("invalid MOCK_LATITUDE %q", value)
		}
		c.MockLatitude = lat
	case "MOCK_LONGITUDE":
		lon, err := strconv.ParseFloat(value, 64)
		if err != nil || lon < -180 || lon > 180 {
			return fmt.Errorf("invalid MOCK_LONGITUDE %q", value)
		}
		c.MockLongitude = lon

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// Dashboard
	case "DISPLAY_ORDER":
		c.DisplayOrder = pathList(value)

	// OLED repeater
	case "DISPLAY_LEFT_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_LEFT_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayLeftI2CAddr = uint16(addr)
	case "DISPLAY_RIGHT_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_RIGHT_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayRightI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.DisplayUpdateInterval = interval
	case "DISPLAY_LEFT_PATHS":
		c.DisplayLeftPaths = pathList(value)
	case "DISPLAY_RIGHT_PATHS":
		c.DisplayRightPaths = pathList(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func positiveInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

// pathList splits a comma-separated list of paths, dropping empty items.
func pathList(value string) []paths.ID {
	var ids []paths.ID
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ids = append(ids, paths.ID(item))
		}
	}
	return ids
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicUpdates == "" {
		return fmt.Errorf("TOPIC_UPDATES is required")
	}
	if err := paths.Defaults.ValidateOrder(c.DisplayOrder); err != nil {
		return fmt.Errorf("DISPLAY_ORDER: %w", err)
	}
	if err := paths.Defaults.ValidateOrder(c.DisplayLeftPaths); err != nil {
		return fmt.Errorf("DISPLAY_LEFT_PATHS: %w", err)
	}
	if err := paths.Defaults.ValidateOrder(c.DisplayRightPaths); err != nil {
		return fmt.Errorf("DISPLAY_RIGHT_PATHS: %w", err)
	}
	if _, err := units.NewPolicy(c.UnitOverrides); err != nil {
		return fmt.Errorf("unit overrides: %w", err)
	}
	return nil
}

// Options returns the dashboard core configuration.
func (c *Config) Options() vessel.Options {
	return vessel.Options{
		DisplayOrder:  c.DisplayOrder,
		UnitOverrides: c.UnitOverrides,
	}
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
