package app

import (
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/marine_dashboard/internal/config"
	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

const (
	displayLines = 4
	displayCols  = 18 // 128px / 7px glyphs
)

// basicfont only has ASCII glyphs
var displayReplacer = strings.NewReplacer("°", "*", "º", "*")

// RunDisplay repeats selected dashboard rows on two SSD1306 OLEDs.
func RunDisplay() error {
	cfg := config.Get()

	store, err := vessel.NewStore(cfg.Options())
	if err != nil {
		return fmt.Errorf("dashboard configuration: %w", err)
	}

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	// Initialize left display
	leftDisplay, err := newDisplay(bus, cfg.DisplayLeftI2CAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize left display: %w", err)
	}
	log.Printf("display: left display initialized at 0x%02X", cfg.DisplayLeftI2CAddr)

	// Initialize right display
	rightDisplay, err := newDisplay(bus, cfg.DisplayRightI2CAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize right display: %w", err)
	}
	log.Printf("display: right display initialized at 0x%02X", cfg.DisplayRightI2CAddr)

	// Show splash screens
	if err := drawLines(leftDisplay, []string{"", "Marine Dash", "Waiting for", "telemetry"}); err != nil {
		log.Printf("display: error showing left splash: %v", err)
	}
	if err := drawLines(rightDisplay, []string{"", "Marine Dash", "", cfg.TopicUpdates}); err != nil {
		log.Printf("display: error showing right splash: %v", err)
	}

	// Connect to MQTT
	client, err := connectMQTT("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeUpdates("display", client, cfg.TopicUpdates, store); err != nil {
		return err
	}

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	var drawn uint64
	for range ticker.C {
		v := store.Current()
		if v.Seq == drawn {
			continue
		}
		drawn = v.Seq

		if err := drawLines(leftDisplay, displayText(v, cfg.DisplayLeftPaths)); err != nil {
			log.Printf("display: error updating left display: %v", err)
		}
		if err := drawLines(rightDisplay, displayText(v, cfg.DisplayRightPaths)); err != nil {
			log.Printf("display: error updating right display: %v", err)
		}
	}

	return nil
}

// addrBus sends every transaction to addr. ssd1306.NewI2C always talks to
// 0x3C; the second display is strapped to another address.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

// newDisplay initializes an SSD1306 at addr on bus.
func newDisplay(bus i2c.Bus, addr uint16) (*ssd1306.Dev, error) {
	return ssd1306.NewI2C(addrBus{Bus: bus, addr: addr}, &ssd1306.DefaultOpts)
}

// displayText renders up to four "LABEL VALUE" lines for the given paths.
// Paths not received yet show "...".
func displayText(v *vessel.View, ids []paths.ID) []string {
	lines := make([]string, 0, displayLines)
	for _, id := range ids {
		if len(lines) == displayLines {
			break
		}
		label := string(id)
		if m, ok := paths.Defaults.Lookup(id); ok {
			label = m.Label
		}
		value := "..."
		if rec, ok := v.Formatted.Get(id); ok {
			value = rec.Value
		}
		if len(label) > 4 {
			label = label[:4]
		}
		line := displayReplacer.Replace(fmt.Sprintf("%-4s %s", label, value))
		if len(line) > displayCols {
			line = line[:displayCols]
		}
		lines = append(lines, line)
	}
	return lines
}

func drawLines(dev *ssd1306.Dev, lines []string) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for i, line := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
