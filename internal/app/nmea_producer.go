package app

import (
	"bufio"
	"log"
	"time"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/marine_dashboard/internal/config"
	"github.com/relabs-tech/marine_dashboard/internal/gps"
)

// RunNMEAProducer opens the NMEA serial port, translates each sentence into
// a batch of updates and publishes it to the updates topic.
func RunNMEAProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	client, err := connectMQTT("nmea", cfg.MQTTBroker, cfg.MQTTClientIDNMEA)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// ---- 2) Open NMEA serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Printf("nmea: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	reader := bufio.NewReader(port)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("nmea: read error: %v", err)
			return err
		}

		batch, err := gps.ParseLine(line, time.Now())
		if err != nil {
			// noisy instruments send partial sentences; skip them
			continue
		}
		if len(batch) == 0 {
			continue
		}

		if err := publishBatch(client, cfg.TopicUpdates, batch); err != nil {
			log.Printf("nmea: MQTT publish error: %v", err)
			continue
		}
	}
}
