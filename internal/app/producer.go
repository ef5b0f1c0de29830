package app

import (
	"log"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/config"
	"github.com/relabs-tech/marine_dashboard/internal/sim"
)

// RunMockProducer publishes the simulated vessel to the updates topic.
func RunMockProducer() error {
	cfg := config.Get()

	client, err := connectMQTT("producer", cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	src := sim.NewMockSource(cfg.MockLatitude, cfg.MockLongitude)
	ticker := time.NewTicker(time.Duration(cfg.ProducerInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		batch, err := src.Next()
		if err != nil {
			log.Printf("producer: error from mock source: %v", err)
			continue
		}
		if err := publishBatch(client, cfg.TopicUpdates, batch); err != nil {
			log.Printf("producer: MQTT publish error: %v", err)
			continue
		}
		log.Printf("%s producer: published %d updates", t.Format(time.RFC3339), len(batch))
	}
	return nil
}
