// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

// connectMQTT connects to the broker and blocks until the connection is up.
func connectMQTT(component, broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("%s: MQTT connection lost: %v", component, err)
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Printf("%s: connected to MQTT broker at %s", component, broker)
	return client, nil
}

// updatesHandler decodes each broker message into one batch and applies it
// to the store. Entries that fail to decode are logged; the rest of the
// batch is still applied.
func updatesHandler(component string, store *vessel.Store) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		batch, err := telemetry.Decode(msg.Payload(), time.Now())
		if err != nil {
			log.Printf("%s: payload decode error on %s: %v", component, msg.Topic(), err)
		}
		store.Apply(batch)
	}
}

// subscribeUpdates subscribes the store to the updates topic.
func subscribeUpdates(component string, client mqtt.Client, topic string, store *vessel.Store) error {
	token := client.Subscribe(topic, 0, updatesHandler(component, store))
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("%s: subscribed to MQTT topic %s", component, topic)
	return nil
}

// publishBatch encodes a batch and publishes it as one message.
func publishBatch(client mqtt.Client, topic string, batch []telemetry.RawUpdate) error {
	payload, err := telemetry.Encode(batch)
	if err != nil {
		return err
	}
	token := client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}
