package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/config"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	store, err := vessel.NewStore(cfg.Options())
	if err != nil {
		return fmt.Errorf("dashboard configuration: %w", err)
	}

	client, err := connectMQTT("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeUpdates("console", client, cfg.TopicUpdates, store); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.ConsoleLogInterval) * time.Millisecond)
	defer ticker.Stop()

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var printed uint64
	for {
		select {
		case <-ticker.C:
			v := store.Current()
			if v.Seq == printed {
				continue
			}
			printed = v.Seq
			printTable(os.Stdout, v.Rows(store.Order()))
		case <-sigCh:
			log.Println("console: shutting down")
			return nil
		}
	}
}

// printTable writes one block of label/value/time rows.
func printTable(w io.Writer, rows []telemetry.FormattedRecord) {
	fmt.Fprintln(w, "----------------------------------------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %-16s %s\n", r.Label, r.Value, r.LastUpdate)
	}
}
