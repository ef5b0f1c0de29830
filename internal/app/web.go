package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/relabs-tech/marine_dashboard/internal/config"
	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

// Position is the vessel position shown on the map.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StateResponse is the dashboard payload served by /api/state and pushed
// over /ws.
type StateResponse struct {
	Seq      uint64                      `json:"seq"`
	Rows     []telemetry.FormattedRecord `json:"rows"`
	Position *Position                   `json:"position,omitempty"`
}

func stateFor(v *vessel.View, order []paths.ID) StateResponse {
	resp := StateResponse{Seq: v.Seq, Rows: v.Rows(order)}
	if lat, lon, ok := v.Position(); ok {
		resp.Position = &Position{Lat: lat, Lon: lon}
	}
	return resp
}

func RunWeb() error {
	cfg := config.Get()

	store, err := vessel.NewStore(cfg.Options())
	if err != nil {
		return fmt.Errorf("dashboard configuration: %w", err)
	}

	// 1) Connect to MQTT broker
	client, err := connectMQTT("web", cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// 2) Push every new view to websocket clients
	hub := newHub(store)
	store.Subscribe(hub.publish)

	// 3) Subscribe to telemetry updates
	if err := subscribeUpdates("web", client, cfg.TopicUpdates, store); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, newWebHandler(store, hub, cfg.WebStaticDir))
}

// newWebHandler wires the JSON API, the websocket feed and the static files.
func newWebHandler(store *vessel.Store, hub *hub, staticDir string) http.Handler {
	mux := http.NewServeMux()

	// latest formatted table plus position
	mux.HandleFunc("GET /api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, stateFor(store.Current(), store.Order()))
	})

	// position only, for the map marker
	mux.HandleFunc("GET /api/position", func(w http.ResponseWriter, r *http.Request) {
		lat, lon, ok := store.Current().Position()
		if !ok {
			http.Error(w, "no position yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, Position{Lat: lat, Lon: lon})
	})

	mux.HandleFunc("GET /ws", hub.serveWS)

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}
