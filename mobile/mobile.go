package mobile

import (
	"log"
	"time"

	"castles/internal/config"
	"castles/internal/engine"
	"castles/internal/server/game"
	httpserver "castles/internal/server/http"
)

// StartServer starts the local HTTP server.
// configPath: optional YAML config, empty for defaults
// port: port to listen on, e.g. "2888"
func StartServer(configPath string, port string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("config error, using defaults: %v", err)
		cfg = config.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	srv := httpserver.NewServer(game.NewManager(cfg.NewPosition), engine.NewEngine(seed))

	// Run in background so it doesn't block the Android UI thread
	go func() {
		if err := srv.Listen("127.0.0.1:" + port); err != nil {
			log.Printf("Server Error: %v", err)
		}
	}()
}
