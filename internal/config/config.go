package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds the runtime knobs for a peer: session-formation settings,
// terrain streaming geometry, and broadcast pacing. Zero-valued fields take
// the defaults below, so a partial config file is fine.
type GameConfig struct {
	// Session formation.
	RendezvousName   string `json:"rendezvous_name"`
	DirectoryURL     string `json:"directory_url"`
	ListenAddr       string `json:"listen_addr"`
	AdvertiseAddr    string `json:"advertise_addr"`
	LobbyCapacity    int    `json:"lobby_capacity"`
	RetryDelayMs     int    `json:"retry_delay_ms"`
	MaxRetryAttempts int    `json:"max_retry_attempts"`
	// TicketSecret enables leader-signed join tickets when nonempty.
	TicketSecret string `json:"ticket_secret,omitempty"`

	// Terrain streaming.
	ChunkSize       float64 `json:"chunk_size"`
	ChunkResolution int     `json:"chunk_resolution"`
	RenderDistance  float64 `json:"render_distance"`
	// SeedTransitionSeconds is how long a regeneration morphs between
	// height fields.
	SeedTransitionSeconds float64 `json:"seed_transition_seconds"`

	// Broadcast pacing.
	BroadcastIntervalMs           int `json:"broadcast_interval_ms"`
	BackgroundBroadcastIntervalMs int `json:"background_broadcast_interval_ms"`
}

// Default returns the configuration used when no file is given.
func Default() *GameConfig {
	return &GameConfig{
		RendezvousName:                "GlobalPlayerLobby",
		DirectoryURL:                  "ws://127.0.0.1:9190/directory",
		ListenAddr:                    "127.0.0.1:0",
		LobbyCapacity:                 2,
		RetryDelayMs:                  5000,
		ChunkSize:                     100,
		ChunkResolution:               12,
		RenderDistance:                150,
		SeedTransitionSeconds:         10,
		BroadcastIntervalMs:           100,
		BackgroundBroadcastIntervalMs: 1000,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the configuration from the given JSON file, filling
// unset fields with defaults. Loading happens at most once per process.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c := Default()
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("failed to read game config: %w", err)
				return
			}
			if err := json.Unmarshal(data, c); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
				return
			}
		}
		if err := c.validate(); err != nil {
			loadErr = fmt.Errorf("invalid game config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

func (c *GameConfig) validate() error {
	if c.LobbyCapacity < 1 {
		return fmt.Errorf("lobby_capacity must be at least 1, got %d", c.LobbyCapacity)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %v", c.ChunkSize)
	}
	if c.ChunkResolution < 1 {
		return fmt.Errorf("chunk_resolution must be at least 1, got %d", c.ChunkResolution)
	}
	if c.RenderDistance < 0 {
		return fmt.Errorf("render_distance must not be negative, got %v", c.RenderDistance)
	}
	if c.RetryDelayMs < 0 || c.MaxRetryAttempts < 0 {
		return fmt.Errorf("retry settings must not be negative")
	}
	if c.BroadcastIntervalMs < 1 {
		return fmt.Errorf("broadcast_interval_ms must be at least 1, got %d", c.BroadcastIntervalMs)
	}
	return nil
}
