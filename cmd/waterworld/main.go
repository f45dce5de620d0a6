// Command waterworld runs one peer: it contests the rendezvous slot, forms
// or joins a lobby, streams terrain chunks around its position, and
// exchanges state packets with the other members.
package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JayBlankenship/WaterWorld5/internal/app"
	"github.com/JayBlankenship/WaterWorld5/internal/config"
	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/logging"
	"github.com/JayBlankenship/WaterWorld5/internal/ports/wsnet"
	"github.com/JayBlankenship/WaterWorld5/internal/terrain"
)

const simTick = 50 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	directoryURL := flag.String("directory", "", "rendezvous directory URL (overrides config)")
	listenAddr := flag.String("listen", "", "peer listen address (overrides config)")
	rendezvous := flag.String("name", "", "rendezvous name (overrides config)")
	capacity := flag.Int("capacity", 0, "lobby capacity (overrides config)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logging.NewStdLogger("waterworld", *verbose)

	if err := config.LoadGameConfig(*configPath); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	cfg := config.GetGameConfig()
	if *directoryURL != "" {
		cfg.DirectoryURL = *directoryURL
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *rendezvous != "" {
		cfg.RendezvousName = *rendezvous
	}
	if *capacity > 0 {
		cfg.LobbyCapacity = *capacity
	}

	endpoint, err := wsnet.NewEndpoint(cfg.ListenAddr, cfg.AdvertiseAddr, log)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	defer endpoint.Close()

	directory := wsnet.NewDirectoryClient(cfg.DirectoryURL, log)
	tickets := app.NewTicketService(cfg.TicketSecret)

	session := app.NewSession(app.SessionConfig{
		RendezvousName:   cfg.RendezvousName,
		Capacity:         cfg.LobbyCapacity,
		RetryDelay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		MaxRetryAttempts: cfg.MaxRetryAttempts,
	}, endpoint, directory, tickets, nil, log)
	log.Info("peer %s joining rendezvous %q via %s", session.ID(), cfg.RendezvousName, cfg.DirectoryURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = session.Run(ctx) }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		cancel()
	}()

	runSim(ctx, cfg, session, log)
}

// runSim is the client-side world loop: advance terrain, stream chunks
// around the player, and broadcast state at the configured pace.
func runSim(ctx context.Context, cfg *config.GameConfig, session *app.Session, log logging.Logger) {
	world := terrain.NewCache(0, cfg.ChunkSize, cfg.ChunkResolution, cfg.RenderDistance, log)
	broadcaster := app.NewBroadcaster(session,
		time.Duration(cfg.BroadcastIntervalMs)*time.Millisecond,
		time.Duration(cfg.BackgroundBroadcastIntervalMs)*time.Millisecond)

	var (
		seed    int32
		heading float64
		x, z    float64
	)
	peers := make(map[domain.PeerID]domain.PlayerStatePayload)

	ticker := time.NewTicker(simTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-session.Events():
			switch ev.Kind {
			case app.EventSeedReceived:
				seed = ev.Payload.(app.SeedReceivedPayload).Seed
				world.ApplySeed(seed, cfg.SeedTransitionSeconds)
			case app.EventEpochReady:
				p := ev.Payload.(app.EpochReadyPayload)
				log.Info("lobby ready: %d players, host %s", len(p.Members), p.HostID)
			case app.EventRosterUpdated:
				p := ev.Payload.(app.RosterUpdatedPayload)
				log.Info("lobby: %d players (full=%v)", len(p.Members), p.Full)
			case app.EventPeerState:
				p := ev.Payload.(app.PeerStatePayload)
				peers[p.State.PeerID] = p.State
				log.Debug("state from %s (%d peers tracked)", p.State.PeerID, len(peers))
			case app.EventGaveUp:
				log.Error("session gave up; exiting")
				return
			}

		case <-ticker.C:
			dt := simTick.Seconds()
			world.Advance(dt)

			// Headless drift so state packets carry changing positions.
			heading += 0.1 * dt
			x += 3.0 * dt * math.Cos(heading)
			z += 3.0 * dt * math.Sin(heading)
			world.Update(x, z)

			y := 0.0
			if seed != 0 {
				y = terrain.Height(seed, x, z)
			}
			broadcaster.Post(domain.PlayerStatePayload{X: x, Y: y, Z: z, Yaw: heading})
		}
	}
}
