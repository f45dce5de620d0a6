package app

import "github.com/JayBlankenship/WaterWorld5/internal/domain"

// EventKind identifies session events emitted toward the simulation loop.
type EventKind string

const (
	EventStateChanged  EventKind = "state_changed"
	EventRosterUpdated EventKind = "roster_updated"
	EventEpochReady    EventKind = "epoch_ready"
	EventPeerState     EventKind = "peer_state"
	EventSeedReceived  EventKind = "seed_received"
	EventGaveUp        EventKind = "gave_up"
)

// Event is a session occurrence with a kind-specific payload. Delivery is
// fire-and-forget: the session never blocks on a slow consumer.
type Event struct {
	Kind    EventKind
	Payload any
}

type StateChangedPayload struct {
	State domain.State
}

type RosterUpdatedPayload struct {
	Members []domain.Member
	Full    bool
}

// EpochReadyPayload carries the final roster when the epoch fills.
type EpochReadyPayload struct {
	HostID  domain.PeerID
	Members []domain.Member
}

// PeerStatePayload relays another member's application state verbatim.
type PeerStatePayload struct {
	State domain.PlayerStatePayload
}

// SeedReceivedPayload reports a leader seed differing from the local copy.
// The simulation side answers it with a terrain regeneration.
type SeedReceivedPayload struct {
	Seed int32
}
