package domain

import (
	"encoding/json"
	"fmt"
)

// MsgType names a wire message. The shapes below are the protocol's logical
// surface; the transport wraps them in a {type, payload} JSON envelope.
type MsgType string

const (
	MsgJoin           MsgType = "join"
	MsgRedirectToHost MsgType = "redirect_to_host"
	MsgLobbyFull      MsgType = "lobby_full"
	MsgJoinHost       MsgType = "join_host"
	MsgWaiting        MsgType = "waiting"
	MsgHostReady      MsgType = "host_ready"
	MsgPlayerState    MsgType = "player_state"
)

// Envelope is the uniform wire frame for every protocol message.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into a typed envelope.
func NewEnvelope(t MsgType, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Envelope{Type: t, Payload: raw}, nil
}

// Decode unmarshals the envelope payload into dst.
func (e Envelope) Decode(dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// JoinPayload is the discovery request sent to the rendezvous holder.
type JoinPayload struct {
	PeerID PeerID `json:"peerId"`
}

// RedirectToHostPayload tells a discovering client where the active leader
// is. Ticket is a leader-signed join ticket, present when the session runs
// with a ticket secret.
type RedirectToHostPayload struct {
	HostID         PeerID `json:"hostId"`
	HostAddr       string `json:"hostAddr"`
	Ticket         string `json:"ticket,omitempty"`
	CurrentPlayers int    `json:"currentPlayers"`
	TotalPlayers   int    `json:"totalPlayers"`
}

// JoinHostPayload is the direct roster join request sent to the leader.
type JoinHostPayload struct {
	PeerID PeerID `json:"peerId"`
	Addr   string `json:"addr"`
	Ticket string `json:"ticket,omitempty"`
}

// WaitingPayload reports lobby progress to a joined-but-waiting client.
type WaitingPayload struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// HostReadyPayload carries the final roster once the epoch fills.
type HostReadyPayload struct {
	HostID     PeerID   `json:"hostId"`
	AllPlayers []Member `json:"allPlayers"`
}

// PlayerStatePayload is the periodic application-state packet. The relay
// treats it as opaque; only the leader's Seed field is interpreted, as the
// canonical terrain seed every member converges to.
type PlayerStatePayload struct {
	PeerID PeerID  `json:"peerId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Yaw    float64 `json:"yaw"`
	Seed   int32   `json:"seed,omitempty"`
}
