// Package ports defines the interfaces the session layer needs from the
// outside world. Adapters (wsnet, test fakes) implement them; the app layer
// receives them injected at construction and never reaches for a transport
// singleton.
package ports

import (
	"context"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
)

// Conn is one open bidirectional message channel to a remote peer. Inbound
// traffic for every Conn of an Endpoint arrives on the Endpoint's single
// event channel; Conn itself only writes.
type Conn interface {
	// Send writes one envelope. Safe for concurrent use.
	Send(env domain.Envelope) error
	// Close tears the connection down; the endpoint delivers a final
	// close event for it.
	Close() error
}

// ConnEvent is one inbound occurrence on an endpoint: an envelope from a
// connection, or, when Env is nil, that connection's close/error.
type ConnEvent struct {
	Conn Conn
	Env  *domain.Envelope
}

// Endpoint is a peer's own network presence: it accepts inbound connections
// and dials outbound ones, multiplexing all inbound traffic onto one channel
// so the session can stay a single event loop.
type Endpoint interface {
	// Addr returns the address other peers can dial this endpoint at.
	Addr() string
	// Dial opens a connection to a remote peer endpoint.
	Dial(addr string) (Conn, error)
	// Events delivers inbound envelopes and connection closes.
	Events() <-chan ConnEvent
	// Close shuts the endpoint and all its connections down.
	Close() error
}

// Claim is a held rendezvous slot. It stays held until released or until
// the backing directory connection drops.
type Claim interface {
	// Release gives the slot up.
	Release() error
	// Lost is closed if the directory revokes the claim (connection loss).
	Lost() <-chan struct{}
}

// Directory is the external service enforcing rendezvous mutual exclusion.
// At most one peer holds a given name at a time; this system relies on that
// guarantee rather than providing it.
type Directory interface {
	// Claim attempts to register name. won reports the contest outcome;
	// losing is expected contention, not an error.
	Claim(ctx context.Context, name string, self domain.Member) (claim Claim, won bool, err error)
	// Resolve looks up the current holder. ok is false when nobody holds
	// the name.
	Resolve(ctx context.Context, name string) (holder domain.Member, ok bool, err error)
}
