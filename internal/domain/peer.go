// Package domain holds the pure session-formation model: peer identities,
// the roster, the wire message shapes, and the client state machine. Nothing
// in this package touches the network or the clock; the app layer interprets
// the effects it emits.
package domain

// PeerID is the opaque identity a peer generates at startup. It is the
// addressing key for every connection and roster entry and is unique for the
// process lifetime.
type PeerID string

// Member pairs a peer identity with the endpoint address other peers can
// dial it at.
type Member struct {
	ID   PeerID `json:"peerId"`
	Addr string `json:"addr"`
}
