package app

import (
	"context"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/ports"
)

// handleConnEvent dispatches one endpoint occurrence: a close notification
// or an inbound envelope.
func (s *Session) handleConnEvent(ctx context.Context, ev ports.ConnEvent) {
	if ev.Env == nil {
		s.handleClose(ctx, ev.Conn)
		return
	}

	switch ev.Env.Type {
	case domain.MsgJoin:
		s.handleJoin(ev.Conn, *ev.Env)
	case domain.MsgJoinHost:
		s.handleJoinHost(ev.Conn, *ev.Env)
	case domain.MsgPlayerState:
		s.handlePlayerState(ev.Conn, *ev.Env)
	case domain.MsgRedirectToHost:
		s.handleRedirect(ctx, ev.Conn, *ev.Env)
	case domain.MsgLobbyFull:
		if ev.Conn == s.hostConn {
			s.dropHostConn()
			s.apply(ctx, domain.LobbyFullReceived{})
		}
	case domain.MsgWaiting:
		var p domain.WaitingPayload
		if err := ev.Env.Decode(&p); err == nil {
			s.apply(ctx, domain.WaitingReceived{Current: p.Current, Total: p.Total})
		}
	case domain.MsgHostReady:
		var p domain.HostReadyPayload
		if err := ev.Env.Decode(&p); err == nil {
			s.apply(ctx, domain.HostReadyReceived{HostID: p.HostID, Members: p.AllPlayers})
		}
	default:
		s.log.Debug("ignoring envelope type %q", ev.Env.Type)
	}
}

// handleClose processes a connection close. A close removes an identity from
// the roster only while its connection is still the tracked one; a stale
// duplicate's close must never evict the authoritative connection.
func (s *Session) handleClose(ctx context.Context, conn ports.Conn) {
	if conn == s.hostConn {
		s.hostConn = nil
		s.apply(ctx, domain.ConnectionLost{})
		return
	}

	id, known := s.connIDs[conn]
	if !known {
		return
	}
	delete(s.connIDs, conn)
	if s.tracked[id] != conn {
		return
	}
	delete(s.tracked, id)

	if s.state != domain.StateLeader || s.roster == nil {
		return
	}
	wasFull := s.roster.Full()
	if !s.roster.Remove(id) {
		return
	}
	if wasFull {
		s.log.Info("member %s left a full epoch; lobby reopened", id)
	}
	s.emitRoster()
	s.broadcastWaiting()
}

// handleJoin answers a discovery probe. Only the slot holder ever receives
// one; anyone else closes the connection.
func (s *Session) handleJoin(conn ports.Conn, env domain.Envelope) {
	if s.state != domain.StateLeader || s.roster == nil {
		_ = conn.Close()
		return
	}

	var p domain.JoinPayload
	if err := env.Decode(&p); err != nil {
		s.log.Warn("malformed join: %v", err)
		_ = conn.Close()
		return
	}

	if s.roster.Full() && !s.roster.Contains(p.PeerID) {
		s.sendTo(conn, domain.MsgLobbyFull, nil)
		_ = conn.Close()
		return
	}

	ticket, err := s.tickets.Issue(p.PeerID, s.self.ID)
	if err != nil {
		s.log.Error("issue ticket for %s: %v", p.PeerID, err)
		_ = conn.Close()
		return
	}
	s.sendTo(conn, domain.MsgRedirectToHost, domain.RedirectToHostPayload{
		HostID:         s.self.ID,
		HostAddr:       s.self.Addr,
		Ticket:         ticket,
		CurrentPlayers: s.roster.Len(),
		TotalPlayers:   s.roster.Capacity(),
	})
}

// handleJoinHost admits a redirected peer into the roster. The first open
// connection for an identity wins; a join_host for an identity whose tracked
// connection is still open is answered waiting on the new connection and
// otherwise ignored.
func (s *Session) handleJoinHost(conn ports.Conn, env domain.Envelope) {
	if s.state != domain.StateLeader || s.roster == nil {
		_ = conn.Close()
		return
	}

	var p domain.JoinHostPayload
	if err := env.Decode(&p); err != nil {
		s.log.Warn("malformed join_host: %v", err)
		_ = conn.Close()
		return
	}
	if p.PeerID == "" || p.PeerID == s.self.ID {
		_ = conn.Close()
		return
	}

	if err := s.tickets.Verify(p.Ticket, p.PeerID, s.self.ID); err != nil {
		s.log.Warn("rejecting join_host from %s: %v", p.PeerID, err)
		_ = conn.Close()
		return
	}

	if _, open := s.tracked[p.PeerID]; open {
		s.log.Debug("duplicate join_host from %s", p.PeerID)
		s.sendTo(conn, domain.MsgWaiting, domain.WaitingPayload{
			Current: s.roster.Len(),
			Total:   s.roster.Capacity(),
		})
		return
	}

	if err := s.roster.Add(domain.Member{ID: p.PeerID, Addr: p.Addr}); err != nil {
		s.log.Info("rejecting join_host from %s: %v", p.PeerID, err)
		s.sendTo(conn, domain.MsgLobbyFull, nil)
		_ = conn.Close()
		return
	}
	s.tracked[p.PeerID] = conn
	s.connIDs[conn] = p.PeerID
	s.log.Info("member %s joined (%d/%d)", p.PeerID, s.roster.Len(), s.roster.Capacity())
	s.emitRoster()

	if s.roster.Full() {
		s.broadcastToMembers(domain.MsgHostReady, domain.HostReadyPayload{
			HostID:     s.self.ID,
			AllPlayers: s.roster.Members(),
		})
		s.emit(EventEpochReady, EpochReadyPayload{HostID: s.self.ID, Members: s.roster.Members()})
		return
	}
	s.broadcastWaiting()
}

// handlePlayerState consumes a state packet locally and, when leading,
// star-relays it to every tracked member except the sender.
func (s *Session) handlePlayerState(conn ports.Conn, env domain.Envelope) {
	var p domain.PlayerStatePayload
	if err := env.Decode(&p); err != nil {
		s.log.Warn("malformed player_state: %v", err)
		return
	}

	if s.state == domain.StateLeader {
		// Opaque relay: the leader forwards the envelope untouched.
		for id, member := range s.tracked {
			if member == conn {
				continue
			}
			if err := member.Send(env); err != nil {
				s.log.Warn("relay player_state to %s: %v", id, err)
			}
		}
	}

	s.emit(EventPeerState, PeerStatePayload{State: p})
	s.observeSeed(p)
}

// observeSeed adopts the leader's canonical seed when it differs from the
// local copy. Zero means the sender carries no seed and is ignored.
func (s *Session) observeSeed(p domain.PlayerStatePayload) {
	if p.Seed == 0 || p.PeerID != s.hostID || p.Seed == s.seed {
		return
	}
	s.seed = p.Seed
	s.log.Info("adopted leader seed %d", p.Seed)
	s.emit(EventSeedReceived, SeedReceivedPayload{Seed: p.Seed})
}

// handleRedirect follows a redirect_to_host answer received during discovery.
func (s *Session) handleRedirect(ctx context.Context, conn ports.Conn, env domain.Envelope) {
	if conn != s.hostConn {
		return
	}
	var p domain.RedirectToHostPayload
	if err := env.Decode(&p); err != nil {
		s.log.Warn("malformed redirect_to_host: %v", err)
		s.dropHostConn()
		s.apply(ctx, domain.ConnectionLost{})
		return
	}
	s.apply(ctx, domain.RedirectReceived{HostID: p.HostID, HostAddr: p.HostAddr, Ticket: p.Ticket})
}

// broadcastLocalState ships this peer's own state packet out: to every
// member when leading, to the leader when joined. The leader stamps its
// canonical seed onto its own packets so members can converge on it.
func (s *Session) broadcastLocalState(p domain.PlayerStatePayload) {
	switch s.state {
	case domain.StateLeader:
		p.Seed = s.seed
		env, err := domain.NewEnvelope(domain.MsgPlayerState, p)
		if err != nil {
			return
		}
		for id, conn := range s.tracked {
			if err := conn.Send(env); err != nil {
				s.log.Warn("send player_state to %s: %v", id, err)
			}
		}
	case domain.StateInLobby:
		if s.hostConn == nil {
			return
		}
		env, err := domain.NewEnvelope(domain.MsgPlayerState, p)
		if err != nil {
			return
		}
		if err := s.hostConn.Send(env); err != nil {
			s.log.Warn("send player_state to leader: %v", err)
		}
	}
}

func (s *Session) broadcastWaiting() {
	s.broadcastToMembers(domain.MsgWaiting, domain.WaitingPayload{
		Current: s.roster.Len(),
		Total:   s.roster.Capacity(),
	})
}

func (s *Session) broadcastToMembers(t domain.MsgType, payload any) {
	env, err := domain.NewEnvelope(t, payload)
	if err != nil {
		s.log.Error("encode %s: %v", t, err)
		return
	}
	for id, conn := range s.tracked {
		if err := conn.Send(env); err != nil {
			s.log.Warn("send %s to %s: %v", t, id, err)
		}
	}
}

func (s *Session) sendTo(conn ports.Conn, t domain.MsgType, payload any) {
	env, err := domain.NewEnvelope(t, payload)
	if err != nil {
		s.log.Error("encode %s: %v", t, err)
		return
	}
	if err := conn.Send(env); err != nil {
		s.log.Warn("send %s: %v", t, err)
	}
}
