// Package app wires the pure session-formation machine to real transports
// and exposes the session to the simulation loop as an event stream. All
// protocol state lives in the Session value and is touched only by its Run
// goroutine; the simulation communicates through channels alone.
package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/logging"
	"github.com/JayBlankenship/WaterWorld5/internal/ports"
)

// SessionConfig is the fixed-for-the-session-lifetime protocol surface.
type SessionConfig struct {
	RendezvousName   string
	Capacity         int
	RetryDelay       time.Duration
	MaxRetryAttempts int // 0 = retry forever
}

// Session is one peer's session-formation and relay engine. It contests the
// rendezvous slot, forms or joins a roster, and star-relays opaque state
// packets when leading.
type Session struct {
	cfg     SessionConfig
	self    domain.Member
	log     logging.Logger
	dir     ports.Directory
	ep      ports.Endpoint
	tickets *TicketService
	rng     *rand.Rand

	state domain.State
	retry RetryPolicy

	// Leader-side bookkeeping. tracked maps an identity to its
	// authoritative connection: the first open connection wins and a
	// later one is non-authoritative until the tracked one closes.
	roster  *domain.Roster
	tracked map[domain.PeerID]ports.Conn
	connIDs map[ports.Conn]domain.PeerID

	// Client-side bookkeeping.
	hostID   domain.PeerID
	hostConn ports.Conn

	seed  int32
	claim ports.Claim

	retryTimer *time.Timer
	posts      chan domain.PlayerStatePayload
	events     chan Event
}

// NewSession constructs a session with a freshly generated peer identity.
// A nil rng falls back to a time-seeded source (used for leader seed
// generation only; terrain math never touches it).
func NewSession(cfg SessionConfig, ep ports.Endpoint, dir ports.Directory, tickets *TicketService, rng *rand.Rand, log logging.Logger) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Session{
		cfg:     cfg,
		self:    domain.Member{ID: domain.PeerID(uuid.NewString()), Addr: ep.Addr()},
		log:     log,
		dir:     dir,
		ep:      ep,
		tickets: tickets,
		rng:     rng,
		state:   domain.StateInit,
		retry:   RetryPolicy{Delay: cfg.RetryDelay, MaxAttempts: cfg.MaxRetryAttempts},
		tracked: make(map[domain.PeerID]ports.Conn),
		connIDs: make(map[ports.Conn]domain.PeerID),
		posts:   make(chan domain.PlayerStatePayload, 8),
		events:  make(chan Event, 128),
	}
}

// ID returns this peer's identity.
func (s *Session) ID() domain.PeerID { return s.self.ID }

// Events is the stream the simulation loop consumes.
func (s *Session) Events() <-chan Event { return s.events }

// PostState hands the session this peer's current application state for
// broadcast. Fire-and-forget: never blocks the simulation loop, and a post
// is silently dropped when the session is backed up.
func (s *Session) PostState(p domain.PlayerStatePayload) {
	p.PeerID = s.self.ID
	select {
	case s.posts <- p:
	default:
	}
}

// Run drives the session until ctx is done. It owns every field of s; no
// other goroutine may touch them while Run is live.
func (s *Session) Run(ctx context.Context) error {
	defer s.shutdown()

	s.apply(ctx, domain.EndpointReady{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.ep.Events():
			if !ok {
				return nil
			}
			s.handleConnEvent(ctx, ev)
		case <-s.retryChan():
			s.retryTimer = nil
			s.apply(ctx, domain.RetryTimer{})
		case p := <-s.posts:
			s.broadcastLocalState(p)
		case <-s.claimLostChan():
			s.log.Warn("rendezvous claim revoked by directory")
			s.claim = nil
		}
	}
}

func (s *Session) retryChan() <-chan time.Time {
	if s.retryTimer == nil {
		return nil
	}
	return s.retryTimer.C
}

func (s *Session) claimLostChan() <-chan struct{} {
	if s.claim == nil {
		return nil
	}
	return s.claim.Lost()
}

func (s *Session) shutdown() {
	if s.claim != nil {
		_ = s.claim.Release()
		s.claim = nil
	}
	if s.hostConn != nil {
		_ = s.hostConn.Close()
		s.hostConn = nil
	}
	for _, conn := range s.tracked {
		_ = conn.Close()
	}
}

// apply feeds one input through the state machine and performs the
// resulting effects.
func (s *Session) apply(ctx context.Context, in domain.Input) {
	next, effects := domain.Transition(s.state, in)
	if next != s.state {
		s.log.Debug("session %s -> %s", s.state, next)
		s.state = next
		s.emit(EventStateChanged, StateChangedPayload{State: next})
	}
	for _, effect := range effects {
		s.perform(ctx, effect)
	}
}

func (s *Session) perform(ctx context.Context, effect domain.Effect) {
	switch e := effect.(type) {
	case domain.ClaimSlot:
		s.claimSlot(ctx)
	case domain.ScheduleRetry:
		s.scheduleRetry(ctx)
	case domain.Discover:
		s.discover(ctx)
	case domain.JoinHost:
		s.joinHost(ctx, e)
	case domain.BecomeLeader:
		s.becomeLeader()
	case domain.AdoptRoster:
		s.adoptRoster(e)
	case domain.GiveUp:
		s.log.Error("session gave up after %d attempts", s.retry.Attempts())
		s.emit(EventGaveUp, nil)
	}
}

func (s *Session) claimSlot(ctx context.Context) {
	claim, won, err := s.dir.Claim(ctx, s.cfg.RendezvousName, s.self)
	if err != nil {
		s.log.Warn("rendezvous claim failed: %v", err)
		s.apply(ctx, domain.ClaimLost{})
		return
	}
	if !won {
		// Expected contention: somebody already leads this rendezvous.
		s.apply(ctx, domain.ClaimLost{})
		return
	}
	s.claim = claim
	s.apply(ctx, domain.ClaimWon{})
}

func (s *Session) scheduleRetry(ctx context.Context) {
	delay, ok := s.retry.Next()
	if !ok {
		s.apply(ctx, domain.RetriesExhausted{})
		return
	}
	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.NewTimer(delay)
}

func (s *Session) discover(ctx context.Context) {
	holder, ok, err := s.dir.Resolve(ctx, s.cfg.RendezvousName)
	if err != nil || !ok {
		s.log.Warn("rendezvous resolve failed (held=%v): %v", ok, err)
		s.apply(ctx, domain.ConnectionLost{})
		return
	}

	conn, err := s.ep.Dial(holder.Addr)
	if err != nil {
		s.log.Warn("dial rendezvous holder %s: %v", holder.Addr, err)
		s.apply(ctx, domain.ConnectionLost{})
		return
	}
	s.hostID = holder.ID
	s.hostConn = conn

	env, err := domain.NewEnvelope(domain.MsgJoin, domain.JoinPayload{PeerID: s.self.ID})
	if err == nil {
		err = conn.Send(env)
	}
	if err != nil {
		s.log.Warn("send join to holder: %v", err)
		s.dropHostConn()
		s.apply(ctx, domain.ConnectionLost{})
	}
}

func (s *Session) joinHost(ctx context.Context, e domain.JoinHost) {
	// The discovery connection is done; joining uses a direct one.
	s.dropHostConn()

	conn, err := s.ep.Dial(e.HostAddr)
	if err != nil {
		s.log.Warn("dial host %s: %v", e.HostAddr, err)
		s.apply(ctx, domain.ConnectionLost{})
		return
	}
	s.hostID = e.HostID
	s.hostConn = conn

	env, err := domain.NewEnvelope(domain.MsgJoinHost, domain.JoinHostPayload{
		PeerID: s.self.ID,
		Addr:   s.self.Addr,
		Ticket: e.Ticket,
	})
	if err == nil {
		err = conn.Send(env)
	}
	if err != nil {
		s.log.Warn("send join_host: %v", err)
		s.dropHostConn()
		s.apply(ctx, domain.ConnectionLost{})
	}
}

// dropHostConn closes the current host connection without generating a
// ConnectionLost input for its eventual close event.
func (s *Session) dropHostConn() {
	if s.hostConn == nil {
		return
	}
	old := s.hostConn
	s.hostConn = nil
	_ = old.Close()
}

func (s *Session) becomeLeader() {
	s.roster = domain.NewRoster(s.cfg.Capacity, s.self)
	s.retry.Reset()
	if s.seed == 0 {
		// Nonzero by construction: zero means "no seed yet" everywhere.
		s.seed = int32(s.rng.Intn(1<<31-1)) + 1
	}
	s.log.Info("leading rendezvous %q as %s, seed %d", s.cfg.RendezvousName, s.self.ID, s.seed)
	s.emit(EventSeedReceived, SeedReceivedPayload{Seed: s.seed})
	s.emitRoster()
}

func (s *Session) adoptRoster(e domain.AdoptRoster) {
	s.retry.Reset()
	s.log.Info("joined epoch led by %s with %d members", e.HostID, len(e.Members))
	s.emit(EventEpochReady, EpochReadyPayload{HostID: e.HostID, Members: e.Members})
	s.emit(EventRosterUpdated, RosterUpdatedPayload{Members: e.Members, Full: true})
}

func (s *Session) emit(kind EventKind, payload any) {
	select {
	case s.events <- Event{Kind: kind, Payload: payload}:
	default:
		s.log.Warn("session event %s dropped: consumer lagging", kind)
	}
}

func (s *Session) emitRoster() {
	s.emit(EventRosterUpdated, RosterUpdatedPayload{
		Members: s.roster.Members(),
		Full:    s.roster.Full(),
	})
}
