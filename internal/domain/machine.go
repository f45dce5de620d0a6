package domain

// The client side of session formation is an explicit state machine. Wire
// events, timers, and claim outcomes arrive as Inputs; Transition is a pure
// function returning the next state and the effects the app layer must
// perform. All retry pacing and counting lives outside the machine; it only
// asks for a retry and is told when retries are exhausted.

// State is a peer's position in the session-formation protocol.
type State int

const (
	StateInit State = iota
	StateClaiming
	StateDiscovering
	StateJoining
	StateLeader
	StateInLobby
	StateGaveUp
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateClaiming:
		return "claiming"
	case StateDiscovering:
		return "discovering"
	case StateJoining:
		return "joining"
	case StateLeader:
		return "leader"
	case StateInLobby:
		return "in_lobby"
	case StateGaveUp:
		return "gave_up"
	default:
		return "unknown"
	}
}

// Input is an external stimulus delivered to the machine.
type Input interface{ isInput() }

// EndpointReady fires once the peer's own network endpoint is listening.
type EndpointReady struct{}

// ClaimWon and ClaimLost are the two outcomes of contesting the rendezvous
// slot. Losing the claim is expected contention, not an error.
type ClaimWon struct{}
type ClaimLost struct{}

// RetryTimer fires when a scheduled retry delay elapses.
type RetryTimer struct{}

// RetriesExhausted fires when the retry policy's attempt ceiling is hit.
type RetriesExhausted struct{}

// RedirectReceived is the holder's answer to a discovery join.
type RedirectReceived struct {
	HostID   PeerID
	HostAddr string
	Ticket   string
}

// LobbyFullReceived is the capacity rejection from the holder or leader.
type LobbyFullReceived struct{}

// WaitingReceived reports join progress while the epoch fills.
type WaitingReceived struct {
	Current, Total int
}

// HostReadyReceived carries the final roster for the epoch.
type HostReadyReceived struct {
	HostID  PeerID
	Members []Member
}

// ConnectionLost reports that the connection backing the current step
// closed or errored.
type ConnectionLost struct{}

func (EndpointReady) isInput()     {}
func (ClaimWon) isInput()          {}
func (ClaimLost) isInput()         {}
func (RetryTimer) isInput()        {}
func (RetriesExhausted) isInput()  {}
func (RedirectReceived) isInput()  {}
func (LobbyFullReceived) isInput() {}
func (WaitingReceived) isInput()   {}
func (HostReadyReceived) isInput() {}
func (ConnectionLost) isInput()    {}

// Effect is an action the app layer must carry out after a transition.
type Effect interface{ isEffect() }

// ClaimSlot: attempt to register the rendezvous name at the directory.
type ClaimSlot struct{}

// ScheduleRetry: arm the retry timer; the policy decides delay and ceiling.
type ScheduleRetry struct{}

// Discover: resolve the current slot holder and send it a discovery join.
type Discover struct{}

// JoinHost: connect to the redirected host and request a roster seat.
type JoinHost struct {
	HostID   PeerID
	HostAddr string
	Ticket   string
}

// BecomeLeader: start an epoch with self as roster head.
type BecomeLeader struct{}

// AdoptRoster: take the leader's final roster verbatim.
type AdoptRoster struct {
	HostID  PeerID
	Members []Member
}

// GiveUp: surface the terminal gave-up outcome to the application.
type GiveUp struct{}

func (ClaimSlot) isEffect()     {}
func (ScheduleRetry) isEffect() {}
func (Discover) isEffect()      {}
func (JoinHost) isEffect()      {}
func (BecomeLeader) isEffect()  {}
func (AdoptRoster) isEffect()   {}
func (GiveUp) isEffect()        {}

// Transition advances the machine. Unrecognized (state, input) pairs are
// ignored: late or duplicate wire events must never derail the protocol.
func Transition(s State, in Input) (State, []Effect) {
	if _, ok := in.(RetriesExhausted); ok {
		return StateGaveUp, []Effect{GiveUp{}}
	}

	switch s {
	case StateInit:
		if _, ok := in.(EndpointReady); ok {
			return StateClaiming, []Effect{ClaimSlot{}}
		}

	case StateClaiming:
		switch in.(type) {
		case ClaimWon:
			return StateLeader, []Effect{BecomeLeader{}}
		case ClaimLost:
			// Someone else holds the slot; look for them shortly.
			return StateDiscovering, []Effect{ScheduleRetry{}}
		case RetryTimer:
			return StateClaiming, []Effect{ClaimSlot{}}
		}

	case StateDiscovering:
		switch in := in.(type) {
		case RetryTimer:
			return StateDiscovering, []Effect{Discover{}}
		case RedirectReceived:
			return StateJoining, []Effect{JoinHost{HostID: in.HostID, HostAddr: in.HostAddr, Ticket: in.Ticket}}
		case LobbyFullReceived, ConnectionLost:
			// Full epoch or dead holder: try to start a new epoch.
			return StateClaiming, []Effect{ScheduleRetry{}}
		}

	case StateJoining:
		switch in := in.(type) {
		case HostReadyReceived:
			return StateInLobby, []Effect{AdoptRoster{HostID: in.HostID, Members: in.Members}}
		case WaitingReceived:
			return StateJoining, nil
		case LobbyFullReceived, ConnectionLost:
			return StateClaiming, []Effect{ScheduleRetry{}}
		}

	case StateInLobby:
		switch in := in.(type) {
		case ConnectionLost:
			// Host went away; contest a fresh epoch.
			return StateClaiming, []Effect{ScheduleRetry{}}
		case HostReadyReceived:
			// A reopened epoch refilled: re-adopt the leader's roster so a
			// replaced member is not remembered under the old roster.
			return StateInLobby, []Effect{AdoptRoster{HostID: in.HostID, Members: in.Members}}
		}
	}

	return s, nil
}
