package domain

import (
	"reflect"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		input       Input
		wantState   State
		wantEffects []Effect
	}{
		{
			name:        "InitToClaiming",
			state:       StateInit,
			input:       EndpointReady{},
			wantState:   StateClaiming,
			wantEffects: []Effect{ClaimSlot{}},
		},
		{
			name:        "ClaimWonBecomesLeader",
			state:       StateClaiming,
			input:       ClaimWon{},
			wantState:   StateLeader,
			wantEffects: []Effect{BecomeLeader{}},
		},
		{
			name:        "ClaimLostGoesDiscovering",
			state:       StateClaiming,
			input:       ClaimLost{},
			wantState:   StateDiscovering,
			wantEffects: []Effect{ScheduleRetry{}},
		},
		{
			name:        "ClaimRetryTimerReclaims",
			state:       StateClaiming,
			input:       RetryTimer{},
			wantState:   StateClaiming,
			wantEffects: []Effect{ClaimSlot{}},
		},
		{
			name:        "DiscoverTimerDiscovers",
			state:       StateDiscovering,
			input:       RetryTimer{},
			wantState:   StateDiscovering,
			wantEffects: []Effect{Discover{}},
		},
		{
			name:      "RedirectGoesJoining",
			state:     StateDiscovering,
			input:     RedirectReceived{HostID: "h", HostAddr: "addr", Ticket: "tk"},
			wantState: StateJoining,
			wantEffects: []Effect{
				JoinHost{HostID: "h", HostAddr: "addr", Ticket: "tk"},
			},
		},
		{
			name:        "DiscoverLobbyFullRetriesClaim",
			state:       StateDiscovering,
			input:       LobbyFullReceived{},
			wantState:   StateClaiming,
			wantEffects: []Effect{ScheduleRetry{}},
		},
		{
			name:        "DiscoverConnErrorRetriesClaim",
			state:       StateDiscovering,
			input:       ConnectionLost{},
			wantState:   StateClaiming,
			wantEffects: []Effect{ScheduleRetry{}},
		},
		{
			name:        "WaitingKeepsJoining",
			state:       StateJoining,
			input:       WaitingReceived{Current: 1, Total: 2},
			wantState:   StateJoining,
			wantEffects: nil,
		},
		{
			name:      "HostReadyEntersLobby",
			state:     StateJoining,
			input:     HostReadyReceived{HostID: "h", Members: []Member{{ID: "h"}, {ID: "b"}}},
			wantState: StateInLobby,
			wantEffects: []Effect{
				AdoptRoster{HostID: "h", Members: []Member{{ID: "h"}, {ID: "b"}}},
			},
		},
		{
			name:        "JoiningLobbyFullRetriesClaim",
			state:       StateJoining,
			input:       LobbyFullReceived{},
			wantState:   StateClaiming,
			wantEffects: []Effect{ScheduleRetry{}},
		},
		{
			name:        "LobbyHostLossRetriesClaim",
			state:       StateInLobby,
			input:       ConnectionLost{},
			wantState:   StateClaiming,
			wantEffects: []Effect{ScheduleRetry{}},
		},
		{
			name:      "RefilledEpochReadoptsRoster",
			state:     StateInLobby,
			input:     HostReadyReceived{HostID: "h", Members: []Member{{ID: "h"}, {ID: "b"}, {ID: "d"}}},
			wantState: StateInLobby,
			wantEffects: []Effect{
				AdoptRoster{HostID: "h", Members: []Member{{ID: "h"}, {ID: "b"}, {ID: "d"}}},
			},
		},
		{
			name:        "ExhaustedRetriesGiveUp",
			state:       StateDiscovering,
			input:       RetriesExhausted{},
			wantState:   StateGaveUp,
			wantEffects: []Effect{GiveUp{}},
		},
		{
			name:        "LateWireEventIgnored",
			state:       StateInLobby,
			input:       WaitingReceived{Current: 1, Total: 2},
			wantState:   StateInLobby,
			wantEffects: nil,
		},
		{
			name:        "LeaderIgnoresRedirect",
			state:       StateLeader,
			input:       RedirectReceived{HostID: "x"},
			wantState:   StateLeader,
			wantEffects: nil,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			gotState, gotEffects := Transition(test.state, test.input)
			if gotState != test.wantState {
				t.Fatalf("state = %v, want %v", gotState, test.wantState)
			}
			if !reflect.DeepEqual(gotEffects, test.wantEffects) {
				t.Fatalf("effects = %#v, want %#v", gotEffects, test.wantEffects)
			}
		})
	}
}

func TestTransitionJoinSequence(t *testing.T) {
	// A losing peer walks Init -> Claiming -> Discovering -> Joining ->
	// InLobby across the expected stimulus sequence.
	s := StateInit
	steps := []struct {
		input Input
		want  State
	}{
		{EndpointReady{}, StateClaiming},
		{ClaimLost{}, StateDiscovering},
		{RetryTimer{}, StateDiscovering},
		{RedirectReceived{HostID: "h", HostAddr: "a"}, StateJoining},
		{WaitingReceived{Current: 1, Total: 2}, StateJoining},
		{HostReadyReceived{HostID: "h"}, StateInLobby},
	}
	for i, step := range steps {
		s, _ = Transition(s, step.input)
		if s != step.want {
			t.Fatalf("step %d: state = %v, want %v", i, s, step.want)
		}
	}
}
