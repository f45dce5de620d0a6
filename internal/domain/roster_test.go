package domain

import (
	"errors"
	"testing"
)

func TestRosterCapacityInvariant(t *testing.T) {
	r := NewRoster(3, Member{ID: "leader", Addr: "a"})

	check := func() {
		if r.Len() > r.Capacity() {
			t.Fatalf("roster length %d exceeds capacity %d", r.Len(), r.Capacity())
		}
		if got, want := r.Full(), r.Len() == r.Capacity(); got != want {
			t.Fatalf("Full() = %v with len %d, capacity %d", got, r.Len(), r.Capacity())
		}
	}

	check()
	if err := r.Add(Member{ID: "b", Addr: "b"}); err != nil {
		t.Fatalf("Add(b): %v", err)
	}
	check()
	if err := r.Add(Member{ID: "c", Addr: "c"}); err != nil {
		t.Fatalf("Add(c): %v", err)
	}
	check()
	if !r.Full() {
		t.Fatal("roster with 3/3 members should be full")
	}

	if err := r.Add(Member{ID: "d", Addr: "d"}); !errors.Is(err, ErrRosterFull) {
		t.Fatalf("Add past capacity: err = %v, want ErrRosterFull", err)
	}
	check()
}

func TestRosterDuplicateRejected(t *testing.T) {
	r := NewRoster(4, Member{ID: "leader"})
	if err := r.Add(Member{ID: "b"}); err != nil {
		t.Fatalf("Add(b): %v", err)
	}
	if err := r.Add(Member{ID: "b"}); !errors.Is(err, ErrDuplicateMember) {
		t.Fatalf("duplicate Add: err = %v, want ErrDuplicateMember", err)
	}
	if err := r.Add(Member{ID: "leader"}); !errors.Is(err, ErrDuplicateMember) {
		t.Fatalf("re-adding leader: err = %v, want ErrDuplicateMember", err)
	}
}

func TestRosterJoinOrderLeaderFirst(t *testing.T) {
	r := NewRoster(4, Member{ID: "leader"})
	r.Add(Member{ID: "b"})
	r.Add(Member{ID: "c"})

	members := r.Members()
	want := []PeerID{"leader", "b", "c"}
	if len(members) != len(want) {
		t.Fatalf("got %d members, want %d", len(members), len(want))
	}
	for i, id := range want {
		if members[i].ID != id {
			t.Fatalf("member %d = %s, want %s", i, members[i].ID, id)
		}
	}
	if r.Leader().ID != "leader" {
		t.Fatalf("Leader() = %s, want leader", r.Leader().ID)
	}
}

func TestRosterRemoveReopensFullEpoch(t *testing.T) {
	r := NewRoster(2, Member{ID: "a"})
	if err := r.Add(Member{ID: "b"}); err != nil {
		t.Fatalf("Add(b): %v", err)
	}
	if !r.Full() {
		t.Fatal("epoch should be full at 2/2")
	}

	if !r.Remove("b") {
		t.Fatal("Remove(b) should succeed")
	}
	if r.Full() {
		t.Fatal("epoch should reopen after a departure")
	}
	if err := r.Add(Member{ID: "c"}); err != nil {
		t.Fatalf("Add(c) into reopened epoch: %v", err)
	}

	members := r.Members()
	if members[0].ID != "a" || members[1].ID != "c" {
		t.Fatalf("roster after rejoin = %v, want [a c]", members)
	}
}

func TestRosterLeaderNotRemovable(t *testing.T) {
	r := NewRoster(2, Member{ID: "a"})
	if r.Remove("a") {
		t.Fatal("leader must not be removable from its own epoch")
	}
}
