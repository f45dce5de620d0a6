package domain

import "errors"

var (
	ErrRosterFull      = errors.New("roster at capacity")
	ErrDuplicateMember = errors.New("identity already in roster")
)

// Roster is one lobby epoch's ordered member list: insertion order is join
// order and the leader is always first. The invariant len <= capacity holds
// for every reachable state, and Full is true exactly when len == capacity.
// A departure from a full epoch reopens it; the epoch does not terminate.
type Roster struct {
	capacity int
	members  []Member
}

// NewRoster starts an epoch containing only the leader.
func NewRoster(capacity int, leader Member) *Roster {
	return &Roster{
		capacity: capacity,
		members:  []Member{leader},
	}
}

// Capacity returns the configured epoch capacity N.
func (r *Roster) Capacity() int { return r.capacity }

// Len returns the current member count.
func (r *Roster) Len() int { return len(r.members) }

// Full reports whether the epoch is at capacity.
func (r *Roster) Full() bool { return len(r.members) == r.capacity }

// Leader returns the epoch leader (always the first member).
func (r *Roster) Leader() Member { return r.members[0] }

// Contains reports whether id is a member.
func (r *Roster) Contains(id PeerID) bool {
	for _, m := range r.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Members returns a copy of the ordered member list.
func (r *Roster) Members() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Add appends a new member in join order.
func (r *Roster) Add(m Member) error {
	if r.Contains(m.ID) {
		return ErrDuplicateMember
	}
	if r.Full() {
		return ErrRosterFull
	}
	r.members = append(r.members, m)
	return nil
}

// Remove drops id from the roster. Removing a member from a full epoch
// reopens it. The leader entry is never removed; a leader that goes away
// ends the epoch at a higher layer.
func (r *Roster) Remove(id PeerID) bool {
	for i := 1; i < len(r.members); i++ {
		if r.members[i].ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}
