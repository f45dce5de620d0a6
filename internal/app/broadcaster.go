package app

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
)

// Broadcaster paces outbound player_state posts. The simulation loop calls
// Post every tick; the limiter thins that down to the configured broadcast
// interval, and to the slower background interval while the client is
// unfocused. A dropped post is not a loss: the next allowed one carries the
// newest state anyway.
type Broadcaster struct {
	session    *Session
	limiter    *rate.Limiter
	interval   time.Duration
	background time.Duration
}

func NewBroadcaster(session *Session, interval, background time.Duration) *Broadcaster {
	return &Broadcaster{
		session:    session,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		interval:   interval,
		background: background,
	}
}

// SetFocused switches between foreground and background pacing.
func (b *Broadcaster) SetFocused(focused bool) {
	if focused {
		b.limiter.SetLimit(rate.Every(b.interval))
		return
	}
	b.limiter.SetLimit(rate.Every(b.background))
}

// Post forwards p to the session when the limiter allows it. Returns whether
// the post went out.
func (b *Broadcaster) Post(p domain.PlayerStatePayload) bool {
	if !b.limiter.Allow() {
		return false
	}
	b.session.PostState(p)
	return true
}
