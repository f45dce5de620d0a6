package app_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/JayBlankenship/WaterWorld5/internal/app"
	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/logging"
)

func newIdleBroadcaster(t *testing.T, interval, background time.Duration) *app.Broadcaster {
	t.Helper()
	net := newMemNetwork()
	s := app.NewSession(testConfig(2), net.endpoint("a"), newFakeDirectory(), nil,
		rand.New(rand.NewSource(1)), logging.Nop{})
	return app.NewBroadcaster(s, interval, background)
}

func TestBroadcasterThinsPosts(t *testing.T) {
	b := newIdleBroadcaster(t, 50*time.Millisecond, time.Second)

	if !b.Post(domain.PlayerStatePayload{}) {
		t.Fatal("first post was throttled")
	}
	if b.Post(domain.PlayerStatePayload{}) {
		t.Fatal("immediate second post went out")
	}

	time.Sleep(60 * time.Millisecond)
	if !b.Post(domain.PlayerStatePayload{}) {
		t.Fatal("post after a full interval was throttled")
	}
}

func TestBroadcasterBackgroundPacing(t *testing.T) {
	b := newIdleBroadcaster(t, 10*time.Millisecond, time.Hour)

	if !b.Post(domain.PlayerStatePayload{}) {
		t.Fatal("first post was throttled")
	}
	b.SetFocused(false)

	// At background pace nothing further goes out within the test window.
	time.Sleep(30 * time.Millisecond)
	if b.Post(domain.PlayerStatePayload{}) {
		t.Fatal("background pacing allowed a foreground-rate post")
	}

	b.SetFocused(true)
	time.Sleep(15 * time.Millisecond)
	if !b.Post(domain.PlayerStatePayload{}) {
		t.Fatal("refocus did not restore foreground pacing")
	}
}
