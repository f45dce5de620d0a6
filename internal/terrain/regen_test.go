package terrain

import "testing"

func TestApplySeedWithEmptyCacheAdoptsImmediately(t *testing.T) {
	cache := newTestCache(0)
	cache.ApplySeed(42, 2.0)
	if cache.Transitioning() {
		t.Fatal("no transition expected when no chunks are cached")
	}
	if cache.Seed() != 42 {
		t.Fatalf("seed = %d, want 42", cache.Seed())
	}

	// Chunks created afterwards use the new baseline.
	cache.Update(0, 0)
	ch, _ := cache.Chunk(ChunkKey{})
	if got := ch.HeightAt(0, 0); got != Height(42, -50, -50) {
		t.Fatalf("new chunk sampled under wrong seed: %v", got)
	}
}

func TestApplySeedInterpolatesThenCompletes(t *testing.T) {
	cache := newTestCache(1)
	cache.Update(0, 0)

	ch, _ := cache.Chunk(ChunkKey{})
	old := make([]float64, len(ch.Heights))
	copy(old, ch.Heights)

	target := make([]float64, len(ch.Heights))
	sampleHeights(2, ChunkKey{}, 100, 4, target)

	cache.ApplySeed(2, 1.0)
	if !cache.Transitioning() {
		t.Fatal("expected an active transition")
	}

	cache.Advance(0.5)
	for i := range ch.Heights {
		want := old[i] + (target[i]-old[i])*0.5
		if ch.Heights[i] != want {
			t.Fatalf("vertex %d at t=0.5: %v, want %v", i, ch.Heights[i], want)
		}
	}

	cache.Advance(0.5)
	if cache.Transitioning() {
		t.Fatal("transition should have cleared at t=1")
	}
	if cache.Seed() != 2 {
		t.Fatalf("seed = %d, want 2", cache.Seed())
	}
	for i := range ch.Heights {
		if ch.Heights[i] != target[i] {
			t.Fatalf("vertex %d after completion: %v, want %v", i, ch.Heights[i], target[i])
		}
	}
}

func TestApplySeedRestartsFromCurrentInterpolatedState(t *testing.T) {
	cache := newTestCache(1)
	cache.Update(0, 0)
	ch, _ := cache.Chunk(ChunkKey{})

	cache.ApplySeed(2, 1.0)
	cache.Advance(0.25)

	partway := make([]float64, len(ch.Heights))
	copy(partway, ch.Heights)

	// Re-seeding mid-transition restarts from the interpolated samples, not
	// from the original baseline.
	cache.ApplySeed(3, 1.0)
	for i := range ch.Heights {
		if ch.Heights[i] != partway[i] {
			t.Fatalf("vertex %d moved on restart: %v != %v", i, ch.Heights[i], partway[i])
		}
	}

	target := make([]float64, len(ch.Heights))
	sampleHeights(3, ChunkKey{}, 100, 4, target)

	cache.Advance(0.5)
	for i := range ch.Heights {
		want := partway[i] + (target[i]-partway[i])*0.5
		if ch.Heights[i] != want {
			t.Fatalf("vertex %d at restarted t=0.5: %v, want %v", i, ch.Heights[i], want)
		}
	}

	cache.Advance(0.6)
	if cache.Transitioning() {
		t.Fatal("restarted transition should have completed")
	}
	if cache.Seed() != 3 {
		t.Fatalf("seed = %d, want 3", cache.Seed())
	}
}

func TestChunkCreatedMidTransitionUsesPendingSeed(t *testing.T) {
	cache := newTestCache(1)
	cache.Update(0, 0)
	cache.ApplySeed(2, 10.0)

	// Move so a brand-new chunk materializes while the transition runs.
	cache.Update(1000, 0)
	ch, ok := cache.Chunk(ChunkKey{CX: 10, CZ: 0})
	if !ok {
		t.Fatal("expected chunk (10,0)")
	}
	if got, want := ch.HeightAt(0, 0), Height(2, 950, -50); got != want {
		t.Fatalf("mid-transition chunk sampled %v, want pending-seed value %v", got, want)
	}
}
