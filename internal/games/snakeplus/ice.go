package snakeplus

import "time"

// placeInitialIce scatters the session's starting ice tiles. Each tile gets a
// staggered spawn time so they fade in over the first moments of play.
func (s *Sim) placeInitialIce(start time.Duration) {
	size := s.st.GridSize
	count := max(1, int(float64(size*size)*s.cfg.Ice.TileChance))

	free := s.freeCells()
	count = min(count, len(free))
	for i := 0; i < count; i++ {
		j := i + s.rng.Intn(len(free)-i)
		free[i], free[j] = free[j], free[i]
		s.st.Ice = append(s.st.Ice, IceTile{
			Point:     free[i],
			SpawnedAt: start + s.stagger(s.cfg.Ice.SpawnStagger),
		})
	}
}

// spawnIceTile places one replacement tile at a random free cell with bounded
// retries. It reports false when the board is too crowded.
func (s *Sim) spawnIceTile(now time.Duration) (IceTile, bool) {
	size := s.st.GridSize
	for i := 0; i < s.cfg.Ice.RespawnAttempts; i++ {
		p := Point{X: s.rng.Intn(size), Y: s.rng.Intn(size)}
		if s.onSnake(p) || s.foodAt(p) || s.iceAt(p) >= 0 {
			continue
		}
		t := IceTile{Point: p, SpawnedAt: now + s.stagger(s.cfg.Ice.RespawnStagger)}
		s.st.Ice = append(s.st.Ice, t)
		return t, true
	}
	return IceTile{}, false
}

func (s *Sim) stagger(window time.Duration) time.Duration {
	if window <= 0 {
		return 0
	}
	return time.Duration(s.rng.Int63n(int64(window)))
}

// extendIceBoost adds the ice boost duration to a rolling timer. Time stacks,
// the multiplier does not.
func (s *Sim) extendIceBoost(now time.Duration) {
	if !s.cfg.Ice.Boost.Enabled || s.iceAt(s.st.Head()) < 0 {
		return
	}
	s.st.IceBoostUntil = max(s.st.IceBoostUntil, now) + s.cfg.Ice.Boost.Duration
}

// stepOnIce applies sliding and breakage for the tile under the head.
func (s *Sim) stepOnIce(now time.Duration, ev *[]Event) {
	i := s.iceAt(s.st.Head())
	if i < 0 {
		return
	}
	s.st.NextDirection = s.st.Direction
	s.st.Sliding = true

	t := &s.st.Ice[i]
	if t.Broken {
		return
	}
	t.Broken = true
	t.DespawnAt = now
	*ev = append(*ev, Event{Kind: EventIceBroken, At: t.Point})
	if !t.RespawnScheduled {
		t.RespawnScheduled = true
		s.st.PendingIceRespawns = append(s.st.PendingIceRespawns, now+s.cfg.Ice.RespawnDelay)
	}
}

// purgeIce drops broken tiles whose fade-out has finished.
func (s *Sim) purgeIce(now time.Duration) {
	live := s.st.Ice[:0]
	for _, t := range s.st.Ice {
		if t.Broken && now-t.DespawnAt >= s.cfg.Ice.FadeWindow {
			continue
		}
		live = append(live, t)
	}
	s.st.Ice = live
}

// respawnIce places one tile for every queued respawn that is due.
// A respawn that finds no room is dropped.
func (s *Sim) respawnIce(now time.Duration, ev *[]Event) {
	if len(s.st.PendingIceRespawns) == 0 {
		return
	}
	pending := s.st.PendingIceRespawns[:0]
	var due int
	for _, when := range s.st.PendingIceRespawns {
		if when <= now {
			due++
			continue
		}
		pending = append(pending, when)
	}
	s.st.PendingIceRespawns = pending

	for range due {
		if t, ok := s.spawnIceTile(now); ok {
			*ev = append(*ev, Event{Kind: EventIceRespawned, At: t.Point})
		}
	}
}

// iceAt returns the index of the tile at p, or -1.
func (s *Sim) iceAt(p Point) int {
	for i, t := range s.st.Ice {
		if t.Point == p {
			return i
		}
	}
	return -1
}
