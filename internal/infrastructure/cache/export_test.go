package cache

import "time"

func SetClock(s *MemoryIdempotencyStore, now func() time.Time) { s.now = now }
