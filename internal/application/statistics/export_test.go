package statistics

import "time"

func SetClock(uc *StatisticsUseCase, now func() time.Time) { uc.now = now }
