package slot

import (
	"context"
	"time"

	slotRepo "campusshuttle/database/repository/slot"
)

// Service generates the fixed daily slot calendar. Generation is idempotent:
// re-running for a (location, date) already on the calendar changes nothing.
type Service interface {
	// GenerateDailySlots ensures one slot exists per configured departure
	// time for the location and date. Returns how many slots were created.
	GenerateDailySlots(ctx context.Context, location, date string) (int, error)
	// GenerateTomorrow runs generation for every configured location for
	// tomorrow, skipping silently when tomorrow is a non-operating day.
	// Reports whether generation ran.
	GenerateTomorrow(ctx context.Context) (bool, error)
	// NextOperatingDay returns the first operating day strictly after from.
	NextOperatingDay(from time.Time) time.Time
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo slotRepo.SlotRepository

	Locations       []string
	MorningTimes    []string // to_college departures
	AfternoonTimes  []string // from_college departures
	DefaultCapacity int
	NonOperating    map[time.Weekday]bool
	Timezone        *time.Location
	Now             func() time.Time
}

func (s *DefaultService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultService) timezone() *time.Location {
	if s.Timezone != nil {
		return s.Timezone
	}
	return time.Local
}
