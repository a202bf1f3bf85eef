package slot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campusshuttle/models"
	"campusshuttle/utils"
)

// DateLayout is the calendar-date format used throughout the slot store.
const DateLayout = "2006-01-02"

// GenerateDailySlots upserts the full timetable for one location and date.
// Each departure is upserted by natural key, so a partial failure can be
// retried by simply re-invoking the generator.
func (s *DefaultService) GenerateDailySlots(ctx context.Context, location, date string) (int, error) {
	if _, err := time.ParseInLocation(DateLayout, date, s.timezone()); err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	logger := utils.GetLogger().With(
		zap.String("op", "generateDailySlots"),
		zap.String("location", location),
		zap.String("date", date),
	)

	created := 0
	upsert := func(departure, direction string) error {
		wasCreated, err := s.Repo.Upsert(ctx, models.Slot{
			Location:  location,
			Date:      date,
			Time:      departure,
			Direction: direction,
			Capacity:  s.DefaultCapacity,
		})
		if err != nil {
			return fmt.Errorf("failed to generate %s %s slot: %w", direction, departure, err)
		}
		if wasCreated {
			created++
		}
		return nil
	}

	for _, departure := range s.MorningTimes {
		if err := upsert(departure, models.DirectionToCollege); err != nil {
			return created, err
		}
	}
	for _, departure := range s.AfternoonTimes {
		if err := upsert(departure, models.DirectionFromCollege); err != nil {
			return created, err
		}
	}

	logger.Info("slot generation complete", zap.Int("created", created))
	return created, nil
}

// GenerateTomorrow is the daily trigger body. Non-operating days are skipped
// silently; per-location failures are logged and do not stop the remaining
// locations.
func (s *DefaultService) GenerateTomorrow(ctx context.Context) (bool, error) {
	tomorrow := s.now().In(s.timezone()).AddDate(0, 0, 1)
	if s.NonOperating[tomorrow.Weekday()] {
		utils.GetLogger().Debug("skipping slot generation for non-operating day",
			zap.String("date", tomorrow.Format(DateLayout)),
		)
		return false, nil
	}

	date := tomorrow.Format(DateLayout)
	var firstErr error
	for _, location := range s.Locations {
		if _, err := s.GenerateDailySlots(ctx, location, date); err != nil {
			utils.GetLogger().Error("slot generation failed",
				zap.String("location", location),
				zap.String("date", date),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return true, firstErr
}

// NextOperatingDay returns the first operating day strictly after from.
func (s *DefaultService) NextOperatingDay(from time.Time) time.Time {
	day := from.In(s.timezone()).AddDate(0, 0, 1)
	for s.NonOperating[day.Weekday()] {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
