package cron

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSpec(t *testing.T) {
	cases := []struct {
		at   string
		want string
	}{
		{"18:00", "0 18 * * *"},
		{"07:05", "5 7 * * *"},
		{"00:30", "30 0 * * *"},
		{"23:59", "59 23 * * *"},
	}
	for _, tc := range cases {
		t.Run(tc.at, func(t *testing.T) {
			spec, err := CronSpec(tc.at)
			require.NoError(t, err)
			assert.Equal(t, tc.want, spec)
		})
	}
}

func TestCronSpecRejectsMalformedTimes(t *testing.T) {
	for _, at := range []string{"", "18", "18:00:00"} {
		_, err := CronSpec(at)
		assert.Error(t, err, "expected %q to be rejected", at)
	}
}

type generatorStub struct {
	ran bool
	err error
}

func (g *generatorStub) GenerateDailySlots(ctx context.Context, location, date string) (int, error) {
	return 0, nil
}

func (g *generatorStub) GenerateTomorrow(ctx context.Context) (bool, error) {
	return g.ran, g.err
}

func (g *generatorStub) NextOperatingDay(from time.Time) time.Time { return from }

func TestHandleGenerateNext(t *testing.T) {
	task := asynq.NewTask(TypeGenerateNext, nil)

	// a skipped non-operating day is not a task failure
	handler := handleGenerateNext(&generatorStub{ran: false})
	assert.NoError(t, handler(context.Background(), task))

	handler = handleGenerateNext(&generatorStub{ran: true})
	assert.NoError(t, handler(context.Background(), task))

	// generation errors propagate so asynq retries the task
	wantErr := assert.AnError
	handler = handleGenerateNext(&generatorStub{ran: true, err: wantErr})
	assert.ErrorIs(t, handler(context.Background(), task), wantErr)
}
