package booking_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusshuttle/models"
	"campusshuttle/services/booking"
)

func newTestEngine(store *memStore) *booking.DefaultEngine {
	return &booking.DefaultEngine{
		Slots:    &fakeSlotRepo{store: store},
		Students: &fakeStudentRepo{store: store},
		Tx:       &fakeTxRepo{store: store},
	}
}

func seedSlotPair(store *memStore, capacity int) (string, string) {
	store.addSlot(models.Slot{
		ID: "slot-go", Location: "Delhi", Date: "2026-09-02", Time: "07:00",
		Direction: models.DirectionToCollege, Capacity: capacity,
	})
	store.addSlot(models.Slot{
		ID: "slot-return", Location: "Delhi", Date: "2026-09-02", Time: "17:00",
		Direction: models.DirectionFromCollege, Capacity: capacity,
	})
	return "slot-go", "slot-return"
}

func requireBookingError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *booking.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
	assert.Equal(t, message, domainErr.Message)
}

func TestBookRoundTrip(t *testing.T) {
	// GIVEN a student with rides and an open slot pair
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)

	// WHEN the student books a round trip
	result, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})

	// THEN two rides are debited and both seats are taken
	require.NoError(t, err)
	assert.Equal(t, 4, result.RemainingRides)
	assert.NotEmpty(t, result.Booking.ID)
	assert.Equal(t, 10, result.Booking.GoSlot.AvailableSeats)
	assert.Equal(t, 10, result.Booking.ReturnSlot.AvailableSeats)
	assert.True(t, result.Booking.GoSlot.IsBooked)
	assert.True(t, result.Booking.ReturnSlot.IsBooked)

	goSlot, err := engine.Slots.GetByID(context.Background(), goID)
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1"}, goSlot.Students)
}

func TestBookRejectsInsufficientRides(t *testing.T) {
	// GIVEN a student with a single ride left
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 1})
	engine := newTestEngine(store)

	// WHEN they attempt to book a round trip
	_, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})

	// THEN the booking is rejected and nothing changes
	requireBookingError(t, err, booking.CodeInvalidState, "insufficient rides")

	student, _ := engine.Students.GetByID("stu-1")
	assert.Equal(t, 1, student.RemainingRides)
	assert.Empty(t, student.Bookings)
	goSlot, _ := engine.Slots.GetByID(context.Background(), goID)
	assert.Empty(t, goSlot.Students)
}

func TestBookRejectsFullSlot(t *testing.T) {
	// GIVEN an outbound slot already at capacity
	store := newMemStore()
	store.addSlot(models.Slot{
		ID: "slot-go", Location: "Delhi", Date: "2026-09-02", Time: "07:00",
		Direction: models.DirectionToCollege, Capacity: 1, Students: []string{"other"},
	})
	store.addSlot(models.Slot{
		ID: "slot-return", Location: "Delhi", Date: "2026-09-02", Time: "17:00",
		Direction: models.DirectionFromCollege, Capacity: 1,
	})
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 4})
	engine := newTestEngine(store)

	// WHEN another student tries to book it
	_, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: "slot-go", ReturnSlotID: "slot-return", Date: "2026-09-02",
	})

	// THEN the booking is rejected and no ride is debited
	requireBookingError(t, err, booking.CodeInvalidState, "slot full")
	student, _ := engine.Students.GetByID("stu-1")
	assert.Equal(t, 4, student.RemainingRides)
}

func TestBookRejectsDuplicateSlot(t *testing.T) {
	// GIVEN a student already occupying the outbound slot
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)

	_, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})
	require.NoError(t, err)

	// WHEN they try to book the same pair again
	_, err = engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})

	// THEN the second booking is rejected and only one debit stands
	requireBookingError(t, err, booking.CodeInvalidState, "already booked on this slot")
	student, _ := engine.Students.GetByID("stu-1")
	assert.Equal(t, 4, student.RemainingRides)
	assert.Len(t, student.Bookings, 1)
}

func TestBookUnknownSlotAndStudent(t *testing.T) {
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)

	_, err := engine.Book(context.Background(), "ghost", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})
	requireBookingError(t, err, booking.CodeNotFound, "student not found")

	_, err = engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: "missing", ReturnSlotID: returnID, Date: "2026-09-02",
	})
	requireBookingError(t, err, booking.CodeNotFound, "outbound slot not found")

	_, err = engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: "missing", Date: "2026-09-02",
	})
	requireBookingError(t, err, booking.CodeNotFound, "return slot not found")
}

func TestConcurrentBookingNeverOverfills(t *testing.T) {
	// GIVEN a slot pair with two seats and eight eager students
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 2)
	for i := 0; i < 8; i++ {
		store.addStudent(models.Student{ID: fmt.Sprintf("stu-%d", i), RemainingRides: 4})
	}
	engine := newTestEngine(store)

	// WHEN all of them book at the same time
	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.Book(context.Background(), fmt.Sprintf("stu-%d", i), models.BookingRequest{
				GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
			})
		}(i)
	}
	wg.Wait()

	// THEN exactly two win and occupancy never exceeds capacity
	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			requireBookingError(t, err, booking.CodeInvalidState, "slot full")
		}
	}
	assert.Equal(t, 2, wins)

	goSlot, _ := engine.Slots.GetByID(context.Background(), goID)
	returnSlot, _ := engine.Slots.GetByID(context.Background(), returnID)
	assert.Len(t, goSlot.Students, 2)
	assert.Len(t, returnSlot.Students, 2)

	// losers keep their full balance
	for i := 0; i < 8; i++ {
		student, _ := engine.Students.GetByID(fmt.Sprintf("stu-%d", i))
		if goSlot.HasStudent(student.ID) {
			assert.Equal(t, 2, student.RemainingRides)
		} else {
			assert.Equal(t, 4, student.RemainingRides)
		}
	}
}

func TestBookFailedTransactionLeavesNoPartialState(t *testing.T) {
	// GIVEN a transaction that fails after the precondition checks
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)
	engine.Tx = &fakeTxRepo{store: store, failAfterSlots: fmt.Errorf("connection reset")}

	// WHEN the booking is attempted
	_, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})

	// THEN the caller sees an internal error and no write survives
	requireBookingError(t, err, booking.CodeInternal, "booking failed, please try again")
	goSlot, _ := engine.Slots.GetByID(context.Background(), goID)
	assert.Empty(t, goSlot.Students)
	student, _ := engine.Students.GetByID("stu-1")
	assert.Equal(t, 6, student.RemainingRides)
	assert.Empty(t, student.Bookings)
}

func TestCancelRestoresRidesAndSeats(t *testing.T) {
	// GIVEN a confirmed round trip
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)

	result, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})
	require.NoError(t, err)

	// WHEN the student cancels it
	remaining, err := engine.Cancel(context.Background(), "stu-1", result.Booking.ID)

	// THEN the rides come back and both seats are released
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)

	goSlot, _ := engine.Slots.GetByID(context.Background(), goID)
	returnSlot, _ := engine.Slots.GetByID(context.Background(), returnID)
	assert.Empty(t, goSlot.Students)
	assert.Empty(t, returnSlot.Students)

	student, _ := engine.Students.GetByID("stu-1")
	assert.Empty(t, student.Bookings)

	// AND a second cancel of the same booking is rejected
	_, err = engine.Cancel(context.Background(), "stu-1", result.Booking.ID)
	requireBookingError(t, err, booking.CodeNotFound, "booking not found")
}

func TestCancelUnknownBooking(t *testing.T) {
	store := newMemStore()
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)

	_, err := engine.Cancel(context.Background(), "stu-1", "no-such-booking")
	requireBookingError(t, err, booking.CodeNotFound, "booking not found")

	_, err = engine.Cancel(context.Background(), "ghost", "no-such-booking")
	requireBookingError(t, err, booking.CodeNotFound, "student not found")
}

func TestCancelCutoffWindow(t *testing.T) {
	tz, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	setup := func(now time.Time) (*booking.DefaultEngine, string) {
		store := newMemStore()
		goID, returnID := seedSlotPair(store, 11)
		store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
		engine := newTestEngine(store)
		engine.CancelCutoff = time.Hour
		engine.Timezone = tz
		engine.Now = func() time.Time { return now }

		result, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
			GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
		})
		require.NoError(t, err)
		return engine, result.Booking.ID
	}

	t.Run("inside the window", func(t *testing.T) {
		// GIVEN a booking whose outbound shuttle leaves in 30 minutes
		engine, bookingID := setup(time.Date(2026, 9, 2, 6, 30, 0, 0, tz))

		// WHEN the student tries to cancel
		_, err := engine.Cancel(context.Background(), "stu-1", bookingID)

		// THEN the cancellation is rejected and the booking stands
		requireBookingError(t, err, booking.CodeInvalidState, "cancellation window closed")
		student, _ := engine.Students.GetByID("stu-1")
		assert.Len(t, student.Bookings, 1)
		assert.Equal(t, 4, student.RemainingRides)
	})

	t.Run("before the window", func(t *testing.T) {
		// GIVEN the same booking two hours ahead of departure
		engine, bookingID := setup(time.Date(2026, 9, 2, 5, 0, 0, 0, tz))

		remaining, err := engine.Cancel(context.Background(), "stu-1", bookingID)

		require.NoError(t, err)
		assert.Equal(t, 6, remaining)
	})
}

func TestListSlotsComputesAvailability(t *testing.T) {
	// GIVEN slots in two directions, one of them booked by the student
	store := newMemStore()
	store.addSlot(models.Slot{
		ID: "s1", Location: "Delhi", Date: "2026-09-02", Time: "07:00",
		Direction: models.DirectionToCollege, Capacity: 2, Students: []string{"stu-1", "stu-2"},
	})
	store.addSlot(models.Slot{
		ID: "s2", Location: "Delhi", Date: "2026-09-02", Time: "17:00",
		Direction: models.DirectionFromCollege, Capacity: 2, Students: []string{"stu-2"},
	})
	store.addSlot(models.Slot{
		ID: "s3", Location: "Mumbai", Date: "2026-09-02", Time: "07:00",
		Direction: models.DirectionToCollege, Capacity: 2,
	})
	engine := newTestEngine(store)

	// WHEN the student lists slots for their location
	slots, err := engine.ListSlots(context.Background(), "stu-1", models.SlotQuery{
		Date: "2026-09-02", Location: "Delhi",
	})

	// THEN availability and booking flags are computed per slot
	require.NoError(t, err)
	require.Len(t, slots, 2)
	byID := make(map[string]models.SlotResponse)
	for _, s := range slots {
		byID[s.ID] = s
	}

	assert.True(t, byID["s1"].IsFull)
	assert.True(t, byID["s1"].IsBooked)
	assert.Equal(t, 0, byID["s1"].AvailableSeats)

	assert.False(t, byID["s2"].IsFull)
	assert.False(t, byID["s2"].IsBooked)
	assert.Equal(t, 1, byID["s2"].AvailableSeats)
}

func TestListBookingsJoinsSlots(t *testing.T) {
	// GIVEN a student with one confirmed booking
	store := newMemStore()
	goID, returnID := seedSlotPair(store, 11)
	store.addStudent(models.Student{ID: "stu-1", RemainingRides: 6})
	engine := newTestEngine(store)

	result, err := engine.Book(context.Background(), "stu-1", models.BookingRequest{
		GoSlotID: goID, ReturnSlotID: returnID, Date: "2026-09-02",
	})
	require.NoError(t, err)

	// WHEN they list their bookings
	list, err := engine.ListBookings(context.Background(), "stu-1")

	// THEN the summary carries the balance and both slots
	require.NoError(t, err)
	assert.Equal(t, 4, list.RemainingRides)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, result.Booking.ID, list.Bookings[0].ID)
	assert.Equal(t, goID, list.Bookings[0].GoSlot.ID)
	assert.Equal(t, returnID, list.Bookings[0].ReturnSlot.ID)
	assert.Equal(t, "07:00", list.Bookings[0].GoSlot.Time)

	// AND an unknown student is rejected
	_, err = engine.ListBookings(context.Background(), "ghost")
	requireBookingError(t, err, booking.CodeNotFound, "student not found")
}
