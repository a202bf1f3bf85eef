package booking_test

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	bookingRepo "campusshuttle/database/repository/booking"
	slotRepo "campusshuttle/database/repository/slot"
	"campusshuttle/models"
)

// memStore is an in-memory stand-in for the slots and students collections.
// Its transactional repository enforces the same guarded conditional-update
// semantics as the Mongo implementation: capacity and balance are
// re-checked under the store lock, so concurrent bookings serialize exactly
// like the production conditional updates do.
type memStore struct {
	mu       sync.Mutex
	slots    map[string]*models.Slot
	students map[string]*models.Student
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[string]*models.Slot),
		students: make(map[string]*models.Student),
	}
}

func (m *memStore) addSlot(s models.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Students == nil {
		s.Students = []string{}
	}
	cp := s
	m.slots[s.ID] = &cp
}

func (m *memStore) addStudent(s models.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Bookings == nil {
		s.Bookings = []models.Booking{}
	}
	cp := s
	m.students[s.ID] = &cp
}

func copySlot(s *models.Slot) *models.Slot {
	cp := *s
	cp.Students = append([]string(nil), s.Students...)
	return &cp
}

func copyStudent(s *models.Student) *models.Student {
	cp := *s
	cp.Bookings = append([]models.Booking(nil), s.Bookings...)
	return &cp
}

// fakeSlotRepo implements slotRepo.SlotRepository over the memStore.
type fakeSlotRepo struct{ store *memStore }

func (f *fakeSlotRepo) Upsert(ctx context.Context, slot models.Slot) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, existing := range f.store.slots {
		if existing.Location == slot.Location && existing.Date == slot.Date &&
			existing.Time == slot.Time && existing.Direction == slot.Direction {
			return false, nil
		}
	}
	if slot.Students == nil {
		slot.Students = []string{}
	}
	cp := slot
	f.store.slots[slot.ID] = &cp
	return true, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.slots[id]
	if !ok {
		return nil, nil
	}
	return copySlot(s), nil
}

func (f *fakeSlotRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Slot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []models.Slot
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := f.store.slots[id]; ok {
			out = append(out, *copySlot(s))
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) Query(ctx context.Context, q models.SlotQuery) ([]models.Slot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []models.Slot
	for _, s := range f.store.slots {
		if q.Date != "" && s.Date != q.Date {
			continue
		}
		if q.Location != "" && s.Location != q.Location {
			continue
		}
		if q.Direction != "" && s.Direction != q.Direction {
			continue
		}
		out = append(out, *copySlot(s))
	}
	return out, nil
}

func (f *fakeSlotRepo) UpdateFields(ctx context.Context, id string, upd models.SlotUpdate) (*models.Slot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrNotFound
	}
	if upd.Capacity != nil && *upd.Capacity < len(s.Students) {
		return nil, slotRepo.ErrCapacityBelowOccupancy
	}
	if upd.Time != nil {
		s.Time = *upd.Time
	}
	if upd.Capacity != nil {
		s.Capacity = *upd.Capacity
	}
	return copySlot(s), nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.slots[id]
	if !ok {
		return slotRepo.ErrNotFound
	}
	if len(s.Students) > 0 {
		return slotRepo.ErrHasBookings
	}
	delete(f.store.slots, id)
	return nil
}

func (f *fakeSlotRepo) UsageByDate(ctx context.Context, date, location string) ([]models.UsageStat, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	byDir := make(map[string]*models.UsageStat)
	for _, s := range f.store.slots {
		if s.Date != date {
			continue
		}
		if location != "" && s.Location != location {
			continue
		}
		stat, ok := byDir[s.Direction]
		if !ok {
			stat = &models.UsageStat{Direction: s.Direction}
			byDir[s.Direction] = stat
		}
		stat.SlotCount++
		stat.TotalCapacity += s.Capacity
		stat.BookedSeats += len(s.Students)
	}
	var out []models.UsageStat
	for _, stat := range byDir {
		if stat.TotalCapacity > 0 {
			stat.Occupancy = float64(stat.BookedSeats) / float64(stat.TotalCapacity)
		}
		out = append(out, *stat)
	}
	return out, nil
}

// fakeStudentRepo implements studentRepo.StudentRepository over the memStore.
type fakeStudentRepo struct{ store *memStore }

func (f *fakeStudentRepo) Create(student *models.Student) error {
	f.store.addStudent(*student)
	return nil
}

func (f *fakeStudentRepo) Update(student *models.Student) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cp := *student
	f.store.students[student.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) Delete(id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	delete(f.store.students, id)
	return nil
}

func (f *fakeStudentRepo) GetByID(id string) (*models.Student, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.students[id]
	if !ok {
		return nil, nil
	}
	return copyStudent(s), nil
}

func (f *fakeStudentRepo) GetByEmail(email string) (*models.Student, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, s := range f.store.students {
		if s.Email == email {
			return copyStudent(s), nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Student, error) {
	return f.GetByID(id)
}

func (f *fakeStudentRepo) GetAll() ([]models.Student, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []models.Student
	for _, s := range f.store.students {
		out = append(out, *copyStudent(s))
	}
	return out, nil
}

func (f *fakeStudentRepo) UpdateTokenHash(id, tokenHash string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.students[id]
	if !ok {
		return nil
	}
	s.TokenHash = tokenHash
	return nil
}

func (f *fakeStudentRepo) AddRides(id string, n int) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	s, ok := f.store.students[id]
	if !ok {
		return 0, nil
	}
	s.RemainingRides += n
	return s.RemainingRides, nil
}

// fakeTxRepo implements bookingRepo.TxRepository with the production guard
// semantics under the store lock.
type fakeTxRepo struct {
	store *memStore
	// failAfterSlots simulates a crash between the slot writes and the
	// student write; the lock makes the whole unit revert.
	failAfterSlots error
}

func (f *fakeTxRepo) BookRoundTrip(ctx context.Context, studentID string, booking models.Booking) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	student, ok := f.store.students[studentID]
	if !ok {
		return 0, bookingRepo.ErrStudentNotFound
	}
	goSlot, ok := f.store.slots[booking.GoSlotID]
	if !ok {
		return 0, bookingRepo.ErrSlotNotFound
	}
	returnSlot, ok := f.store.slots[booking.ReturnSlotID]
	if !ok {
		return 0, bookingRepo.ErrSlotNotFound
	}

	for _, s := range []*models.Slot{goSlot, returnSlot} {
		if s.HasStudent(studentID) {
			return 0, bookingRepo.ErrAlreadyBooked
		}
		if s.IsFull() {
			return 0, bookingRepo.ErrSlotFull
		}
	}
	if student.RemainingRides < models.RideCostPerBooking {
		return 0, bookingRepo.ErrInsufficientRides
	}
	if f.failAfterSlots != nil {
		return 0, f.failAfterSlots
	}

	goSlot.Students = append(goSlot.Students, studentID)
	returnSlot.Students = append(returnSlot.Students, studentID)
	student.Bookings = append(student.Bookings, booking)
	student.RemainingRides -= models.RideCostPerBooking
	return student.RemainingRides, nil
}

func (f *fakeTxRepo) CancelRoundTrip(ctx context.Context, studentID string, booking models.Booking) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	student, ok := f.store.students[studentID]
	if !ok {
		return 0, bookingRepo.ErrBookingNotFound
	}

	found := false
	kept := student.Bookings[:0]
	for _, b := range student.Bookings {
		if b.ID == booking.ID {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return 0, bookingRepo.ErrBookingNotFound
	}
	student.Bookings = kept
	student.RemainingRides += models.RideCostPerBooking

	for _, slotID := range []string{booking.GoSlotID, booking.ReturnSlotID} {
		if s, ok := f.store.slots[slotID]; ok {
			kept := s.Students[:0]
			for _, id := range s.Students {
				if id != studentID {
					kept = append(kept, id)
				}
			}
			s.Students = kept
		}
	}
	return student.RemainingRides, nil
}
