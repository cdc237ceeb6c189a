package store

import (
	"sync"

	"staybook/pkg/domain"
)

// MemoryStore keeps all collections in-process. It mirrors FileStore's
// semantics without durability; tests and non-durable deployments use it.
type MemoryStore struct {
	mu            sync.RWMutex
	users         []domain.User
	email         map[string]int // email -> index into users
	hotels        []domain.Hotel
	bookings      []domain.Booking
	nextUserID    int64
	nextBookingID int64
}

// NewMemoryStore initializes a store pre-populated with the given hotels.
func NewMemoryStore(hotels ...domain.Hotel) *MemoryStore {
	return &MemoryStore{
		email:         make(map[string]int),
		hotels:        append([]domain.Hotel(nil), hotels...),
		nextUserID:    1,
		nextBookingID: 1,
	}
}

// CreateUser registers a user, assigning the next id.
func (m *MemoryStore) CreateUser(user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.email[user.Email]; exists {
		return domain.User{}, ErrEmailTaken
	}
	user.ID = m.nextUserID
	m.nextUserID++
	m.email[user.Email] = len(m.users)
	m.users = append(m.users, user)
	return user, nil
}

// HasUserEmail checks if the email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	return m.users[idx], true, nil
}

// GetUserByID returns a user by id.
func (m *MemoryStore) GetUserByID(id int64) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

// UserCount returns the number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// ListHotels returns all hotels in insertion order.
func (m *MemoryStore) ListHotels() ([]domain.Hotel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Hotel(nil), m.hotels...), nil
}

// GetHotel returns one hotel by id.
func (m *MemoryStore) GetHotel(id int64) (domain.Hotel, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.hotels {
		if h.ID == id {
			return h, true, nil
		}
	}
	return domain.Hotel{}, false, nil
}

// CreateBooking appends a booking, assigning the next id.
func (m *MemoryStore) CreateBooking(booking domain.Booking) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = m.nextBookingID
	m.nextBookingID++
	m.bookings = append(m.bookings, booking)
	return booking, nil
}

// ListBookings returns all bookings in insertion order.
func (m *MemoryStore) ListBookings() ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Booking(nil), m.bookings...), nil
}

// ListBookingsByUser returns the bookings created by one user.
func (m *MemoryStore) ListBookingsByUser(userID int64) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := []domain.Booking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			res = append(res, b)
		}
	}
	return res, nil
}
