package store

import (
	"errors"

	"staybook/pkg/domain"
)

var (
	// ErrNotInitialized is returned when the data file does not exist yet.
	ErrNotInitialized = errors.New("data file not initialized")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Store defines persistence operations for users, hotels, and bookings.
type Store interface {
	// users
	CreateUser(user domain.User) (domain.User, error)
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id int64) (domain.User, bool, error)
	UserCount() (int, error)

	// hotels
	ListHotels() ([]domain.Hotel, error)
	GetHotel(id int64) (domain.Hotel, bool, error)

	// bookings
	CreateBooking(booking domain.Booking) (domain.Booking, error)
	ListBookings() ([]domain.Booking, error)
	ListBookingsByUser(userID int64) ([]domain.Booking, error)
}
