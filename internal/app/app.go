package app

import (
	"errors"
	"strings"
	"time"

	"staybook/internal/session"
	"staybook/internal/store"
	"staybook/pkg/auth"
	"staybook/pkg/domain"
)

// Config wires required dependencies for the core application.
type Config struct {
	Store    store.Store
	Sessions *session.Manager
}

// App composes persistence and sessions into the booking operations.
type App struct {
	store    store.Store
	sessions *session.Manager
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	return &App{
		store:    cfg.Store,
		sessions: cfg.Sessions,
	}, nil
}

// SessionTTL exposes the token validity window for cookie Max-Age.
func (a *App) SessionTTL() time.Duration {
	return a.sessions.TTL()
}

// Register creates a user and issues a session token.
func (a *App) Register(name, email, password string) (domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return domain.User{}, "", validationError("name, email, and password are required")
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, "", validationError(err.Error())
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", storageError("server error", err)
	}
	user, err := a.store.CreateUser(domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return domain.User{}, "", conflictError("user already exists")
		}
		return domain.User{}, "", storageError("server error", err)
	}
	token, err := a.sessions.Issue(user)
	if err != nil {
		return domain.User{}, "", storageError("server error", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token.
// The password check is a bcrypt digest comparison, never plaintext equality.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", storageError("server error", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", authError("invalid credentials")
	}
	token, err := a.sessions.Issue(user)
	if err != nil {
		return domain.User{}, "", storageError("server error", err)
	}
	return user, token, nil
}

// Authenticate resolves session claims from a token.
func (a *App) Authenticate(token string) (session.Claims, error) {
	claims, err := a.sessions.Verify(token)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return session.Claims{}, authError("invalid or expired token")
		}
		return session.Claims{}, storageError("server error", err)
	}
	return claims, nil
}

// Logout revokes the token for its remaining lifetime when a revoker is
// configured; otherwise logout is client-side cookie removal only.
func (a *App) Logout(token string) error {
	if err := a.sessions.Revoke(token); err != nil {
		return storageError("server error", err)
	}
	return nil
}

// ListHotels returns the full hotel catalog.
func (a *App) ListHotels() ([]domain.Hotel, error) {
	hotels, err := a.store.ListHotels()
	if err != nil {
		return nil, storageError("server error", err)
	}
	return hotels, nil
}

// GetHotel returns one hotel by id.
func (a *App) GetHotel(id int64) (domain.Hotel, error) {
	hotel, ok, err := a.store.GetHotel(id)
	if err != nil {
		return domain.Hotel{}, storageError("server error", err)
	}
	if !ok {
		return domain.Hotel{}, notFoundError("hotel not found")
	}
	return hotel, nil
}

// BookingRequest carries the client-supplied booking fields.
type BookingRequest struct {
	CheckIn  time.Time       `json:"checkIn"`
	CheckOut time.Time       `json:"checkOut"`
	Guests   int             `json:"guests"`
	RoomType domain.RoomType `json:"roomType"`
}

// CreateBooking validates and persists a booking for the authenticated user.
// availableRooms is advisory and is not decremented.
func (a *App) CreateBooking(userID, hotelID int64, req BookingRequest) (domain.Booking, error) {
	hotel, ok, err := a.store.GetHotel(hotelID)
	if err != nil {
		return domain.Booking{}, storageError("server error", err)
	}
	if !ok {
		return domain.Booking{}, notFoundError("hotel not found")
	}
	if _, ok, err := a.store.GetUserByID(userID); err != nil {
		return domain.Booking{}, storageError("server error", err)
	} else if !ok {
		return domain.Booking{}, authError("unknown user")
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return domain.Booking{}, validationError("checkIn and checkOut are required")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return domain.Booking{}, validationError("check-out date must be after check-in date")
	}
	if req.Guests < 1 {
		return domain.Booking{}, validationError("number of guests must be at least 1")
	}
	if !domain.ValidRoomType(req.RoomType) {
		return domain.Booking{}, validationError("invalid room type")
	}
	booking, err := a.store.CreateBooking(domain.Booking{
		HotelID:   hotel.ID,
		UserID:    userID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
		RoomType:  req.RoomType,
		Status:    domain.BookingConfirmed,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Booking{}, storageError("server error", err)
	}
	return booking, nil
}

// ListUserBookings returns the authenticated user's bookings.
func (a *App) ListUserBookings(userID int64) ([]domain.Booking, error) {
	bookings, err := a.store.ListBookingsByUser(userID)
	if err != nil {
		return nil, storageError("server error", err)
	}
	return bookings, nil
}
