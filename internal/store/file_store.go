package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"staybook/pkg/domain"
)

// FileStore persists all collections in a single JSON document on disk.
//
// Every mutation runs load -> mutate -> save while holding an exclusive lock,
// so two concurrent writes can never interleave around the file I/O and lose
// an update. Saves go through a temp file plus rename, so readers never
// observe a partially written document.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore prepares a store rooted at the given document path. The parent
// directory is created if missing; the document itself is not.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// InitializeIfAbsent writes the seed document when no document exists yet.
// Called once at process start, before any request is served.
func (f *FileStore) InitializeIfAbsent() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat data file: %w", err)
	}
	return f.save(seedDocument())
}

func (f *FileStore) load() (document, error) {
	var doc document
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, fmt.Errorf("%w: %s", ErrNotInitialized, f.path)
		}
		return doc, fmt.Errorf("read data file: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse data file: %w", err)
	}
	return doc, nil
}

func (f *FileStore) save(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".staybook-*.json")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// update runs a mutation as a single serialized read-modify-write.
func (f *FileStore) update(mutate func(*document) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	if err := mutate(&doc); err != nil {
		return err
	}
	return f.save(doc)
}

// view runs a read against a consistent snapshot of the document.
func (f *FileStore) view(read func(document) error) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	return read(doc)
}

// CreateUser appends a user with a fresh id. Email uniqueness is checked
// inside the same locked mutation, so duplicate registrations cannot race.
func (f *FileStore) CreateUser(user domain.User) (domain.User, error) {
	err := f.update(func(doc *document) error {
		for _, rec := range doc.Users {
			if rec.Email == user.Email {
				return ErrEmailTaken
			}
		}
		user.ID = doc.takeUserID()
		doc.Users = append(doc.Users, recordFromUser(user))
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// HasUserEmail checks if the email exists.
func (f *FileStore) HasUserEmail(email string) (bool, error) {
	var found bool
	err := f.view(func(doc document) error {
		for _, rec := range doc.Users {
			if rec.Email == email {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// GetUserByEmail looks up a user by email.
func (f *FileStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var user domain.User
	var found bool
	err := f.view(func(doc document) error {
		for _, rec := range doc.Users {
			if rec.Email == email {
				user = rec.toUser()
				found = true
				return nil
			}
		}
		return nil
	})
	return user, found, err
}

// GetUserByID returns a user by id.
func (f *FileStore) GetUserByID(id int64) (domain.User, bool, error) {
	var user domain.User
	var found bool
	err := f.view(func(doc document) error {
		for _, rec := range doc.Users {
			if rec.ID == id {
				user = rec.toUser()
				found = true
				return nil
			}
		}
		return nil
	})
	return user, found, err
}

// UserCount returns the number of users.
func (f *FileStore) UserCount() (int, error) {
	var count int
	err := f.view(func(doc document) error {
		count = len(doc.Users)
		return nil
	})
	return count, err
}

// ListHotels returns all hotels in document order.
func (f *FileStore) ListHotels() ([]domain.Hotel, error) {
	var hotels []domain.Hotel
	err := f.view(func(doc document) error {
		hotels = append([]domain.Hotel(nil), doc.Hotels...)
		return nil
	})
	return hotels, err
}

// GetHotel returns one hotel by id.
func (f *FileStore) GetHotel(id int64) (domain.Hotel, bool, error) {
	var hotel domain.Hotel
	var found bool
	err := f.view(func(doc document) error {
		for _, h := range doc.Hotels {
			if h.ID == id {
				hotel = h
				found = true
				return nil
			}
		}
		return nil
	})
	return hotel, found, err
}

// CreateBooking appends a booking with a fresh id.
func (f *FileStore) CreateBooking(booking domain.Booking) (domain.Booking, error) {
	err := f.update(func(doc *document) error {
		booking.ID = doc.takeBookingID()
		doc.Bookings = append(doc.Bookings, booking)
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

// ListBookings returns all bookings in document order.
func (f *FileStore) ListBookings() ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := f.view(func(doc document) error {
		bookings = append([]domain.Booking(nil), doc.Bookings...)
		return nil
	})
	return bookings, err
}

// ListBookingsByUser returns the bookings created by one user.
func (f *FileStore) ListBookingsByUser(userID int64) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	err := f.view(func(doc document) error {
		for _, b := range doc.Bookings {
			if b.UserID == userID {
				bookings = append(bookings, b)
			}
		}
		return nil
	})
	return bookings, err
}
