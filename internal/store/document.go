package store

import (
	"time"

	"staybook/pkg/domain"
)

// document is the on-disk JSON layout: three record collections plus the
// persisted id counters. Counters are omitted when zero so documents written
// by older deployments (which derived ids from collection length) still load.
type document struct {
	Users         []userRecord     `json:"users"`
	Hotels        []domain.Hotel   `json:"hotels"`
	Bookings      []domain.Booking `json:"bookings"`
	NextUserID    int64            `json:"nextUserId,omitempty"`
	NextBookingID int64            `json:"nextBookingId,omitempty"`
}

// userRecord is the persisted user shape. The password column holds the
// bcrypt hash; it never appears in API responses because domain.User
// excludes it from JSON.
type userRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

func recordFromUser(u domain.User) userRecord {
	return userRecord{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
}

func (r userRecord) toUser() domain.User {
	return domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt,
	}
}

// takeUserID returns the next user id and advances the counter. Documents
// predating the counter fall back to max existing id + 1.
func (d *document) takeUserID() int64 {
	id := d.NextUserID
	if id <= 0 {
		id = 1
		for _, u := range d.Users {
			if u.ID >= id {
				id = u.ID + 1
			}
		}
	}
	d.NextUserID = id + 1
	return id
}

func (d *document) takeBookingID() int64 {
	id := d.NextBookingID
	if id <= 0 {
		id = 1
		for _, b := range d.Bookings {
			if b.ID >= id {
				id = b.ID + 1
			}
		}
	}
	d.NextBookingID = id + 1
	return id
}
