package domain

import "time"

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomSuite    RoomType = "suite"
)

// ValidRoomType reports whether the value is a supported room type.
func ValidRoomType(rt RoomType) bool {
	switch rt {
	case RoomStandard, RoomDeluxe, RoomSuite:
		return true
	default:
		return false
	}
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Hotel struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	Price          float64  `json:"price"`
	Rating         float64  `json:"rating"`
	Images         []string `json:"images"`
	AvailableRooms int      `json:"availableRooms"`
}

type Booking struct {
	ID        int64         `json:"id"`
	HotelID   int64         `json:"hotelId"`
	UserID    int64         `json:"userId"`
	CheckIn   time.Time     `json:"checkIn"`
	CheckOut  time.Time     `json:"checkOut"`
	Guests    int           `json:"guests"`
	RoomType  RoomType      `json:"roomType"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
