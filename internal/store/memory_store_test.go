package store

import (
	"errors"
	"testing"

	"staybook/pkg/domain"
)

func TestMemoryStoreUsers(t *testing.T) {
	m := NewMemoryStore(SeedHotels()...)
	alice, err := m.CreateUser(domain.User{Name: "alice", Email: "alice@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if alice.ID != 1 {
		t.Fatalf("expected id 1, got %d", alice.ID)
	}
	if _, err := m.CreateUser(domain.User{Name: "imposter", Email: "alice@example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	got, ok, err := m.GetUserByEmail("alice@example.com")
	if err != nil || !ok || got.ID != alice.ID {
		t.Fatalf("get by email: ok=%v err=%v got=%+v", ok, err, got)
	}
	if _, ok, _ := m.GetUserByID(99); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestMemoryStoreHotelsAndBookings(t *testing.T) {
	m := NewMemoryStore(SeedHotels()...)
	hotels, err := m.ListHotels()
	if err != nil {
		t.Fatalf("list hotels: %v", err)
	}
	if len(hotels) != 4 {
		t.Fatalf("expected 4 hotels, got %d", len(hotels))
	}
	if _, ok, _ := m.GetHotel(99); ok {
		t.Fatal("unknown hotel should not resolve")
	}

	first, err := m.CreateBooking(domain.Booking{HotelID: 1, UserID: 1, Guests: 2, RoomType: domain.RoomSuite})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	second, err := m.CreateBooking(domain.Booking{HotelID: 2, UserID: 2, Guests: 1, RoomType: domain.RoomStandard})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected sequential ids, got %d and %d", first.ID, second.ID)
	}
	mine, err := m.ListBookingsByUser(1)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 1 || mine[0].RoomType != domain.RoomSuite {
		t.Fatalf("unexpected user bookings: %+v", mine)
	}
}
