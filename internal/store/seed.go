package store

import "staybook/pkg/domain"

// SeedHotels is the fixed starter catalog written on first run.
func SeedHotels() []domain.Hotel {
	return []domain.Hotel{
		{
			ID:          1,
			Name:        "Luxury Palace Hotel",
			Description: "Experience ultimate luxury in our 5-star hotel with breathtaking city views.",
			Location:    "Downtown City Center",
			Price:       300,
			Rating:      4.8,
			Images: []string{
				"https://images.unsplash.com/photo-1566073771259-6a8506099945",
			},
			AvailableRooms: 50,
		},
		{
			ID:          2,
			Name:        "Seaside Resort & Spa",
			Description: "Relax in our beachfront resort featuring private beach access.",
			Location:    "Coastal Boulevard",
			Price:       250,
			Rating:      4.6,
			Images: []string{
				"https://images.unsplash.com/photo-1571896349842-33c89424de2d",
			},
			AvailableRooms: 40,
		},
		{
			ID:          3,
			Name:        "Mountain View Lodge",
			Description: "A cozy mountain retreat with stunning views.",
			Location:    "Mountain Range",
			Price:       180,
			Rating:      4.5,
			Images: []string{
				"https://images.unsplash.com/photo-1517320964276-a002fa203177",
			},
			AvailableRooms: 30,
		},
		{
			ID:          4,
			Name:        "Business Elite Hotel",
			Description: "Perfect for business travelers with modern facilities.",
			Location:    "Business District",
			Price:       220,
			Rating:      4.7,
			Images: []string{
				"https://images.unsplash.com/photo-1551882547-ff40c63fe5fa",
			},
			AvailableRooms: 45,
		},
	}
}

func seedDocument() document {
	return document{
		Users:    []userRecord{},
		Hotels:   SeedHotels(),
		Bookings: []domain.Booking{},
	}
}
