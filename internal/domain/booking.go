package domain

import "time"

const (
	DefaultPickupLocation = "Unknown Pickup"
	UnknownProductTitle   = "Unknown Tour"
)

type Traveler struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

type BookingItem struct {
	Count       int
	RetailPrice float64
}

// BookingEvent is the normalized webhook payload. It lives for a single request.
type BookingEvent struct {
	DateTime      time.Time
	TravelerHotel string
	ProductID     string
	Travelers     []Traveler
	BookingItems  []BookingItem
}

// LeadTraveler returns the first traveler, or an empty one when none was sent.
func (e BookingEvent) LeadTraveler() Traveler {
	if len(e.Travelers) == 0 {
		return Traveler{}
	}
	return e.Travelers[0]
}

// Confirmation is returned to the caller once the row has been appended.
type Confirmation struct {
	ID         string
	Status     string
	RecordedAt time.Time
	Row        Row
}

const ConfirmationStatus = "Booking added successfully."
