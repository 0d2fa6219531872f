package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
)

type webhookPayload struct {
	Data *bookingPayload `json:"data"`
}

type bookingPayload struct {
	DateTime      *string           `json:"dateTime"`
	TravelerHotel *string           `json:"travelerHotel"`
	ProductID     *string           `json:"productId"`
	Travelers     []travelerPayload `json:"travelers"`
	BookingItems  []itemPayload     `json:"bookingItems"`
}

type travelerPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

type itemPayload struct {
	Count       int     `json:"count"`
	RetailPrice float64 `json:"retailPrice"`
}

// Layouts tried in order. A space date/time separator is normalized to 'T' first.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseBookingEvent decodes a webhook body into a fully defaulted BookingEvent.
func ParseBookingEvent(raw []byte) (domain.BookingEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.BookingEvent{}, domain.ValidationError{Reason: domain.ReasonMalformedPayload, Err: err}
	}

	data := payload.Data
	if data == nil {
		data = &bookingPayload{}
	}

	if data.DateTime == nil || strings.TrimSpace(*data.DateTime) == "" {
		return domain.BookingEvent{}, domain.ValidationError{Field: "dateTime", Reason: domain.ReasonMissingField}
	}
	dt, err := parseDateTime(*data.DateTime)
	if err != nil {
		return domain.BookingEvent{}, domain.ValidationError{Field: "dateTime", Reason: domain.ReasonMalformedDate, Err: err}
	}

	event := domain.BookingEvent{
		DateTime:      dt,
		TravelerHotel: domain.DefaultPickupLocation,
		Travelers:     make([]domain.Traveler, 0, len(data.Travelers)),
		BookingItems:  make([]domain.BookingItem, 0, len(data.BookingItems)),
	}
	if data.TravelerHotel != nil {
		event.TravelerHotel = *data.TravelerHotel
	}
	if data.ProductID != nil {
		event.ProductID = *data.ProductID
	}

	for _, t := range data.Travelers {
		event.Travelers = append(event.Travelers, domain.Traveler{
			FirstName:   t.FirstName,
			LastName:    t.LastName,
			PhoneNumber: t.PhoneNumber,
		})
	}

	for i, item := range data.BookingItems {
		if item.Count < 0 {
			return domain.BookingEvent{}, domain.ValidationError{Field: fmt.Sprintf("bookingItems[%d].count", i), Reason: domain.ReasonNegativeValue}
		}
		if item.RetailPrice < 0 {
			return domain.BookingEvent{}, domain.ValidationError{Field: fmt.Sprintf("bookingItems[%d].retailPrice", i), Reason: domain.ReasonNegativeValue}
		}
		event.BookingItems = append(event.BookingItems, domain.BookingItem{
			Count:       item.Count,
			RetailPrice: item.RetailPrice,
		})
	}

	return event, nil
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > 10 && value[10] == ' ' {
		value = value[:10] + "T" + value[11:]
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("not an ISO-8601 timestamp: " + value)
}
