package ingest

import "github.com/Domenick1991/tourledger/internal/domain"

const (
	rowDateLayout = "2, Jan, Mon"
	rowTimeLayout = "15:04"
)

// BuildRow maps an event and its derived fields onto the ledger columns.
// Go time formatting always uses English month and weekday names.
func BuildRow(event domain.BookingEvent, d Derived) domain.Row {
	return domain.Row{
		Date:           event.DateTime.Format(rowDateLayout),
		Time:           event.DateTime.Format(rowTimeLayout),
		PickupLocation: event.TravelerHotel,
		ReviewStatus:   domain.ReviewStatusNone,
		Source:         domain.SourceGYG,
		ProductTitle:   d.ProductTitle,
		FullName:       d.FullName,
		Country:        d.Country,
		Phone:          d.Phone,
		TotalPeople:    d.TotalPeople,
		TotalPrice:     d.TotalPrice.InexactFloat64(),
		NetPrice:       d.NetPrice,
		Language:       domain.LanguageEnglish,
		Note:           domain.AutoFillNote,
	}
}
