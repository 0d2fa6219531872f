package ingest

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/tourledger/internal/catalog"
	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/shopspring/decimal"
)

type CountryPrefix struct {
	Prefix  string
	Country string
}

// CountryTable is evaluated in slice order; the first matching prefix wins.
type CountryTable []CountryPrefix

var DefaultCountryTable = CountryTable{
	{Prefix: "+61", Country: "Australia"},
	{Prefix: "+44", Country: "United Kingdom"},
	{Prefix: "+1", Country: "United States"},
	{Prefix: "+351", Country: "Portugal"},
	{Prefix: "+420", Country: "Czech Republic"},
}

// DefaultMarginFactor is the share of the gross price kept after GYG commission.
var DefaultMarginFactor = decimal.RequireFromString("0.69")

func (t CountryTable) Country(phone string) string {
	for _, p := range t {
		if strings.HasPrefix(phone, p.Prefix) {
			return p.Country
		}
	}
	return ""
}

// With returns a new table with extra entries evaluated after the existing ones.
func (t CountryTable) With(extra ...CountryPrefix) CountryTable {
	out := make(CountryTable, 0, len(t)+len(extra))
	out = append(out, t...)
	return append(out, extra...)
}

func CountryFromPhone(phone string) string {
	return DefaultCountryTable.Country(phone)
}

// NormalizePhone strips spaces; other punctuation is kept as sent.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(phone, " ", "")
}

func ProductTitleLookup(productID string, c catalog.Catalog) string {
	if c == nil {
		return domain.UnknownProductTitle
	}
	if title, ok := c.Title(productID); ok {
		return title
	}
	return domain.UnknownProductTitle
}

// AggregateLineItems returns the headcount and the gross price of all items.
func AggregateLineItems(items []domain.BookingItem) (int, decimal.Decimal) {
	people := 0
	total := decimal.Zero
	for _, item := range items {
		people += item.Count
		total = total.Add(decimal.NewFromInt(int64(item.Count)).Mul(decimal.NewFromFloat(item.RetailPrice)))
	}
	return people, total
}

// NetPriceCompute rounds half away from zero.
func NetPriceCompute(totalPrice, marginFactor decimal.Decimal) int64 {
	return totalPrice.Mul(marginFactor).Round(0).IntPart()
}

func FullName(t domain.Traveler) string {
	return fmt.Sprintf("%s %s", t.FirstName, t.LastName)
}

// Derived holds the commercial fields computed from a BookingEvent.
type Derived struct {
	ProductTitle string
	FullName     string
	Country      string
	Phone        string
	TotalPeople  int
	TotalPrice   decimal.Decimal
	NetPrice     int64
}

func Derive(event domain.BookingEvent, c catalog.Catalog, countries CountryTable, marginFactor decimal.Decimal) Derived {
	lead := event.LeadTraveler()
	phone := NormalizePhone(lead.PhoneNumber)
	people, total := AggregateLineItems(event.BookingItems)

	return Derived{
		ProductTitle: ProductTitleLookup(event.ProductID, c),
		FullName:     FullName(lead),
		Country:      countries.Country(phone),
		Phone:        phone,
		TotalPeople:  people,
		TotalPrice:   total,
		NetPrice:     NetPriceCompute(total, marginFactor),
	}
}
