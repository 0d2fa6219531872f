package domain

// Constant ledger columns. Changing any of these changes the external sheet contract.
const (
	ReviewStatusNone = "None"
	SourceGYG        = "GYG"
	LanguageEnglish  = "English"
	AutoFillNote     = "Auto-filled from GYG API"
)

// RowWidth is the number of columns in the ledger sheet.
const RowWidth = 17

// Row is one ledger line. Fields are declared in column order.
type Row struct {
	Date           string
	Time           string
	PickupLocation string
	ReviewStatus   string
	Source         string
	ProductTitle   string
	FullName       string
	Country        string
	Phone          string
	TotalPeople    int
	TotalPrice     float64
	NetPrice       int64
	Language       string
	Guide          string
	Car            string
	Driver         string
	Note           string
}

// Cells returns a fresh slice of the row values in ledger column order.
func (r Row) Cells() []any {
	return []any{
		r.Date,
		r.Time,
		r.PickupLocation,
		r.ReviewStatus,
		r.Source,
		r.ProductTitle,
		r.FullName,
		r.Country,
		r.Phone,
		r.TotalPeople,
		r.TotalPrice,
		r.NetPrice,
		r.Language,
		r.Guide,
		r.Car,
		r.Driver,
		r.Note,
	}
}
