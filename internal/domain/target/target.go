// Package target holds the yearly and monthly performance goals shown on
// the dashboard progress cards.
package target

// Settings keys for the persisted target documents.
const (
	KeyYearly  = "credit_targets_v1"
	KeyMonthly = "credit_targets_monthly_v1"
)

// Values is one set of goal amounts in VND.
type Values struct {
	Outstanding int64 `json:"outstanding"`
	Mobilized   int64 `json:"mobilized"`
	ServiceFee  int64 `json:"service_fee"`
}

// Valid reports whether every goal amount is non-negative.
func (v Values) Valid() bool {
	return v.Outstanding >= 0 && v.Mobilized >= 0 && v.ServiceFee >= 0
}

// Defaults returns the yearly goals used until the user sets their own.
func Defaults() Values {
	return Values{
		Outstanding: 4_000_000_000,
		Mobilized:   2_500_000_000,
		ServiceFee:  250_000_000,
	}
}

// MonthlyDefaults spreads the yearly defaults evenly across twelve months.
func MonthlyDefaults() Values {
	y := Defaults()
	return Values{
		Outstanding: y.Outstanding / 12,
		Mobilized:   y.Mobilized / 12,
		ServiceFee:  y.ServiceFee / 12,
	}
}
