package model

import "github.com/shopspring/decimal"

// Listing is the snapshot of a service's economic terms taken at booking time.
type Listing struct {
	ID                 string
	ProviderID         string
	RatePerHour        decimal.Decimal
	Currency           string
	CancellationPolicy CancellationPolicy
}
