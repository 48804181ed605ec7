package dto

// RefundQuoteResponse previews what a cancellation now would return.
type RefundQuoteResponse struct {
	Amount            string  `json:"amount"`
	Percent           string  `json:"percent"`
	Tier              string  `json:"tier,omitempty"`
	HoursUntilService float64 `json:"hoursUntilService"`
}

// RefundRequest applies a refund. Amount omitted means the policy amount.
type RefundRequest struct {
	Amount *string `json:"amount"`
}
