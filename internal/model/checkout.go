package model

// Wire types for the hosted checkout provider API. The provider owns the
// session lifecycle; this service only creates and reads sessions.

type SessionMetadata struct {
	ParcelID   string `json:"parcelId"`
	ParcelName string `json:"parcelName"`
}

type CheckoutSession struct {
	ID            string          `json:"id"`
	URL           string          `json:"url"`
	Status        string          `json:"status"`         // open, complete, expired
	PaymentStatus string          `json:"payment_status"` // paid, unpaid
	AmountTotal   int64           `json:"amount_total"`   // provider minor units
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customer_email"`
	PaymentIntent string          `json:"payment_intent"`
	Metadata      SessionMetadata `json:"metadata"`
}

type CheckoutAPIError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
