package dto

type SyncUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type BookParcelRequest struct {
	Name        string `json:"parcelName"`
	SenderEmail string `json:"senderEmail"`
	Charge      int64  `json:"charge"`
}

type UpdateParcelRequest struct {
	DeliveryStatus string `json:"deliveryStatus"`
	RiderID        string `json:"riderId"`
}

type RiderApplicationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	District string `json:"district"`
}

type UpdateRiderRequest struct {
	Status string `json:"status"`
}

type CheckoutRequest struct {
	ParcelID string `json:"parcelId"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
