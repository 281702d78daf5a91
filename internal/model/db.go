package model

import "time"

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusAssigned  = "assigned"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
)

const (
	RiderStatusPending  = "pending"
	RiderStatusActive   = "active"
	RiderStatusRejected = "rejected"
)

type User struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	Email       string `gorm:"size:128;uniqueIndex;not null"`
	Name        string `gorm:"size:128"`
	Role        string `gorm:"size:32;not null"` // user, rider, admin
	CreatedAt   time.Time
	LastLoginAt time.Time
}

type Rider struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:128;index;not null"`
	Phone     string `gorm:"size:32"`
	District  string `gorm:"size:64;index"`
	Status    string `gorm:"size:32;index;not null"` // pending, active, rejected
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Parcel struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	SenderEmail string `gorm:"size:128;index;not null"`
	Name        string `gorm:"size:128;not null"`
	// declared charge in source currency units
	Charge         int64   `gorm:"not null"`
	PaymentStatus  string  `gorm:"size:32;index;not null"` // unpaid, paid
	TrackingID     *string `gorm:"size:32"`                // nil until paid
	DeliveryStatus string  `gorm:"size:32;index;not null"`
	RiderID        *string `gorm:"size:64;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Payment struct {
	ID string `gorm:"primaryKey;size:64;not null"`
	// unique index closes the settle race: a concurrent duplicate insert
	// fails instead of producing a second payment for the same parcel
	ParcelID      string `gorm:"size:64;uniqueIndex;not null"`
	CustomerEmail string `gorm:"size:128;index;not null"`
	Amount        int64  `gorm:"not null"` // settlement currency units
	Currency      string `gorm:"size:8;not null"`
	ParcelName    string `gorm:"size:128"`
	PaymentStatus string `gorm:"size:32;not null"`
	TransactionID string `gorm:"size:128"` // provider payment intent
	TrackingID    string `gorm:"size:32"`
	PaidAt        time.Time
	CreatedAt     time.Time
}
