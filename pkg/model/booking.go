package model

import (
	"time"
)

// Booking reserves the single shared car-park slot for one calendar date.
// Date is the natural key: at most one booking may exist per distinct date.
type Booking struct {
	ID        string    `json:"id" bson:"id"`
	Date      string    `json:"date" bson:"date"`
	UserName  string    `json:"userName" bson:"user_name"`
	UserEmail string    `json:"userEmail" bson:"user_email"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// CreateBookingRequest is the caller-supplied part of a booking. ID and
// CreatedAt are assigned by the service, never by the caller.
type CreateBookingRequest struct {
	Date      string `json:"date" validate:"required,booking_date"`
	UserName  string `json:"userName" validate:"required,min=1,max=200"`
	UserEmail string `json:"userEmail" validate:"required,booking_email"`
}
