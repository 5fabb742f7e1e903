package repository

import (
	"context"

	"parkslot/pkg/model"
)

// Store persists the booking collection as a single document. There is no
// per-entity access: callers read the whole collection, modify it, and write
// it back. Swapping the backing datastore must not touch validation or
// service logic.
type Store interface {
	// ReadAll returns the current collection. Absence or corruption of the
	// persisted document yields an empty collection, not an error.
	ReadAll(ctx context.Context) ([]model.Booking, error)

	// WriteAll replaces the persisted document with the given collection,
	// atomically with respect to readers of the same store.
	WriteAll(ctx context.Context, bookings []model.Booking) error
}

// document is the persisted shape: {"bookings": [...]}.
type document struct {
	Bookings []model.Booking `json:"bookings" bson:"bookings"`
}
