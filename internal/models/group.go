package models

// Group represents a trip whose participants share costs.
// Deleting a group removes its participants, expenses, splits and settlements.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string

	// OwnerID is the user who created the group. Only the owner may
	// update or delete expenses, delete settlements or manage the roster.
	OwnerID string

	// Currency is the ISO 4217 code used when an expense or settlement
	// does not name one.
	Currency string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
