// Package services holds the availability resolver and the allocation
// engine. The sentinel values below let controllers distinguish the
// recoverable failure modes of a booking without parsing messages.
package services

import "errors"

// ErrInvalidInput is returned for malformed dates/times, a party size
// below one, a negative revenue or missing customer fields. Controllers
// translate it into an HTTP 400 response.
var ErrInvalidInput = errors.New("invalid input")

// ErrNoTableAvailable is returned when auto-assignment finds no eligible
// table for the requested slot.
var ErrNoTableAvailable = errors.New("no table available")

// ErrTableConflict is returned when an explicitly chosen table failed
// revalidation: it became busy, went into maintenance or cannot seat the
// party anymore.
var ErrTableConflict = errors.New("table conflict")

// ErrInvalidTransition is returned when a status transition precondition
// is violated, such as approving a cancelled reservation.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNotFound is returned when a referenced reservation or table does
// not exist.
var ErrNotFound = errors.New("not found")
