package services

import (
	"math/rand"

	"github.com/sahrati/reservation-backend/models"
)

// TablePicker chooses one table out of the eligible set during
// auto-assignment. The strategy is injectable so tests can force a
// deterministic outcome.
type TablePicker interface {
	Pick(tables []models.Table) int
}

// RandomPicker spreads bookings across the floor instead of piling them
// onto the lowest-numbered table. Default in production.
type RandomPicker struct{}

func (RandomPicker) Pick(tables []models.Table) int {
	return rand.Intn(len(tables))
}

// FirstPicker always takes the lowest-numbered eligible table.
type FirstPicker struct{}

func (FirstPicker) Pick(tables []models.Table) int {
	return 0
}
