package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
)

// InitDB opens the database connection described by the environment.
// MySQL is the production store; when DB_DRIVER=sqlite (or no MySQL host
// is configured) a local SQLite file is used instead so the app can run
// without a server.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" && os.Getenv("DB_HOST") == "" {
		driver = "sqlite"
	}

	if driver == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "reservation.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	user := getEnv("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	name := getEnv("DB_NAME", "reservations")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// SeatingDurationMinutes returns how long a table is considered occupied
// by one reservation. Every overlap comparison in the availability
// resolver uses this single value.
func SeatingDurationMinutes() int {
	if v := os.Getenv("SEATING_DURATION_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 120
}

// DefaultReservationStatus controls whether a new booking starts as
// pending (explicit approval required) or confirmed (immediate).
func DefaultReservationStatus() string {
	if os.Getenv("RESERVATION_DEFAULT_STATUS") == models.ReservationStatusPending {
		return models.ReservationStatusPending
	}
	return models.ReservationStatusConfirmed
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
