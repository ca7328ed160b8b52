package entity

import "time"

type DemoBooking struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Date      string    `json:"date" db:"booking_date"`
	Time      string    `json:"time" db:"booking_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
