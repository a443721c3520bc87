package models

import "time"

// ContactMessage represents a message submitted through the contact form.
// Messages are append-only; the API never updates or deletes them.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Category  string    `json:"category"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`

	// NotifiedAt is set once the operator notification email went out.
	NotifiedAt *time.Time `json:"-"`
}
