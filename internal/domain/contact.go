package domain

import "time"

// ContactSubmission is an inbound inquiry from the contact form.
// It is written once and never updated.
type ContactSubmission struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type NewContactSubmission struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Subject   string
	Message   string
}

// Build stamps id and creation time. An empty phone is stored as nil.
func (n NewContactSubmission) Build(id string, now time.Time) *ContactSubmission {
	var phone *string
	if n.Phone != nil && *n.Phone != "" {
		p := *n.Phone
		phone = &p
	}
	return &ContactSubmission{
		ID:        id,
		FirstName: n.FirstName,
		LastName:  n.LastName,
		Email:     n.Email,
		Phone:     phone,
		Subject:   n.Subject,
		Message:   n.Message,
		CreatedAt: now,
	}
}
