package http

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fjod/dhnaturally/internal/domain"
)

const minMessageLength = 10

type ContactService interface {
	Submit(ctx context.Context, submission domain.NewContactSubmission) (*domain.ContactSubmission, error)
}

type ContactHandler struct {
	contacts ContactService
	timeout  time.Duration
}

func NewContactHandler(contacts ContactService, timeout time.Duration) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		timeout:  timeout,
	}
}

type ContactRequestDTO struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Subject   string  `json:"subject"`
	Message   string  `json:"message"`
}

// validate returns one message per rejected field.
func (c ContactRequestDTO) validate() []string {
	var problems []string
	if strings.TrimSpace(c.FirstName) == "" {
		problems = append(problems, "first_name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		problems = append(problems, "last_name is required")
	}
	if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
		problems = append(problems, "email is invalid")
	}
	if strings.TrimSpace(c.Subject) == "" {
		problems = append(problems, "subject is required")
	}
	if utf8.RuneCountInString(c.Message) < minMessageLength {
		problems = append(problems, "message must be at least 10 characters")
	}
	return problems
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ContactRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if problems := req.validate(); len(problems) > 0 {
		respondErrorDetails(w, http.StatusBadRequest, "invalid_contact", "invalid contact submission",
			strings.Join(problems, "; "))
		return
	}

	created, err := h.contacts.Submit(ctx, domain.NewContactSubmission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		handleStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}
