// Package notify passes recorded contact submissions on to the shop.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/dhnaturally/internal/domain"
)

// Notifier delivers a stored contact submission to some destination.
type Notifier interface {
	NotifyContact(ctx context.Context, submission *domain.ContactSubmission) error
}

// Nop drops every submission.
type Nop struct{}

func (Nop) NotifyContact(context.Context, *domain.ContactSubmission) error { return nil }

// Multi delivers to every notifier in order. A failing notifier does not
// stop the rest; all failures are joined in the returned error.
type Multi []Notifier

func (m Multi) NotifyContact(ctx context.Context, submission *domain.ContactSubmission) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyContact(ctx, submission); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine returns the notifier for the given set: Nop when empty, the
// notifier itself when there is one, otherwise a Multi.
func Combine(notifiers ...Notifier) Notifier {
	var active Multi
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	switch len(active) {
	case 0:
		return Nop{}
	case 1:
		return active[0]
	default:
		return active
	}
}

func contactSummary(s *domain.ContactSubmission) string {
	phone := "-"
	if s.Phone != nil {
		phone = *s.Phone
	}
	return fmt.Sprintf("From: %s %s <%s>\nPhone: %s\nSubject: %s\n\n%s",
		s.FirstName, s.LastName, s.Email, phone, s.Subject, s.Message)
}
