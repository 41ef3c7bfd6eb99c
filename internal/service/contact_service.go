package service

import (
	"context"
	"log"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/notify"
)

type ContactStore interface {
	CreateContactSubmission(ctx context.Context, submission domain.NewContactSubmission) (*domain.ContactSubmission, error)
}

// ContactService records contact form submissions and passes them on to
// the shop. A submission that was stored is never rejected because the
// notification failed.
type ContactService struct {
	store    ContactStore
	notifier notify.Notifier
}

func NewContactService(store ContactStore, notifier notify.Notifier) *ContactService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ContactService{
		store:    store,
		notifier: notifier,
	}
}

func (s *ContactService) Submit(ctx context.Context, submission domain.NewContactSubmission) (*domain.ContactSubmission, error) {
	created, err := s.store.CreateContactSubmission(ctx, submission)
	if err != nil {
		log.Printf("store create contact submission error: %v", err)
		return nil, err
	}

	if err := s.notifier.NotifyContact(ctx, created); err != nil {
		log.Printf("contact %s notify error: %v", created.ID, err)
	}
	return created, nil
}
