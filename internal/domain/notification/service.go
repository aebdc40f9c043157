package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify creates an unread notification for a user. Chat and the appointment
// workflow call this on their side effects.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, message, typ string) error {
	if userID == uuid.Nil {
		return clinicerr.Validationf("user_id is required")
	}
	if title == "" {
		return clinicerr.Validationf("title is required")
	}
	n := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Read:    false,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return clinicerr.Internalf(err, "create notification")
	}
	return nil
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list notifications")
	}
	if items == nil {
		items = []*Notification{}
	}
	return items, nil
}

// getOwned loads a notification and hides other users' rows behind NotFound.
func (s *Service) getOwned(ctx context.Context, id, userID uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, clinicerr.FromPG(err, "notification not found")
	}
	if n.UserID != userID {
		return nil, clinicerr.NotFoundf("notification not found")
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) (*Notification, error) {
	n, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, clinicerr.Internalf(err, "mark notification read")
	}
	n.Read = true
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return clinicerr.Internalf(err, "mark notifications read")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return clinicerr.Internalf(err, "delete notification")
	}
	return nil
}
