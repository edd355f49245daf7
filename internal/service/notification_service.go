package service

import (
	"context"
	"fmt"

	"lapor/internal/model"
	"lapor/internal/repository"

	"github.com/google/uuid"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID string, notifID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	return s.repo.ListByUser(ctx, uid, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notifID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	nid, err := uuid.Parse(notifID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	return s.repo.MarkRead(ctx, nid, uid)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	return s.repo.MarkAllRead(ctx, uid)
}
