package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	repo     CommentRepository
	assets   AssetRepository
	sprints  SprintRepository
	notifier Notifier
}

func NewCommentService(repo CommentRepository, assets AssetRepository, sprints SprintRepository, notifier Notifier) *CommentService {
	return &CommentService{
		repo:     repo,
		assets:   assets,
		sprints:  sprints,
		notifier: notifier,
	}
}

// CreateComment создаёт комментарий: непустой текст и ровно один
// родитель (задача ИЛИ спринт)
func (s *CommentService) CreateComment(ctx context.Context, actor *models.Profile,
	assetID, sprintID *uuid.UUID, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("content", "пустое значение")
	}
	if (assetID == nil) == (sprintID == nil) {
		return nil, NewValidationError("asset_id", "требуется ровно одна ссылка: задача или спринт")
	}

	var itemName string
	if assetID != nil {
		asset, err := s.assets.GetByID(ctx, *assetID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, NewNotFound("задача", assetID.String())
			}
			return nil, fmt.Errorf("получение задачи: %w", err)
		}
		itemName = asset.Name
	} else {
		sprint, err := s.sprints.GetByID(ctx, *sprintID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, NewNotFound("спринт", sprintID.String())
			}
			return nil, fmt.Errorf("получение спринта: %w", err)
		}
		itemName = sprint.Name
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		AssetID:   assetID,
		SprintID:  sprintID,
		Content:   content,
		CreatedBy: actor.ID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("создание комментария: %w", err)
	}

	s.notifier.Notify(ctx, models.NotifyCommentCreated, itemName, actor)
	return comment, nil
}

func (s *CommentService) ListForAsset(ctx context.Context, assetID uuid.UUID) ([]*models.Comment, error) {
	return s.repo.ListForAsset(ctx, assetID)
}

func (s *CommentService) ListForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.Comment, error) {
	return s.repo.ListForSprint(ctx, sprintID)
}

// DeleteComment - удалить может только автор
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("комментарий", id.String())
		}
		return fmt.Errorf("получение комментария: %w", err)
	}

	if comment.CreatedBy != actor.ID {
		logger.Info("Service: Попытка удалить чужой комментарий",
			zap.String("comment_id", id.String()),
			zap.String("user_id", actor.ID.String()))
		return NewForbidden("удалять можно только свои комментарии")
	}

	return s.repo.Delete(ctx, id)
}
