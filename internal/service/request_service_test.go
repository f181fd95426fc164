package service_test

import (
	"context"
	"testing"

	"assetTracker/internal/models"
	"assetTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestRequestService_AcceptRequest тестирует принятие заявки: создание
// связанной задачи и категорию в зависимости от вида заявки
func TestRequestService_AcceptRequest(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	requestID := uuid.New()
	priority := models.PriorityHigh

	tests := []struct {
		name         string
		kind         models.RequestKind
		wantCategory *models.AssetCategory
		notifyType   models.NotificationType
	}{
		{
			name:         "model request creates design task",
			kind:         models.ModelRequestKind,
			wantCategory: categoryPtr(models.CategoryDesign),
			notifyType:   models.NotifyModelRequestAccepted,
		},
		{
			name:         "feature request creates task without category",
			kind:         models.FeatureRequestKind,
			wantCategory: nil,
			notifyType:   models.NotifyFeatureRequestAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqRepo := new(MockRequestRepository)
			reqRepo.On("GetByID", mock.Anything, requestID).Return(&models.Request{
				ID:       requestID,
				Name:     "Dragon model",
				Priority: &priority,
				Status:   models.RequestOpen,
			}, nil)
			reqRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Request")).Return(nil)

			assetRepo := new(MockAssetRepository)
			assetRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Asset")).Return(nil)

			notifier := &SpyNotifier{}
			svc := service.NewRequestService(tt.kind, reqRepo, assetRepo, notifier)

			request, asset, err := svc.AcceptRequest(ctx, actor, requestID)
			require.NoError(t, err)

			assert.Equal(t, models.RequestAccepted, request.Status)
			assert.Equal(t, actor.ID, *request.AcceptedBy)
			assert.NotNil(t, request.AcceptedAt)
			require.NotNil(t, request.LinkedAssetID)
			assert.Equal(t, asset.ID, *request.LinkedAssetID)

			assert.Equal(t, "Dragon model", asset.Name)
			assert.Equal(t, models.StatusPending, asset.Status)
			assert.Equal(t, priority, *asset.Priority)
			if tt.wantCategory == nil {
				assert.Nil(t, asset.Category)
			} else {
				require.NotNil(t, asset.Category)
				assert.Equal(t, *tt.wantCategory, *asset.Category)
			}

			calls := notifier.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.notifyType, calls[0].Type)

			reqRepo.AssertExpectations(t)
			assetRepo.AssertExpectations(t)
		})
	}
}

// TestRequestService_AcceptRequest_AlreadyResolved тестирует повторное
// принятие: терминальный статус не сбрасывается
func TestRequestService_AcceptRequest_AlreadyResolved(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	requestID := uuid.New()

	for _, status := range []models.RequestStatus{models.RequestAccepted, models.RequestDenied} {
		t.Run(string(status), func(t *testing.T) {
			reqRepo := new(MockRequestRepository)
			reqRepo.On("GetByID", mock.Anything, requestID).Return(&models.Request{
				ID:     requestID,
				Name:   "Dragon model",
				Status: status,
			}, nil)
			assetRepo := new(MockAssetRepository)

			svc := service.NewRequestService(models.ModelRequestKind, reqRepo, assetRepo, &SpyNotifier{})
			_, _, err := svc.AcceptRequest(ctx, actor, requestID)

			var busErr *service.BusinessError
			require.ErrorAs(t, err, &busErr)
			assert.Equal(t, "ALREADY_RESOLVED", busErr.Code)
			assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// TestRequestService_DenyRequest тестирует отклонение заявки
func TestRequestService_DenyRequest(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	requestID := uuid.New()

	tests := []struct {
		name        string
		reason      string
		expectError bool
		errorCode   string
	}{
		{
			name:   "success - with reason",
			reason: "Не вписывается в стиль проекта",
		},
		{
			name:        "error - empty reason",
			reason:      "",
			expectError: true,
			errorCode:   "VALIDATION_ERROR",
		},
		{
			name:        "error - whitespace only reason",
			reason:      "   \t ",
			expectError: true,
			errorCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqRepo := new(MockRequestRepository)
			if !tt.expectError {
				reqRepo.On("GetByID", mock.Anything, requestID).Return(&models.Request{
					ID:     requestID,
					Name:   "Dragon model",
					Status: models.RequestOpen,
				}, nil)
				reqRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Request")).Return(nil)
			}

			svc := service.NewRequestService(models.ModelRequestKind, reqRepo, new(MockAssetRepository), &SpyNotifier{})
			request, err := svc.DenyRequest(ctx, actor, requestID, tt.reason)

			if tt.expectError {
				var busErr *service.BusinessError
				require.ErrorAs(t, err, &busErr)
				assert.Equal(t, tt.errorCode, busErr.Code)
				// пустая причина отсекается до любого обращения к хранилищу
				reqRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.RequestDenied, request.Status)
				assert.Equal(t, actor.ID, *request.DeniedBy)
				assert.NotNil(t, request.DeniedAt)
				assert.Equal(t, "Не вписывается в стиль проекта", *request.DenialReason)
			}
			reqRepo.AssertExpectations(t)
		})
	}
}

func categoryPtr(c models.AssetCategory) *models.AssetCategory {
	return &c
}
