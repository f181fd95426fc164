package notify

import (
	"assetTracker/internal/models"

	"github.com/google/uuid"
)

// Classified - событие бизнес-уровня, восстановленное из сырого
// изменения строки
type Classified struct {
	Type     models.NotificationType
	ItemName string
	// ActorID - кто совершил действие (для подавления дубля у автора:
	// свой тост он уже получил синхронно)
	ActorID *uuid.UUID
}

// Classify восстанавливает бизнес-событие из изменения строки. nil -
// изменение не порождает уведомления (служебные таблицы, правки полей
// без смены статуса).
func Classify(table, op string, oldRow, newRow map[string]any) *Classified {
	switch table {
	case "assets":
		return classifyAsset(op, oldRow, newRow)
	case "model_requests":
		return classifyRequest(op, oldRow, newRow, "model_request")
	case "feature_requests":
		return classifyRequest(op, oldRow, newRow, "feature_request")
	case "events":
		return classifyEvent(op, newRow)
	case "comments":
		if op == "INSERT" {
			return &Classified{
				Type:     models.NotifyCommentCreated,
				ItemName: str(newRow, "content"),
				ActorID:  id(newRow, "created_by"),
			}
		}
	}
	return nil
}

func classifyAsset(op string, oldRow, newRow map[string]any) *Classified {
	switch op {
	case "INSERT":
		return &Classified{
			Type:     models.NotifyTaskCreated,
			ItemName: str(newRow, "name"),
			ActorID:  id(newRow, "created_by"),
		}
	case "UPDATE":
		name := str(newRow, "name")

		oldStatus, newStatus := str(oldRow, "status"), str(newRow, "status")
		if oldStatus != newStatus {
			switch models.AssetStatus(newStatus) {
			case models.StatusInProgress:
				return &Classified{Type: models.NotifyTaskInProgress, ItemName: name, ActorID: id(newRow, "in_progress_by")}
			case models.StatusCompleted:
				return &Classified{Type: models.NotifyTaskCompleted, ItemName: name, ActorID: id(newRow, "completed_by")}
			case models.StatusImplemented:
				return &Classified{Type: models.NotifyTaskImplemented, ItemName: name, ActorID: id(newRow, "implemented_by")}
			}
			return nil
		}

		oldClaim, newClaim := id(oldRow, "claimed_by"), id(newRow, "claimed_by")
		if oldClaim == nil && newClaim != nil {
			return &Classified{Type: models.NotifyTaskClaimed, ItemName: name, ActorID: newClaim}
		}
		if oldClaim != nil && newClaim == nil {
			return &Classified{Type: models.NotifyTaskUnclaimed, ItemName: name, ActorID: oldClaim}
		}
	}
	return nil
}

func classifyRequest(op string, oldRow, newRow map[string]any, prefix string) *Classified {
	name := str(newRow, "name")
	switch op {
	case "INSERT":
		return &Classified{
			Type:     models.NotificationType(prefix + "_created"),
			ItemName: name,
			ActorID:  id(newRow, "created_by"),
		}
	case "UPDATE":
		if str(oldRow, "status") == str(newRow, "status") {
			return nil
		}
		switch models.RequestStatus(str(newRow, "status")) {
		case models.RequestAccepted:
			return &Classified{
				Type:     models.NotificationType(prefix + "_accepted"),
				ItemName: name,
				ActorID:  id(newRow, "accepted_by"),
			}
		case models.RequestDenied:
			return &Classified{
				Type:     models.NotificationType(prefix + "_denied"),
				ItemName: name,
				ActorID:  id(newRow, "denied_by"),
			}
		}
	}
	return nil
}

func classifyEvent(op string, newRow map[string]any) *Classified {
	switch op {
	case "INSERT":
		return &Classified{
			Type:     models.NotifyScheduleCreated,
			ItemName: str(newRow, "title"),
			ActorID:  id(newRow, "created_by"),
		}
	case "UPDATE":
		return &Classified{
			Type:     models.NotifyScheduleUpdated,
			ItemName: str(newRow, "title"),
			ActorID:  id(newRow, "created_by"),
		}
	}
	return nil
}

// SuppressFor - подавлять ли тост у получателя userID: автор действия
// уже получил свой тост синхронно
func (c *Classified) SuppressFor(userID uuid.UUID) bool {
	return c.ActorID != nil && *c.ActorID == userID
}

func str(row map[string]any, key string) string {
	if row == nil {
		return ""
	}
	s, _ := row[key].(string)
	return s
}

func id(row map[string]any, key string) *uuid.UUID {
	raw := str(row, key)
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}
