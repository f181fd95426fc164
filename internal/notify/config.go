package notify

import (
	"fmt"

	"assetTracker/internal/models"
)

// noticeConfig - шаблоны тоста для одного вида события. own - формат
// для автора действия, other - для остальных (имя автора подставляется
// первым аргументом, имя объекта вторым).
type noticeConfig struct {
	title   string
	own     string
	other   string
	variant models.NotificationVariant
}

var noticeConfigs = map[models.NotificationType]noticeConfig{
	models.NotifyTaskCreated: {
		title:   "Задача создана",
		own:     "Вы создали задачу «%[2]s»",
		other:   "%[1]s создал(а) задачу «%[2]s»",
		variant: models.VariantSuccess,
	},
	models.NotifyTaskInProgress: {
		title:   "Задача в работе",
		own:     "Вы взяли задачу «%[2]s» в работу",
		other:   "%[1]s взял(а) задачу «%[2]s» в работу",
		variant: models.VariantInfo,
	},
	models.NotifyTaskCompleted: {
		title:   "Задача выполнена",
		own:     "Вы завершили задачу «%[2]s»",
		other:   "%[1]s завершил(а) задачу «%[2]s»",
		variant: models.VariantSuccess,
	},
	models.NotifyTaskImplemented: {
		title:   "Задача внедрена",
		own:     "Вы отметили задачу «%[2]s» как внедрённую",
		other:   "%[1]s отметил(а) задачу «%[2]s» как внедрённую",
		variant: models.VariantSuccess,
	},
	models.NotifyTaskClaimed: {
		title:   "Задача закреплена",
		own:     "Вы закрепили за собой задачу «%[2]s»",
		other:   "%[1]s закрепил(а) за собой задачу «%[2]s»",
		variant: models.VariantInfo,
	},
	models.NotifyTaskUnclaimed: {
		title:   "Задача освобождена",
		own:     "Вы освободили задачу «%[2]s»",
		other:   "%[1]s освободил(а) задачу «%[2]s»",
		variant: models.VariantInfo,
	},
	models.NotifyScheduleCreated: {
		title:   "Событие добавлено",
		own:     "Вы добавили событие «%[2]s» в календарь",
		other:   "%[1]s добавил(а) событие «%[2]s» в календарь",
		variant: models.VariantInfo,
	},
	models.NotifyScheduleUpdated: {
		title:   "Событие изменено",
		own:     "Вы изменили событие «%[2]s»",
		other:   "%[1]s изменил(а) событие «%[2]s»",
		variant: models.VariantInfo,
	},
	models.NotifyModelRequestCreated: {
		title:   "Запрос модели",
		own:     "Вы создали запрос модели «%[2]s»",
		other:   "%[1]s создал(а) запрос модели «%[2]s»",
		variant: models.VariantInfo,
	},
	models.NotifyModelRequestAccepted: {
		title:   "Запрос модели принят",
		own:     "Вы приняли запрос модели «%[2]s»",
		other:   "%[1]s принял(а) запрос модели «%[2]s»",
		variant: models.VariantSuccess,
	},
	models.NotifyModelRequestDenied: {
		title:   "Запрос модели отклонён",
		own:     "Вы отклонили запрос модели «%[2]s»",
		other:   "%[1]s отклонил(а) запрос модели «%[2]s»",
		variant: models.VariantWarning,
	},
	models.NotifyFeatureRequestCreated: {
		title:   "Запрос функциональности",
		own:     "Вы создали запрос функциональности «%[2]s»",
		other:   "%[1]s создал(а) запрос функциональности «%[2]s»",
		variant: models.VariantInfo,
	},
	models.NotifyFeatureRequestAccepted: {
		title:   "Запрос функциональности принят",
		own:     "Вы приняли запрос функциональности «%[2]s»",
		other:   "%[1]s принял(а) запрос функциональности «%[2]s»",
		variant: models.VariantSuccess,
	},
	models.NotifyFeatureRequestDenied: {
		title:   "Запрос функциональности отклонён",
		own:     "Вы отклонили запрос функциональности «%[2]s»",
		other:   "%[1]s отклонил(а) запрос функциональности «%[2]s»",
		variant: models.VariantWarning,
	},
	models.NotifyCommentCreated: {
		title:   "Новый комментарий",
		own:     "Вы оставили комментарий к «%[2]s»",
		other:   "%[1]s оставил(а) комментарий к «%[2]s»",
		variant: models.VariantInfo,
	},
}

// Render собирает заголовок, текст и вариант тоста. own - автор ли
// получатель. Неизвестный тип получает нейтральный info-тост.
func Render(t models.NotificationType, actorName, itemName string, own bool) (title, message string, variant models.NotificationVariant) {
	cfg, ok := noticeConfigs[t]
	if !ok {
		return string(t), itemName, models.VariantInfo
	}
	format := cfg.other
	if own {
		format = cfg.own
	}
	return cfg.title, fmt.Sprintf(format, actorName, itemName), cfg.variant
}
