package worker

import (
	"context"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/service"

	"go.uber.org/zap"
)

// SprintWorker - фоновая страховка автозавершения: периодически
// пересчитывает активные спринты на случай, если синхронный пересчёт
// был пропущен (сбой, конкурирующая запись)
type SprintWorker struct {
	repo      service.SprintRepository
	sprints   *service.SprintService
	interval  time.Duration
	batchSize int
}

func NewSprintWorker(repo service.SprintRepository, sprints *service.SprintService,
	interval *time.Duration, batchSize *int) *SprintWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}
	return &SprintWorker{
		repo:      repo,
		sprints:   sprints,
		interval:  intervalToSet,
		batchSize: batchToSet,
	}
}

func (w *SprintWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка спринтов на автозавершение", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *SprintWorker) Check(ctx context.Context) {
	start := time.Now()

	ids, err := w.repo.ListActiveIDs(ctx, w.batchSize)
	if err != nil {
		logger.Warn("Worker: ошибка получения спринтов", zap.Error(err))
		return
	}

	recomputed := 0
	for _, id := range ids {
		if err := w.sprints.RecomputeCompletion(ctx, id); err != nil {
			logger.Warn("Worker: Ошибка пересчёта спринта", zap.Error(err),
				zap.String("sprint_id", id.String()))
			continue
		}
		recomputed++
	}

	logger.Info(
		"Worker: Завершение проверки спринтов",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(ids)),
		zap.Int("recomputed", recomputed),
	)
}
