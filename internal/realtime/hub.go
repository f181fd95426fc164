package realtime

import (
	"sync"

	"assetTracker/internal/logger"

	"go.uber.org/zap"
)

const subscriberBuffer = 64

// Hub раздаёт изменения строк подписчикам (SSE-сессиям). Медленный
// подписчик теряет события, а не тормозит остальных.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Change]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Change]struct{}),
	}
}

// Subscribe возвращает канал событий и функцию отписки
func (h *Hub) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

func (h *Hub) Broadcast(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- c:
		default:
			logger.Warn("Realtime: Подписчик не успевает, событие потеряно",
				zap.String("table", c.Table), zap.String("op", c.Op))
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
