package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event имя события изменения данных.
type Event string

// События публикуются владельцами записей после успешного коммита. Владельцы кешей
// подписываются на них вместо прямых вызовов инвалидации друг у друга.
const (
	LinkCreated         Event = "link.created"
	LinkDeleted         Event = "link.deleted"
	ClickRecorded       Event = "click.recorded"
	SubscriptionChanged Event = "subscription.changed"
)

// Payload данные события.
type Payload struct {
	UserID uuid.UUID
	LinkID uuid.UUID
}

type HandlerFunc func(Payload)

// Bus внутрипроцессная шина событий. Диспатч синхронный: подписчики дешевые
// (снятие ключей кеша) и обязаны отработать до ответа клиенту.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Event][]HandlerFunc
	logger *logrus.Entry
}

func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{
		subs:   make(map[Event][]HandlerFunc),
		logger: logger.WithField("module", "events"),
	}
}

func (b *Bus) Subscribe(event Event, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], handler)
}

func (b *Bus) Publish(event Event, payload Payload) {
	b.mu.RLock()
	handlers := b.subs[event]
	b.mu.RUnlock()

	b.logger.WithFields(logrus.Fields{
		"event":  event,
		"userId": payload.UserID,
		"linkId": payload.LinkID,
	}).Debug("publishing event")

	for _, h := range handlers {
		h(payload)
	}
}
