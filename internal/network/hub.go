package network

import (
	"sync"

	"spatial-server/pkg/api"
)

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Подписчик — клиентская сессия; каждая смотрит на один энкаунтер.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ClientID -> Личный канал
	subscribers map[string]chan api.ServerResponse
	// Мапа: ClientID -> ID энкаунтера, на который он смотрит (0 = никакой)
	watching map[string]int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
		watching:    make(map[string]int),
	}
}

// Register создает личный канал для клиентской сессии
func (b *Broadcaster) Register(clientID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[clientID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[clientID]; ok {
		close(ch)
		delete(b.subscribers, clientID)
	}
	delete(b.watching, clientID)
}

// Watch привязывает клиента к энкаунтеру: ему будут приходить
// STATE-обновления после каждой мутации.
func (b *Broadcaster) Watch(clientID string, encounterID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watching[clientID] = encounterID
}

// SendTo отправляет сообщение конкретному клиенту (Unicast)
func (b *Broadcaster) SendTo(clientID string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[clientID]; ok {
		select {
		case ch <- msg:
		default:
			// Канал полон: клиент не успевает, сообщение пропускаем
		}
	}
}

// BroadcastEncounter отправляет сообщение всем, кто смотрит на энкаунтер
func (b *Broadcaster) BroadcastEncounter(encounterID int, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for clientID, watched := range b.watching {
		if watched != encounterID {
			continue
		}
		if ch, ok := b.subscribers[clientID]; ok {
			select {
			case ch <- msg:
			default:
			}
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
