// Package feed pushes complaint change events to connected clients so their
// views refetch after every write.
package feed

import (
	"context"
	"errors"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"log"
	"sync/atomic"
)

// Hub owns the set of connected clients. Only the Run goroutine touches the map.
type Hub struct {
	clients map[Client]struct{}

	RegisterCh   chan Client
	UnregisterCh chan Client
	localCh      chan models.Event

	Storage storage.Storage

	done    chan struct{}
	running atomic.Int64
}

func NewHub(s storage.Storage) *Hub {
	return &Hub{
		clients:      make(map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		localCh:      make(chan models.Event, 64),
		Storage:      s,
		done:         make(chan struct{}),
	}
}

// Publish hands an event to every instance through the broker, or delivers it
// locally when no broker is configured or the broker is unreachable.
func (h *Hub) Publish(ctx context.Context, e models.Event) {
	err := h.Storage.PublishEvent(ctx, e)
	if err == nil {
		return
	}
	if !errors.Is(err, storage.ErrNoBroker) {
		log.Printf("WARNING: Failed to publish %s for complaint %s, delivering locally: %v", e.Type, e.ComplaintID, err)
	}
	select {
	case h.localCh <- e:
	case <-h.done:
	case <-ctx.Done():
	}
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// Clients returns the number of registered clients.
func (h *Hub) Clients() int {
	return int(h.running.Load())
}

// Run dispatches events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	remote, err := h.Storage.SubscribeEvents(ctx)
	if err != nil && !errors.Is(err, storage.ErrNoBroker) {
		log.Printf("ERROR: Failed to subscribe to complaint events: %v", err)
	}

	defer func() {
		close(h.done)
		for c := range h.clients {
			c.Close()
		}
		h.clients = map[Client]struct{}{}
		h.running.Store(0)
		log.Println("Feed hub stopped.")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.RegisterCh:
			h.clients[c] = struct{}{}
			h.running.Store(int64(len(h.clients)))
			c.Run()
			log.Printf("Feed client registered: %s (%s)", c.GetUserID(), c.GetRole())

		case c := <-h.UnregisterCh:
			h.remove(c)

		case e := <-h.localCh:
			h.deliver(e)

		case e, ok := <-remote:
			if !ok {
				log.Println("WARNING: Complaint event subscription closed; continuing with local delivery only.")
				remote = nil
				continue
			}
			h.deliver(e)
		}
	}
}

func (h *Hub) remove(c Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.running.Store(int64(len(h.clients)))
	c.Close()
}

func (h *Hub) deliver(e models.Event) {
	for c := range h.clients {
		if !Visible(c.GetUserID(), c.GetRole(), e) {
			continue
		}
		select {
		case c.GetSendChannel() <- e:
		default:
			if isDurable(c) {
				log.Printf("WARNING: Feed client %s is behind, skipping %s for complaint %s", c.GetUserID(), e.Type, e.ComplaintID)
				continue
			}
			log.Printf("WARNING: Dropping slow feed client %s", c.GetUserID())
			h.remove(c)
		}
	}
}
