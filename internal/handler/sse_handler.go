package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

const (
	bookingEventsChannel = "worknearby:booking:events"
	heartbeatInterval    = 15 * time.Second
)

// SSEHandler streams booking events to subscribed clients. It is also the
// ledger's event publisher: with redis configured, events go through a
// pub/sub channel so every server instance sees them, otherwise they are
// broadcast in process.
type SSEHandler struct {
	bookingService service.BookingService
	redis          *redis.Client
	clients        map[string]map[chan []byte]bool // bookingID -> clients
	mu             sync.RWMutex
	cancel         context.CancelFunc
}

func NewSSEHandler(redisClient *redis.Client) *SSEHandler {
	ctx, cancel := context.WithCancel(context.Background())
	handler := &SSEHandler{
		redis:   redisClient,
		clients: make(map[string]map[chan []byte]bool),
		cancel:  cancel,
	}

	if redisClient != nil {
		go handler.startPubSubListener(ctx)
	}

	return handler
}

// SetBookingService completes construction; the ledger needs the handler as
// its publisher before the handler can look bookings up.
func (h *SSEHandler) SetBookingService(bookingService service.BookingService) {
	h.bookingService = bookingService
}

func (h *SSEHandler) RegisterRoutes(r chi.Router) {
	r.Get("/bookings/{id}/events", h.StreamBooking)
}

// Close stops the pub/sub listener.
func (h *SSEHandler) Close() {
	h.cancel()
}

// StreamBooking sends the booking's current state, then every change to it.
func (h *SSEHandler) StreamBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := utils.NormalizeID(chi.URLParam(r, "id"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Subscribe before reading the snapshot so no change falls between them.
	clientChan := make(chan []byte, 10)
	h.registerClient(bookingID, clientChan)
	defer h.unregisterClient(bookingID, clientChan)

	booking, err := h.bookingService.Get(r.Context(), bookingID)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	initial, _ := json.Marshal(booking.Event("snapshot", time.Now()))
	fmt.Fprintf(w, "event: booking\ndata: %s\n\n", initial)
	flusher.Flush()

	ctx := r.Context()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-clientChan:
			fmt.Fprintf(w, "event: booking\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, "event: heartbeat\ndata: {\"time\": \"%s\"}\n\n", time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

// PublishBookingEvent fans the event out to subscribers of its booking.
func (h *SSEHandler) PublishBookingEvent(ctx context.Context, event *models.BookingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to encode booking event %s: %v", event.BookingID, err)
		return
	}

	if h.redis != nil {
		err := h.redis.Publish(context.WithoutCancel(ctx), bookingEventsChannel, data).Err()
		if err == nil {
			return
		}
		log.Printf("failed to publish booking event %s, delivering locally: %v", event.BookingID, err)
	}

	h.broadcast(event.BookingID, data)
}

func (h *SSEHandler) registerClient(bookingID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[bookingID] == nil {
		h.clients[bookingID] = make(map[chan []byte]bool)
	}
	h.clients[bookingID][ch] = true
}

func (h *SSEHandler) unregisterClient(bookingID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[bookingID]; ok {
		delete(clients, ch)
		if len(clients) == 0 {
			delete(h.clients, bookingID)
		}
	}
	close(ch)
}

func (h *SSEHandler) subscriberCount(bookingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[bookingID])
}

func (h *SSEHandler) broadcast(bookingID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients[bookingID] {
		select {
		case ch <- data:
		default:
			// Client too slow, skip
		}
	}
}

// startPubSubListener relays booking events published by any instance.
func (h *SSEHandler) startPubSubListener(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, bookingEventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.BookingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("dropping malformed booking event: %v", err)
				continue
			}
			h.broadcast(event.BookingID, []byte(msg.Payload))
		}
	}
}
