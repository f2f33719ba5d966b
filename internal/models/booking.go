package models

import (
	"time"
)

// BookingStatus is a step in the booking lifecycle.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusOnWay      BookingStatus = "on_way"
	BookingStatusArrived    BookingStatus = "arrived"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Valid booking state transitions: one step forward along the chain, or
// cancellation from any non-terminal state.
var ValidBookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusOnWay, BookingStatusCancelled},
	BookingStatusOnWay:      {BookingStatusArrived, BookingStatusCancelled},
	BookingStatusArrived:    {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// Booking event types
const (
	BookingEventCreated       = "booking_created"
	BookingEventStatusChanged = "booking_status_changed"
	BookingEventReviewed      = "booking_reviewed"
)

// WorkerSnapshot is the worker data copied into a booking at creation time.
type WorkerSnapshot struct {
	Name     string         `json:"workerName"`
	Category WorkerCategory `json:"category"`
	Price    float64        `json:"price"`
	ImageURL string         `json:"imageUrl"`
}

// CustomerSnapshot is the requester data copied into a booking at creation time.
type CustomerSnapshot struct {
	UserID string `json:"customerId,omitempty"`
	Name   string `json:"customerName" validate:"required"`
	Phone  string `json:"customerPhone" validate:"required"`
}

type Booking struct {
	ID       string `json:"id"`
	WorkerID string `json:"workerId"`
	WorkerSnapshot
	CustomerSnapshot
	Date               string        `json:"date"`
	Time               string        `json:"time"`
	Location           string        `json:"location"`
	ProblemDescription *string       `json:"problemDescription,omitempty"`
	Status             BookingStatus `json:"status"`
	HasReview          bool          `json:"hasReview"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

type CreateBookingRequest struct {
	WorkerID           string           `json:"workerId" validate:"required"`
	Customer           CustomerSnapshot `json:"customer"`
	Date               string           `json:"date" validate:"required"`
	Time               string           `json:"time" validate:"required"`
	Location           string           `json:"location" validate:"max=300"`
	ProblemDescription *string          `json:"problemDescription,omitempty" validate:"omitempty,max=2000"`
}

type AdvanceBookingRequest struct {
	Status BookingStatus `json:"status" validate:"required,booking_status"`
}

type BookingEvent struct {
	Type       string        `json:"type"`
	BookingID  string        `json:"bookingId"`
	WorkerID   string        `json:"workerId"`
	Status     BookingStatus `json:"status"`
	HasReview  bool          `json:"hasReview"`
	OccurredAt time.Time     `json:"occurredAt"`
}

func IsValidBookingStatus(s BookingStatus) bool {
	_, ok := ValidBookingTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo checks if a booking can transition to a new status
func (b *Booking) CanTransitionTo(newStatus BookingStatus) bool {
	validNextStates, exists := ValidBookingTransitions[b.Status]
	if !exists {
		return false
	}

	for _, state := range validNextStates {
		if state == newStatus {
			return true
		}
	}
	return false
}

// IsActive returns true if the booking is not in a terminal state
func (b *Booking) IsActive() bool {
	return !b.Status.IsTerminal()
}

func (b *Booking) Clone() *Booking {
	c := *b
	if b.ProblemDescription != nil {
		pd := *b.ProblemDescription
		c.ProblemDescription = &pd
	}
	return &c
}

func (b *Booking) Event(eventType string, at time.Time) *BookingEvent {
	return &BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		WorkerID:   b.WorkerID,
		Status:     b.Status,
		HasReview:  b.HasReview,
		OccurredAt: at,
	}
}
