package models

import (
	"strings"
	"time"
)

// WorkerCategory is the trade a worker offers.
type WorkerCategory string

const (
	CategoryElectrician WorkerCategory = "Electrician"
	CategoryPlumber     WorkerCategory = "Plumber"
	CategoryPainter     WorkerCategory = "Painter"
	CategoryCarpenter   WorkerCategory = "Carpenter"
	CategoryCleaner     WorkerCategory = "Cleaner"
	CategoryOther       WorkerCategory = "Other"
)

// ApprovalStatus tracks the admin review of a worker registration.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid approval transitions. Approved and rejected are terminal.
var ValidApprovalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending:  {ApprovalApproved, ApprovalRejected},
	ApprovalApproved: {},
	ApprovalRejected: {},
}

type Availability struct {
	Days  []string `json:"days" validate:"dive,weekday"`
	Hours string   `json:"hours"`
}

type PortfolioItem struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl" validate:"required"`
	Description string `json:"description"`
}

// MapPosition is display metadata for the demo map view.
type MapPosition struct {
	Top  string `json:"top"`
	Left string `json:"left"`
}

type WorkerProfile struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Category           WorkerCategory  `json:"category"`
	Rating             float64         `json:"rating"`
	HourlyRate         float64         `json:"hourlyRate"`
	Location           string          `json:"location"`
	Description        string          `json:"description"`
	ImageURL           string          `json:"imageUrl"`
	Reviews            int             `json:"reviews"`
	Availability       Availability    `json:"availability"`
	SubSpecializations []string        `json:"subSpecializations"`
	Portfolio          []PortfolioItem `json:"portfolio"`
	Status             ApprovalStatus  `json:"status"`
	MapPosition        *MapPosition    `json:"mapPosition,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type RegisterWorkerRequest struct {
	Name               string          `json:"name" validate:"required,min=2,max=100"`
	Phone              string          `json:"phone" validate:"required,min=7,max=20"`
	Category           WorkerCategory  `json:"category" validate:"required,worker_category"`
	HourlyRate         float64         `json:"hourlyRate" validate:"gte=0"`
	Location           string          `json:"location" validate:"max=200"`
	Description        string          `json:"description" validate:"max=2000"`
	ImageURL           string          `json:"imageUrl"`
	Availability       Availability    `json:"availability"`
	SubSpecializations []string        `json:"subSpecializations" validate:"dive,required"`
	Portfolio          []PortfolioItem `json:"portfolio" validate:"dive"`
	MapPosition        *MapPosition    `json:"mapPosition,omitempty"`
}

// WorkerUpdate edits display and pricing fields. Nil fields are left unchanged.
type WorkerUpdate struct {
	Name               *string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone              *string         `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	HourlyRate         *float64        `json:"hourlyRate,omitempty" validate:"omitempty,gte=0"`
	Rating             *float64        `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Location           *string         `json:"location,omitempty" validate:"omitempty,max=200"`
	Description        *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL           *string         `json:"imageUrl,omitempty"`
	Availability       *Availability   `json:"availability,omitempty"`
	SubSpecializations []string        `json:"subSpecializations,omitempty" validate:"omitempty,dive,required"`
	Portfolio          []PortfolioItem `json:"portfolio,omitempty" validate:"omitempty,dive"`
	MapPosition        *MapPosition    `json:"mapPosition,omitempty"`
}

type WorkerFilter struct {
	Category     WorkerCategory
	Location     string
	MaxRate      *float64
	Query        string
	SortByRating bool
}

// GetWorkerCategories returns all recognized categories in display order.
func GetWorkerCategories() []WorkerCategory {
	return []WorkerCategory{
		CategoryElectrician,
		CategoryPlumber,
		CategoryPainter,
		CategoryCarpenter,
		CategoryCleaner,
		CategoryOther,
	}
}

func IsValidWorkerCategory(c WorkerCategory) bool {
	for _, known := range GetWorkerCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func IsValidApprovalStatus(s ApprovalStatus) bool {
	_, ok := ValidApprovalTransitions[s]
	return ok
}

// CanTransitionTo checks if a profile can move to a new approval status
func (w *WorkerProfile) CanTransitionTo(newStatus ApprovalStatus) bool {
	for _, state := range ValidApprovalTransitions[w.Status] {
		if state == newStatus {
			return true
		}
	}
	return false
}

func (w *WorkerProfile) IsApproved() bool {
	return w.Status == ApprovalApproved
}

// Matches reports whether the profile satisfies every set field of the filter.
// Approval status is not considered.
func (w *WorkerProfile) Matches(f WorkerFilter) bool {
	if f.Category != "" && w.Category != f.Category {
		return false
	}
	if f.Location != "" && !containsFold(w.Location, f.Location) {
		return false
	}
	if f.MaxRate != nil && w.HourlyRate > *f.MaxRate {
		return false
	}
	if f.Query != "" {
		if containsFold(w.Name, f.Query) || containsFold(w.Description, f.Query) {
			return true
		}
		for _, s := range w.SubSpecializations {
			if containsFold(s, f.Query) {
				return true
			}
		}
		return false
	}
	return true
}

// Snapshot copies the fields a booking keeps about its worker.
func (w *WorkerProfile) Snapshot() WorkerSnapshot {
	return WorkerSnapshot{
		Name:     w.Name,
		Category: w.Category,
		Price:    w.HourlyRate,
		ImageURL: w.ImageURL,
	}
}

// Clone returns a deep copy so stored profiles never share slices with callers.
func (w *WorkerProfile) Clone() *WorkerProfile {
	c := *w
	c.Availability.Days = append([]string(nil), w.Availability.Days...)
	c.SubSpecializations = append([]string(nil), w.SubSpecializations...)
	c.Portfolio = append([]PortfolioItem(nil), w.Portfolio...)
	if w.MapPosition != nil {
		mp := *w.MapPosition
		c.MapPosition = &mp
	}
	return &c
}

// Apply copies the set fields of u onto the profile.
func (w *WorkerProfile) Apply(u *WorkerUpdate) {
	if u.Name != nil {
		w.Name = *u.Name
	}
	if u.Phone != nil {
		w.Phone = *u.Phone
	}
	if u.HourlyRate != nil {
		w.HourlyRate = *u.HourlyRate
	}
	if u.Rating != nil {
		w.Rating = *u.Rating
	}
	if u.Location != nil {
		w.Location = *u.Location
	}
	if u.Description != nil {
		w.Description = *u.Description
	}
	if u.ImageURL != nil {
		w.ImageURL = *u.ImageURL
	}
	if u.Availability != nil {
		w.Availability = Availability{
			Days:  append([]string(nil), u.Availability.Days...),
			Hours: u.Availability.Hours,
		}
	}
	if u.SubSpecializations != nil {
		w.SubSpecializations = append([]string(nil), u.SubSpecializations...)
	}
	if u.Portfolio != nil {
		w.Portfolio = append([]PortfolioItem(nil), u.Portfolio...)
	}
	if u.MapPosition != nil {
		mp := *u.MapPosition
		w.MapPosition = &mp
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
