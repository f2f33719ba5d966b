// Package seed loads the demo directory the app ships with: a handful of
// workers across categories, one still waiting for review, and a demo
// customer account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
)

const (
	DemoPhone    = "9876543210"
	DemoPassword = "demo1234"
)

type demoWorker struct {
	name     string
	category models.WorkerCategory
	rate     float64
	rating   float64
	reviews  int
	location string
	skills   []string
	status   models.ApprovalStatus
	top      string
	left     string
}

var demoWorkers = []demoWorker{
	{"Rahul Kumar", models.CategoryElectrician, 450, 4.8, 124, "Koramangala", []string{"Wiring", "Inverter setup"}, models.ApprovalApproved, "30%", "40%"},
	{"Priya Sharma", models.CategoryPlumber, 400, 4.6, 89, "Indiranagar", []string{"Leak repair", "Bathroom fitting"}, models.ApprovalApproved, "45%", "62%"},
	{"Amit Patel", models.CategoryPainter, 350, 4.4, 56, "HSR Layout", []string{"Interior", "Texture"}, models.ApprovalApproved, "60%", "35%"},
	{"Sneha Reddy", models.CategoryCleaner, 300, 4.9, 203, "Whitefield", []string{"Deep cleaning", "Sofa shampoo"}, models.ApprovalApproved, "25%", "75%"},
	{"Vikram Singh", models.CategoryCarpenter, 500, 4.7, 71, "Jayanagar", []string{"Modular kitchen", "Furniture repair"}, models.ApprovalApproved, "70%", "50%"},
	{"Kiran Nair", models.CategoryElectrician, 380, 0, 0, "BTM Layout", []string{"Fan installation"}, models.ApprovalPending, "", ""},
}

// Workers inserts the demo directory straight into the repository; demo
// data is not subject to the approval workflow.
func Workers(ctx context.Context, repo repository.WorkerRepository) error {
	for i, d := range demoWorkers {
		worker := &models.WorkerProfile{
			Name:               d.name,
			Phone:              fmt.Sprintf("98450%05d", i+1),
			Category:           d.category,
			Rating:             d.rating,
			HourlyRate:         d.rate,
			Location:           d.location + ", Bengaluru",
			Description:        fmt.Sprintf("%s based in %s.", d.category, d.location),
			ImageURL:           "https://i.pravatar.cc/300?u=" + utils.GenerateID(),
			Reviews:            d.reviews,
			Availability:       models.Availability{Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, Hours: "9:00 AM - 7:00 PM"},
			SubSpecializations: d.skills,
			Portfolio:          []models.PortfolioItem{},
			Status:             d.status,
		}
		if d.top != "" {
			worker.MapPosition = &models.MapPosition{Top: d.top, Left: d.left}
		}
		if err := repo.Create(ctx, worker); err != nil {
			return fmt.Errorf("seed worker %s: %w", d.name, err)
		}
	}
	log.Printf("Seeded %d demo workers", len(demoWorkers))
	return nil
}

// DemoAccount registers the demo customer unless it already exists.
func DemoAccount(ctx context.Context, sessions service.SessionService) error {
	_, err := sessions.SignUp(ctx, &models.SignUpRequest{
		Name:     "Demo Customer",
		Phone:    DemoPhone,
		Password: DemoPassword,
	})
	if errors.Is(err, apperrors.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed demo account: %w", err)
	}
	log.Printf("Seeded demo account %s", DemoPhone)
	return nil
}
