package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rv-work/Mini-Buyers/internal/database"
	"github.com/rv-work/Mini-Buyers/internal/domain/auth"
	"github.com/rv-work/Mini-Buyers/internal/domain/buyer"
)

func main() {
	db, err := database.Connect("buyers.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&auth.User{}, &buyer.Buyer{}, &buyer.ChangeRecord{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM buyer_history")
	db.Exec("DELETE FROM buyers")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := auth.NewRepository(db)
	repo := buyer.NewRepository(db)

	demo, err := users.Upsert(ctx, auth.DemoEmail, "Demo User")
	if err != nil {
		log.Fatal("seed user failed:", err)
	}

	two := buyer.BHKTwo
	three := buyer.BHKThree
	budget := func(n int) *int { return &n }

	samples := []buyer.BuyerInput{
		{
			FullName: "Aarav Sharma", Email: "aarav@example.com", Phone: "9876543210",
			City: buyer.CityChandigarh, PropertyType: buyer.PropertyApartment, BHK: &two,
			Purpose: buyer.PurposeBuy, BudgetMin: budget(3000000), BudgetMax: budget(5000000),
			Timeline: buyer.TimelineZeroToThree, Source: buyer.SourceWebsite,
			Notes: "Looking for 2BHK near IT Park", Tags: []string{"hot", "priority"},
		},
		{
			FullName: "Priya Verma", Phone: "9812345678",
			City: buyer.CityMohali, PropertyType: buyer.PropertyVilla, BHK: &three,
			Purpose: buyer.PurposeBuy, BudgetMin: budget(8000000), BudgetMax: budget(12000000),
			Timeline: buyer.TimelineThreeToSix, Source: buyer.SourceReferral,
			Tags: []string{"investor"},
		},
		{
			FullName: "Rohan Gupta", Email: "rohan@example.com", Phone: "9900112233",
			City: buyer.CityZirakpur, PropertyType: buyer.PropertyPlot,
			Purpose: buyer.PurposeBuy, Timeline: buyer.TimelineExploring,
			Source: buyer.SourceWalkIn, Notes: "Wants a corner plot",
		},
	}

	now := time.Now().UTC()
	for i, in := range samples {
		if err := buyer.ValidateInput(&in); err != nil {
			log.Fatalf("sample %d invalid: %v", i+1, err)
		}

		b := &buyer.Buyer{
			ID:        uuid.NewString(),
			OwnerID:   demo.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applySample(b, in)

		diff, err := buyer.CreatedDiff(in)
		if err != nil {
			log.Fatal(err)
		}
		rec := &buyer.ChangeRecord{
			ID:        uuid.NewString(),
			BuyerID:   b.ID,
			ChangedBy: demo.ID,
			Diff:      diff,
			CreatedAt: now,
		}
		if err := repo.Create(ctx, b, rec); err != nil {
			log.Fatal("seed buyer failed:", err)
		}
		log.Printf("seeded %s", b.FullName)
	}

	log.Println("Done.")
}

func applySample(b *buyer.Buyer, in buyer.BuyerInput) {
	b.FullName = in.FullName
	b.Email = in.Email
	b.Phone = in.Phone
	b.City = in.City
	b.PropertyType = in.PropertyType
	b.BHK = in.BHK
	b.Purpose = in.Purpose
	b.BudgetMin = in.BudgetMin
	b.BudgetMax = in.BudgetMax
	b.Timeline = in.Timeline
	b.Source = in.Source
	b.Status = in.Status
	b.Notes = in.Notes
	b.Tags = buyer.StringSlice(in.Tags)
}
