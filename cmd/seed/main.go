package main

import (
	"fmt"
	"log"
	"time"

	"denchetravel/internal/departures"
	"denchetravel/internal/policies"
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/database"
	"denchetravel/internal/trips"
	"denchetravel/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting TravelwithDENCHE Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n📝 Summary:")
	fmt.Println("  - Sample trip \"Alps Hiking Escape\" created")
	fmt.Println("  - 2 departures: 1 with free RSVP, 1 with deposit")
	fmt.Println("  - Standard refund policy created")
	fmt.Println("  - Admin user created (admin@denchetravel.com / admin123)")
	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order
func (s *Seeder) CleanDatabase() error {
	tables := []string{"payments", "bookings", "departures", "trips", "refund_policies", "users"}
	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		fmt.Printf("  Cleared %s\n", table)
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	if err := s.SeedAdminUser(); err != nil {
		return err
	}

	policyID, err := s.SeedRefundPolicy()
	if err != nil {
		return err
	}

	tripID, err := s.SeedTrip()
	if err != nil {
		return err
	}

	return s.SeedDepartures(tripID, policyID)
}

func (s *Seeder) SeedAdminUser() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &users.User{
		Email:    "admin@denchetravel.com",
		Password: string(hashedPassword),
		Name:     "Aimen Denche",
		Role:     users.RoleAdmin,
	}
	if err := s.db.PostgreSQL.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	fmt.Println("  ✅ Created admin user")
	return nil
}

func (s *Seeder) SeedRefundPolicy() (uuid.UUID, error) {
	policy := &policies.RefundPolicy{
		Name: "Standard",
		Rules: policies.RuleSet{
			{DaysBefore: 30, RefundPct: 80},
			{DaysBefore: 7, RefundPct: 50},
			{DaysBefore: 0, RefundPct: 0},
		},
	}
	if err := s.db.PostgreSQL.Create(policy).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create refund policy: %w", err)
	}

	fmt.Println("  ✅ Created Standard refund policy")
	return policy.ID, nil
}

func (s *Seeder) SeedTrip() (uuid.UUID, error) {
	trip := &trips.Trip{
		Slug:         "alps-hiking-escape",
		Title:        "Alps Hiking Escape",
		Subtitle:     "Weekend adventure in the spectacular French Alps",
		HeroImageURL: "https://images.unsplash.com/photo-1464822759844-d150ad6c0330?w=800&h=600&fit=crop",
		DescriptionMD: "# Experience the Alps Like Never Before\n\n" +
			"Join us for an unforgettable weekend adventure in the heart of the French Alps. " +
			"This carefully crafted hiking experience combines breathtaking mountain scenery, " +
			"authentic alpine culture, and the thrill of conquering some of Europe's most stunning peaks.",
		ItineraryMD: "# Day-by-Day Itinerary\n\n" +
			"## Day 1: Arrival & Chamonix Valley\n" +
			"## Day 2: Mont Blanc Massif Adventure\n" +
			"## Day 3: Hidden Gems & Farewell",
		Highlights: trips.StringList{
			"Panoramic Mont Blanc views",
			"Glacier lake discoveries",
			"Traditional Alpine cuisine",
			"Professional photography",
			"Small group intimacy",
			"Local insider access",
		},
		Difficulty: "moderate",
		Included: trips.StringList{
			"Professional mountain guide",
			"Mountain hut accommodation",
			"All breakfasts included",
			"Safety equipment provided",
			"Cable car tickets",
			"Group photos & memories",
		},
		NotIncluded: trips.StringList{
			"International flights",
			"Lunch and dinner (except mentioned)",
			"Personal hiking equipment",
			"Travel insurance",
			"Alcoholic beverages",
			"Personal expenses",
		},
		GroupSizeMin:  8,
		GroupSizeMax:  16,
		Languages:     trips.StringList{"en", "fr"},
		Accommodation: "Traditional mountain huts with shared facilities",
		MeetingPoint:  "Chamonix Train Station, Place de la Gare",
		MeetingMapURL: "https://www.google.com/maps/place/Chamonix-Mont-Blanc,+France",
		FAQ: trips.FAQList{
			{
				Question: "What fitness level is required?",
				Answer:   "Moderate fitness level required. You should be comfortable walking 4-6 hours with breaks. We adapt routes to group capabilities.",
			},
			{
				Question: "What if weather is bad?",
				Answer:   "We have alternative indoor activities and lower-altitude hikes. Safety is our priority, and we'll adjust plans as needed.",
			},
			{
				Question: "Are solo travelers welcome?",
				Answer:   "Absolutely! About 40% of our travelers are solo adventurers. Our small groups create instant friendships.",
			},
		},
		Featured: true,
		Active:   true,
	}
	if err := s.db.PostgreSQL.Create(trip).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create trip: %w", err)
	}

	fmt.Println("  ✅ Created sample trip: Alps Hiking Escape")
	return trip.ID, nil
}

func (s *Seeder) SeedDepartures(tripID, policyID uuid.UUID) error {
	now := time.Now()

	// Departure 1 - free RSVP enabled, 30 days out
	departure1 := &departures.Departure{
		TripID:                    tripID,
		StartDate:                 now.Add(30 * 24 * time.Hour),
		EndDate:                   now.Add(33 * 24 * time.Hour),
		Capacity:                  12,
		SpotsLeft:                 12,
		BasePriceCents:            49900,
		Currency:                  "EUR",
		DepositCents:              15000,
		AllowFreeRSVP:             true,
		BookingDeadline:           now.Add(25 * 24 * time.Hour),
		RefundPolicyID:            policyID,
		BalanceDueDaysBeforeStart: 14,
	}

	// Departure 2 - deposit required, 60 days out
	departure2 := &departures.Departure{
		TripID:                    tripID,
		StartDate:                 now.Add(60 * 24 * time.Hour),
		EndDate:                   now.Add(63 * 24 * time.Hour),
		Capacity:                  16,
		SpotsLeft:                 16,
		BasePriceCents:            49900,
		Currency:                  "EUR",
		DepositCents:              15000,
		AllowFreeRSVP:             false,
		BookingDeadline:           now.Add(55 * 24 * time.Hour),
		RefundPolicyID:            policyID,
		BalanceDueDaysBeforeStart: 14,
	}

	if err := s.db.PostgreSQL.Create(departure1).Error; err != nil {
		return fmt.Errorf("failed to create departure: %w", err)
	}
	if err := s.db.PostgreSQL.Create(departure2).Error; err != nil {
		return fmt.Errorf("failed to create departure: %w", err)
	}

	fmt.Println("  ✅ Created 2 sample departures")
	return nil
}
