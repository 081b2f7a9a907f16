package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"concertly/internal/concerts"
	"concertly/internal/seats"
	"concertly/internal/shared/config"
	"concertly/internal/shared/database"
	"concertly/internal/users"

	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Concertly Database Seeder...")

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

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"booked_seats",
		"bookings",
		"seats",
		"concert_performers",
		"concert_dates",
		"performers",
		"concerts",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	dates, err := s.SeedConcerts()
	if err != nil {
		return fmt.Errorf("failed to seed concerts: %w", err)
	}

	if err := s.SeedSeats(ctx, dates); err != nil {
		return fmt.Errorf("failed to seed seats: %w", err)
	}

	return nil
}

// SeedUsers creates an admin account plus a handful of test users
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	accounts := []struct {
		firstName string
		lastName  string
		email     string
		password  string
		role      users.Role
	}{
		{"Admin", "User", "admin@concertly.dev", "Admin@123", users.RoleAdmin},
		{"Greta", "Olsen", "greta@example.com", "Test@1234", users.RoleUser},
		{"Marco", "Ferreira", "marco@example.com", "Test@1234", users.RoleUser},
		{"Priya", "Nair", "priya@example.com", "Test@1234", users.RoleUser},
	}

	for _, a := range accounts {
		hashed, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", a.email, err)
		}

		user := users.User{
			FirstName: a.firstName,
			LastName:  a.lastName,
			Email:     a.email,
			Password:  string(hashed),
			Role:      a.role,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", a.email, err)
		}
		fmt.Printf("    Created %s user: %s\n", a.role, a.email)
	}

	return nil
}

// SeedConcerts creates performers, concerts, and their published dates.
// It returns every distinct date so seat grids can be provisioned.
func (s *Seeder) SeedConcerts() ([]time.Time, error) {
	fmt.Println("  🎤 Seeding performers and concerts...")

	ctx := context.Background()
	repo := concerts.NewRepository(s.db.PostgreSQL)

	performers := []concerts.Performer{
		{Name: "The Midnight Echoes", ImageName: "midnight-echoes.jpg", Genre: "Indie Rock", Blurb: "Four-piece indie outfit known for wall-of-sound choruses and a relentless touring schedule."},
		{Name: "Aurora Vance", ImageName: "aurora-vance.jpg", Genre: "Pop", Blurb: "Chart-topping vocalist currently on her third world tour."},
		{Name: "Cobalt Quartet", ImageName: "cobalt-quartet.jpg", Genre: "Jazz", Blurb: "Modern jazz quartet blending post-bop with electronic textures."},
		{Name: "Stonepath", ImageName: "stonepath.jpg", Genre: "Folk", Blurb: "Acoustic duo with close harmonies and a devoted festival following."},
	}
	for i := range performers {
		if err := repo.CreatePerformer(ctx, &performers[i]); err != nil {
			return nil, fmt.Errorf("failed to create performer %s: %w", performers[i].Name, err)
		}
	}

	base := time.Now().UTC().Truncate(time.Hour).Add(14 * 24 * time.Hour)

	shows := []struct {
		concert    concerts.Concert
		performers []int
		dates      []time.Time
	}{
		{
			concert: concerts.Concert{
				Title:     "Echoes Live",
				ImageName: "echoes-live.jpg",
				Blurb:     "The Midnight Echoes play their new record front to back, plus the songs that made them.",
			},
			performers: []int{0},
			dates:      []time.Time{base, base.Add(24 * time.Hour)},
		},
		{
			concert: concerts.Concert{
				Title:     "Aurora: City Lights Tour",
				ImageName: "city-lights.jpg",
				Blurb:     "A full production night of pop anthems with special guests.",
			},
			performers: []int{1, 3},
			dates:      []time.Time{base.Add(7 * 24 * time.Hour)},
		},
		{
			concert: concerts.Concert{
				Title:     "An Evening in Blue",
				ImageName: "evening-in-blue.jpg",
				Blurb:     "Cobalt Quartet in an intimate theatre setting. One night only.",
			},
			performers: []int{2},
			dates:      []time.Time{base.Add(10 * 24 * time.Hour)},
		},
	}

	seen := make(map[string]bool)
	var dates []time.Time
	for i := range shows {
		c := &shows[i].concert
		for _, pi := range shows[i].performers {
			c.Performers = append(c.Performers, performers[pi])
		}
		for _, d := range shows[i].dates {
			c.Dates = append(c.Dates, concerts.ConcertDate{Date: d})
			key := seats.DateKey(d)
			if !seen[key] {
				seen[key] = true
				dates = append(dates, d)
			}
		}
		if err := repo.CreateConcert(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to create concert %s: %w", c.Title, err)
		}
		fmt.Printf("    Created concert: %s (%d dates)\n", c.Title, len(shows[i].dates))
	}

	return dates, nil
}

// SeedSeats provisions the full theatre grid for every concert date
func (s *Seeder) SeedSeats(ctx context.Context, dates []time.Time) error {
	fmt.Println("  💺 Seeding seat grids...")

	repo := seats.NewRepository(s.db.PostgreSQL)
	labels := seats.LayoutLabels()

	for _, date := range dates {
		rows := make([]seats.Seat, 0, len(labels))
		for _, label := range labels {
			rows = append(rows, seats.Seat{
				Label: label,
				Date:  date.UTC(),
				Price: seats.PriceForRow(rune(label[0])),
			})
		}
		if err := repo.CreateSeats(ctx, rows); err != nil {
			return fmt.Errorf("failed to create seats for %s: %w", seats.DateKey(date), err)
		}
		fmt.Printf("    Provisioned %d seats for %s\n", len(rows), seats.DateKey(date))
	}

	return nil
}
