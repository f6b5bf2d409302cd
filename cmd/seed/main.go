// Command main runs the database seeder for SkillSwap.
package main

import (
	"flag"
	"log"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	skillsPerUser := flag.Int("skills", 4, "Skills per user")
	swapsPerUser := flag.Int("swaps", 2, "Swap requests per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", "Apply a YAML fixture instead of randomized data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Messages(db); err != nil {
		log.Fatalf("❌ Built-in announcement seeding failed: %v", err)
	}

	if *fixture != "" {
		log.Printf("Applying fixture: %s (ignoring other flags)\n", *fixture)
		fx, err := seed.LoadFixtureFile(*fixture)
		if err != nil {
			log.Fatalf("❌ Fixture load failed: %v", err)
		}
		if err := seed.ApplyFixture(db, fx); err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		log.Printf("Target: %d users, %d skills each, %d swaps each, clean=%v\n",
			*numUsers, *skillsPerUser, *swapsPerUser, *shouldClean)
		err := seed.Seed(db, seed.Options{
			NumUsers:      *numUsers,
			SkillsPerUser: *skillsPerUser,
			SwapsPerUser:  *swapsPerUser,
			ShouldClean:   *shouldClean,
		})
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
