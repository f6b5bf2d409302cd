// Package main provides admin management utilities for SkillSwap.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// AdminSetup provides a utility to manage admin and ban status from the shell
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>          - Promote user to admin")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>           - Demote user from admin")
		fmt.Println("  go run ./cmd/admin/main.go ban <user_id> [reason...]  - Ban a user")
		fmt.Println("  go run ./cmd/admin/main.go unban <user_id>            - Lift a ban")
		fmt.Println("  go run ./cmd/admin/main.go list-admins                - List all admins")
		fmt.Println("  go run ./cmd/admin/main.go list-banned                - List banned users")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go promote <user_id>")
			os.Exit(1)
		}
		setAdmin(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go demote <user_id>")
			os.Exit(1)
		}
		setAdmin(db, os.Args[2], false)

	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go ban <user_id> [reason...]")
			os.Exit(1)
		}
		banUser(db, os.Args[2], strings.Join(os.Args[3:], " "))

	case "unban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go unban <user_id>")
			os.Exit(1)
		}
		unbanUser(db, os.Args[2])

	case "list-admins":
		listAdmins(db)

	case "list-banned":
		listBanned(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func loadUser(db *gorm.DB, userID string) *models.User {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}
	return &user
}

func setAdmin(db *gorm.DB, userID string, admin bool) {
	user := loadUser(db, userID)

	if user.IsAdmin == admin {
		if admin {
			fmt.Printf("User %s (ID: %d) is already an admin\n", user.Username, user.ID)
		} else {
			fmt.Printf("User %s (ID: %d) is not an admin\n", user.Username, user.ID)
		}
		return
	}

	user.IsAdmin = admin
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	if admin {
		fmt.Printf("✅ Successfully promoted %s (ID: %d) to admin\n", user.Username, user.ID)
	} else {
		fmt.Printf("✅ Successfully demoted %s (ID: %d) from admin\n", user.Username, user.ID)
	}
}

func banUser(db *gorm.DB, userID, reason string) {
	user := loadUser(db, userID)

	if user.IsBanned {
		fmt.Printf("User %s (ID: %d) is already banned\n", user.Username, user.ID)
		return
	}

	now := time.Now()
	user.IsBanned = true
	user.BannedAt = &now
	user.BannedReason = reason
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to ban user: %v", err)
	}

	fmt.Printf("✅ Banned %s (ID: %d)", user.Username, user.ID)
	if reason != "" {
		fmt.Printf(" reason: %s", reason)
	}
	fmt.Println()
}

func unbanUser(db *gorm.DB, userID string) {
	user := loadUser(db, userID)

	if !user.IsBanned {
		fmt.Printf("User %s (ID: %d) is not banned\n", user.Username, user.ID)
		return
	}

	updates := map[string]any{"is_banned": false, "banned_at": nil, "banned_reason": ""}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		log.Fatalf("Failed to unban user: %v", err)
	}

	fmt.Printf("✅ Unbanned %s (ID: %d)\n", user.Username, user.ID)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
	}
	fmt.Println("─────────────────────────────────────")
}

func listBanned(db *gorm.DB) {
	var banned []models.User
	if err := db.Where("is_banned = ?", true).Find(&banned).Error; err != nil {
		log.Fatalf("Failed to fetch banned users: %v", err)
	}

	if len(banned) == 0 {
		fmt.Println("No banned users")
		return
	}

	fmt.Println("\n🚫 Banned Users:")
	fmt.Println("─────────────────────────────────────")
	for _, u := range banned {
		reason := u.BannedReason
		if reason == "" {
			reason = "(no reason recorded)"
		}
		since := "unknown"
		if u.BannedAt != nil {
			since = u.BannedAt.Format("2006-01-02")
		}
		fmt.Printf("ID: %d | Username: %s | Since: %s | %s\n",
			u.ID, u.Username, since, reason)
	}
	fmt.Println("─────────────────────────────────────")
}
