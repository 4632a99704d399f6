// seed-admin creates or updates the bootstrap admin user for an organization.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_NAME=... go run ./cmd/seed-admin --org-id=<org>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"gorm.io/gorm"
)

const (
	adminEmail = "admin@hazardos.local"
	adminName  = "HazardOS Admin"
)

func main() {
	orgID := flag.String("org-id", "", "Required: organization id")
	password := flag.String("password", "", "Optional: admin password (default Hazard0S-Admin!)")
	flag.Parse()

	if strings.TrimSpace(*orgID) == "" {
		fmt.Fprintln(os.Stderr, "--org-id is required")
		os.Exit(1)
	}
	adminPassword := *password
	if adminPassword == "" {
		adminPassword = "Hazard0S-Admin!"
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	ctx = utils.SetOrgIdInContext(ctx, *orgID)
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			OrgId:    *orgID,
			Name:     adminName,
			Email:    adminEmail,
			Password: hashedStr,
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created admin user %s (id=%d) for org %s\n", adminEmail, u.ID, *orgID)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"Password": hashedStr,
		"IsActive": utils.NewTrue(),
		"OrgId":    *orgID,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("updated admin user %s (id=%d) for org %s\n", adminEmail, existing.ID, *orgID)
}
