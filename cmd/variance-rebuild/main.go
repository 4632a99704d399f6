// variance-rebuild recomputes the stored variance block for job completions
// from the current time and material ledgers. Use it after a manual data fix
// or to verify stored figures match the ledgers.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_NAME=... go run ./cmd/variance-rebuild --org-id=<org> [--job-id=N]
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
	"github.com/sirupsen/logrus"
)

func main() {
	orgID := flag.String("org-id", "", "Required: organization id")
	jobID := flag.Int("job-id", 0, "Optional: rebuild a single job; default rebuilds every completion in the org")
	continueOnError := flag.Bool("continue-on-error", false, "Skip failing jobs and continue rebuilding others")
	flag.Parse()

	if strings.TrimSpace(*orgID) == "" {
		fmt.Fprintln(os.Stderr, "--org-id is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	logger := logrus.New()

	ctx := context.Background()
	ctx = utils.SetOrgIdInContext(ctx, *orgID)
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "variance-rebuild")

	var jobIds []int
	if *jobID > 0 {
		jobIds = append(jobIds, *jobID)
	} else {
		if err := db.WithContext(ctx).Model(&models.JobCompletion{}).
			Where("org_id = ?", *orgID).
			Order("job_id ASC").
			Pluck("job_id", &jobIds).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to list completions: %v\n", err)
			os.Exit(1)
		}
	}
	if len(jobIds) == 0 {
		fmt.Println("no completions found; nothing to rebuild")
		return
	}

	var failed int
	for _, id := range jobIds {
		tx := db.Begin()
		completion, err := models.RecomputeJobCompletionVariance(ctx, tx, *orgID, id)
		if err == nil {
			err = tx.Commit().Error
		} else {
			tx.Rollback()
		}
		if err != nil {
			failed++
			logger.WithFields(logrus.Fields{
				"org_id": *orgID,
				"job_id": id,
			}).Error("rebuild failed: " + err.Error())
			if !*continueOnError {
				os.Exit(1)
			}
			continue
		}
		if completion == nil {
			continue
		}
		logger.WithFields(logrus.Fields{
			"org_id":       *orgID,
			"job_id":       id,
			"actual_hours": completion.Actuals.ActualHours.String(),
			"actual_total": completion.Actuals.ActualTotal.String(),
		}).Info("rebuilt")
	}

	fmt.Printf("rebuilt %d completion(s), %d failure(s)\n", len(jobIds)-failed, failed)
	if failed > 0 {
		os.Exit(2)
	}
}
