package models

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// These tests exercise the real persistence paths and only run when
// TEST_DATABASE_DSN points at a disposable MySQL database, e.g.
// root:secret@tcp(localhost:3306)/hazardos_test?multiStatements=true&parseTime=true
// The cache test additionally needs TEST_REDIS_ADDRESS.

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	config.SetDB(db)
	MigrateTable()
	return db
}

func integrationRedis(t *testing.T) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping test redis: %v", err)
	}
	config.SetRedisClient(client)
	t.Cleanup(func() {
		config.SetRedisClient(nil)
		_ = client.Close()
	})
}

func integrationOrg(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("it-%s-%d", t.Name(), time.Now().UnixNano())
}

func integrationContext(orgId string) context.Context {
	ctx := utils.SetOrgIdInContext(context.Background(), orgId)
	ctx = utils.SetUserIdInContext(ctx, 1)
	return utils.SetUserNameInContext(ctx, "integration")
}

func seedJob(t *testing.T, db *gorm.DB, orgId string) *Job {
	t.Helper()
	job := &Job{
		OrgId:                  orgId,
		JobNumber:              fmt.Sprintf("JOB-%d", time.Now().UnixNano()),
		Status:                 JobStatusInProgress,
		EstimatedDurationHours: decimal.NewFromInt(24),
		ContractAmount:         decimal.NewFromInt(5000),
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func TestCreateJobCompletion_SecondCallReturnsSameRecord(t *testing.T) {
	db := integrationDB(t)
	orgId := integrationOrg(t)
	job := seedJob(t, db, orgId)
	ctx := integrationContext(orgId)

	first, err := CreateJobCompletion(ctx, &NewJobCompletion{JobId: job.ID})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := CreateJobCompletion(ctx, &NewJobCompletion{JobId: job.ID})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one completion record per job, got ids %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&JobCompletion{}).Where("org_id = ? AND job_id = ?", orgId, job.ID).Count(&count).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 completion row, found %d", count)
	}
}

func TestInitializeChecklist_SecondCallKeepsItemCount(t *testing.T) {
	db := integrationDB(t)
	orgId := integrationOrg(t)
	job := seedJob(t, db, orgId)
	ctx := integrationContext(orgId)

	for i, name := range []string{"Air scrubbers shut down", "Containment removed", "Waste manifests signed"} {
		if _, err := CreateChecklistTemplateItem(ctx, &NewChecklistTemplateItem{
			Category:  ChecklistCategoryCleanup,
			ItemName:  name,
			SortOrder: i,
		}); err != nil {
			t.Fatalf("seed template: %v", err)
		}
	}

	first, err := InitializeChecklist(ctx, job.ID)
	if err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	second, err := InitializeChecklist(ctx, job.ID)
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("item counts: first=%d second=%d, want 3 and 3", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("second call must return the existing rows, got ids %d and %d", first[0].ID, second[0].ID)
	}
}

func TestCreateTimeEntry_RefreshesCachedCompletion(t *testing.T) {
	db := integrationDB(t)
	integrationRedis(t)
	orgId := integrationOrg(t)
	job := seedJob(t, db, orgId)
	ctx := integrationContext(orgId)

	if _, err := CreateJobCompletion(ctx, &NewJobCompletion{JobId: job.ID}); err != nil {
		t.Fatalf("create completion: %v", err)
	}
	// warm the cache with the zero-actuals row
	if _, err := GetJobCompletionByJob(ctx, job.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	rate := decimal.NewFromInt(50)
	if _, err := CreateTimeEntry(ctx, &NewTimeEntry{
		JobId:      job.ID,
		WorkerId:   1,
		WorkDate:   time.Now().UTC(),
		Hours:      decimal.NewFromInt(6),
		HourlyRate: &rate,
	}); err != nil {
		t.Fatalf("create time entry: %v", err)
	}

	got, err := GetJobCompletionByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("read after entry: %v", err)
	}
	if !got.Actuals.ActualHours.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("cached completion is stale: actual hours = %s, want 6", got.Actuals.ActualHours)
	}
	if !got.Actuals.ActualTotal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("cached completion is stale: actual total = %s, want 300", got.Actuals.ActualTotal)
	}
}
