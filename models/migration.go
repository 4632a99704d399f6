package models

import (
	"log"

	"github.com/markahope-aag/hazardos-sub001/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Job{}, &JobCompletion{},
		&TimeEntry{}, &MaterialUsageEntry{},
		&CompletionPhoto{},
		&ChecklistTemplateItem{}, &ChecklistItem{},
		&JobCollaborator{},
		&History{},
		&CompletionEventRecord{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
