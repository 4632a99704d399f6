package utils

import (
	"context"

	"github.com/markahope-aag/hazardos-sub001/config"
)

/* DB fetching */

// fetch model from db
// (ctx's org_id is used in query's WHERE, may return RecordNotFound)
func FetchModel[T any](ctx context.Context, orgId string, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("org_id = ?", orgId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch one id-ordered page of models belonging to one job; afterId is an
// exclusive cursor (0 = first page), limit <= 0 returns everything
func FetchPageByJob[T any](ctx context.Context, orgId string, jobId int, afterId int, limit int) ([]*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("org_id = ? AND job_id = ?", orgId, jobId)
	if afterId > 0 {
		dbCtx = dbCtx.Where("id > ?", afterId)
	}
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	var results []*T
	if err := dbCtx.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// fetch all models belonging to one job
// (ctx's org_id is used in query's WHERE)
func FetchModelsByJob[T any](ctx context.Context, orgId string, jobId int, orders ...string) ([]*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("org_id = ? AND job_id = ?", orgId, jobId)
	for _, order := range orders {
		dbCtx = dbCtx.Order(order)
	}
	var results []*T
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
