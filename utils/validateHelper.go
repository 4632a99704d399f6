package utils

import (
	"context"

	"github.com/markahope-aag/hazardos-sub001/config"
)

// count rows matching cond, using orgId in WHERE
func ResourceCountWhere[T any](ctx context.Context, orgId string, cond string, values ...interface{}) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).
		Where("org_id = ?", orgId).
		Where(cond, values...).
		Count(&count).Error
	return count, err
}

// check if id exists, using ctx's org_id in WHERE, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, orgId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, orgId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}
