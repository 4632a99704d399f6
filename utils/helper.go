package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/markahope-aag/hazardos-sub001/config"
)

func ProcessValidationErrors(err error) map[string]string {

	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorResponse["error"] = err.Error()
		return errorResponse
	}

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	var d T
	if len(defaults) > 0 {
		d = defaults[0]
	}
	return d
}

func NilIfEmpty[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]bool, len(slice))
	var out []T
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func GenerateUniqueFilename() string {

	timestamp := time.Now().UnixNano()

	random := rand.Intn(1000)

	return fmt.Sprintf("%d_%d", timestamp, random)
}

// OrgLock serializes a named operation per organization across instances.
// Returns a release func; callers must defer it.
func OrgLock(ctx context.Context, orgId string, lockType string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", orgId, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, orgId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for org", orgId, err)
		return nil, errors.New("could not obtain lock for org")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for org", orgId, err)
		return nil, err
	}
	return func() {
		_ = lock.Release(ctx)
	}, nil
}
