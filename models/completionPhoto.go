package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

// CompletionPhoto is metadata only; the binary lives in object storage under
// StorageLocator.
type CompletionPhoto struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrgId          string    `gorm:"index;not null" json:"org_id"`
	JobId          int       `gorm:"index;not null" json:"job_id"`
	StorageLocator string    `gorm:"size:512;not null" json:"storage_locator"`
	PhotoType      PhotoType `gorm:"size:20;not null;default:'During'" json:"photo_type"`
	Caption        string    `gorm:"type:text" json:"caption"`
	GpsLatitude    *float64  `json:"gps_latitude"`
	GpsLongitude   *float64  `json:"gps_longitude"`
	CameraModel    string    `gorm:"size:255" json:"camera_model"`
	UploadedBy     int       `gorm:"index;not null" json:"uploaded_by"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompletionPhoto struct {
	JobId          int       `json:"job_id" binding:"required"`
	StorageLocator string    `json:"storage_locator" binding:"required"`
	PhotoType      PhotoType `json:"photo_type" binding:"required"`
	Caption        string    `json:"caption"`
	GpsLatitude    *float64  `json:"gps_latitude"`
	GpsLongitude   *float64  `json:"gps_longitude"`
	CameraModel    string    `json:"camera_model"`
}

// CreateCompletionPhoto is a pure metadata insert; no variance recompute.
func CreateCompletionPhoto(ctx context.Context, input *NewCompletionPhoto) (*CompletionPhoto, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	userId, _, err := utils.RequireActingUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateJobExists(ctx, orgId, input.JobId); err != nil {
		return nil, err
	}

	photo := CompletionPhoto{
		OrgId:          orgId,
		JobId:          input.JobId,
		StorageLocator: input.StorageLocator,
		PhotoType:      input.PhotoType,
		Caption:        input.Caption,
		GpsLatitude:    input.GpsLatitude,
		GpsLongitude:   input.GpsLongitude,
		CameraModel:    input.CameraModel,
		UploadedBy:     userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, input.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Create(&photo).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &photo, nil
}

// DeleteCompletionPhoto removes the metadata row and issues a best-effort
// release of the backing object (plus its thumbnail). A failed release does
// not block the deletion; it is logged and returned as a warning.
func DeleteCompletionPhoto(ctx context.Context, id int) (*CompletionPhoto, *utils.StorageReleaseWarning, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, nil, err
	}

	result, err := utils.FetchModel[CompletionPhoto](ctx, orgId, id)
	if err != nil {
		return nil, nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, result.JobId); err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}

	var warning *utils.StorageReleaseWarning
	if err := utils.DeleteObjectFromGCS(ctx, result.StorageLocator); err != nil {
		warning = &utils.StorageReleaseWarning{Locator: result.StorageLocator, Err: err}
		config.LogError(config.GetLogger(), "models", "DeleteCompletionPhoto", "storage release failed", result.StorageLocator, err)
	} else {
		// thumbnails are best-effort at upload time, so only release one that
		// actually exists; failures ride on the same warning path
		thumbnail := utils.ThumbnailObjectName(result.StorageLocator)
		if exists, err := utils.ObjectExistsInGCS(ctx, thumbnail); err == nil && exists {
			if err := utils.DeleteObjectFromGCS(ctx, thumbnail); err != nil {
				warning = &utils.StorageReleaseWarning{Locator: thumbnail, Err: err}
				config.LogError(config.GetLogger(), "models", "DeleteCompletionPhoto", "thumbnail release failed", result.StorageLocator, err)
			}
		}
	}

	return result, warning, nil
}

func ListCompletionPhotos(ctx context.Context, jobId int) ([]*CompletionPhoto, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModelsByJob[CompletionPhoto](ctx, orgId, jobId, "created_at ASC, id ASC")
}

// ListCompletionPhotosPage is the cursor-paged variant for gallery views.
func ListCompletionPhotosPage(ctx context.Context, jobId int, afterId int, limit int) ([]*CompletionPhoto, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchPageByJob[CompletionPhoto](ctx, orgId, jobId, afterId, limit)
}
