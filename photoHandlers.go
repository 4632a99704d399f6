package main

import (
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/sirupsen/logrus"
)

const maxPhotoSizeBytes int64 = 10 * 1024 * 1024

var photoMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// uploadPhotoHandler takes a multipart upload, stores the binary and a
// thumbnail in object storage, then records the metadata row. The metadata
// insert is last so a failed upload never leaves a dangling locator.
func uploadPhotoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		orgId, ok := utils.GetOrgIdFromContext(ctx)
		if !ok || orgId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if utils.GetStorageProvider() != utils.StorageProviderGCS {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "unsupported storage provider"})
			return
		}

		jobId, err := strconv.Atoi(c.PostForm("job_id"))
		if err != nil || jobId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a positive integer"})
			return
		}

		photoType := models.PhotoTypeDuring
		if v := c.PostForm("photo_type"); v != "" {
			photoType = models.PhotoType(v)
			if !photoType.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo type"})
				return
			}
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxPhotoSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 10MB limit"})
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		ext, supported := photoMimeTypes[mimeType]
		if !supported {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}
		if e := strings.ToLower(filepath.Ext(fileHeader.Filename)); e != "" {
			ext = e
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}

		objectKey := path.Join(orgId, "completion-photos", utils.GenerateUniqueFilename()+ext)
		if err := utils.UploadBytesToGCS(ctx, objectKey, data, mimeType); err != nil {
			config.LogError(logger, "main", "uploadPhotoHandler", "upload failed", objectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store photo"})
			return
		}

		if thumb, err := utils.MakeThumbnail(data); err != nil {
			// photo survives without a thumbnail
			config.LogError(logger, "main", "uploadPhotoHandler", "thumbnail failed", objectKey, err)
		} else if err := utils.UploadBytesToGCS(ctx, utils.ThumbnailObjectName(objectKey), thumb, "image/jpeg"); err != nil {
			config.LogError(logger, "main", "uploadPhotoHandler", "thumbnail upload failed", objectKey, err)
		}

		input := models.NewCompletionPhoto{
			JobId:          jobId,
			StorageLocator: objectKey,
			PhotoType:      photoType,
			Caption:        c.PostForm("caption"),
			CameraModel:    c.PostForm("camera_model"),
		}
		if v := c.PostForm("gps_latitude"); v != "" {
			if lat, err := strconv.ParseFloat(v, 64); err == nil {
				input.GpsLatitude = &lat
			}
		}
		if v := c.PostForm("gps_longitude"); v != "" {
			if lng, err := strconv.ParseFloat(v, 64); err == nil {
				input.GpsLongitude = &lng
			}
		}

		photo, err := models.CreateCompletionPhoto(ctx, &input)
		if err != nil {
			// roll the object back, best effort
			if delErr := utils.DeleteObjectFromGCS(ctx, objectKey); delErr != nil {
				config.LogError(logger, "main", "uploadPhotoHandler", "orphan cleanup failed", objectKey, delErr)
			}
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"org_id":     orgId,
			"job_id":     jobId,
			"object_key": objectKey,
			"size":       fileHeader.Size,
		}).Info("[photo.upload]")

		c.JSON(http.StatusCreated, gin.H{"data": photo})
	}
}

func deletePhotoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		photo, warning, err := models.DeleteCompletionPhoto(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		response := gin.H{"data": photo}
		if warning != nil {
			response["warning"] = warning.Error()
		}
		c.JSON(http.StatusOK, response)
	}
}

func listPhotosHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		if limit, afterId, paged := pageParams(c); paged {
			photos, err := models.ListCompletionPhotosPage(c.Request.Context(), jobId, afterId, limit)
			if err != nil {
				respondError(c, err)
				return
			}
			last := 0
			if len(photos) > 0 {
				last = photos[len(photos)-1].ID
			}
			c.JSON(http.StatusOK, gin.H{"data": photos, "next_cursor": nextCursor(last, len(photos), limit)})
			return
		}

		photos, err := models.ListCompletionPhotos(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": photos})
	}
}
