package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client.
// Prefers ADC (service account / GOOGLE_APPLICATION_CREDENTIALS); explicit
// JSON can be supplied via GCS_CREDENTIALS_JSON for local runs.
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func getBucketName() (string, error) {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return "", errors.New("GCS_BUCKET is required")
	}
	return bucketName, nil
}

// UploadBytesToGCS writes data to the configured bucket under objectName.
func UploadBytesToGCS(ctx context.Context, objectName string, data []byte, contentType string) error {
	bucketName, err := getBucketName()
	if err != nil {
		return err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wc := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		wc.ContentType = contentType
	}
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write object %q: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close object %q: %w", objectName, err)
	}
	return nil
}

// DeleteObjectFromGCS removes the backing object identified by objectName.
func DeleteObjectFromGCS(ctx context.Context, objectName string) error {
	bucketName, err := getBucketName()
	if err != nil {
		return err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Bucket(bucketName).Object(objectName).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func ObjectExistsInGCS(ctx context.Context, objectName string) (bool, error) {
	bucketName, err := getBucketName()
	if err != nil {
		return false, err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return false, err
	}
	defer client.Close()

	_, err = client.Bucket(bucketName).Object(objectName).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
