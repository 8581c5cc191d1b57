package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// ErrNotAuthenticated is returned before any storage call when no account is
// attached to the upload. Photos are always stored under an account path.
var ErrNotAuthenticated = errors.New("upload requires an authenticated account")

type ClientUploader struct {
	cl         *storage.Client
	projectID  string
	bucketName string
	uploadPath string
}

func NewClientUploader(ctx context.Context, projectID, bucketName string) (*ClientUploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &ClientUploader{
		cl:         client,
		projectID:  projectID,
		bucketName: bucketName,
		uploadPath: "images/",
	}, nil
}

// UploadPhoto stores raw photo bytes under a per-account, randomly named
// object and returns the public retrieval URL.
func (c *ClientUploader) UploadPhoto(ctx context.Context, accountID string, data []byte) (string, error) {
	if accountID == "" {
		return "", ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	objectPath := fmt.Sprintf("%s%s/%s.jpg", c.uploadPath, accountID, uuid.NewString())

	// Upload an object with storage.Writer.
	wc := c.cl.Bucket(c.bucketName).Object(objectPath).NewWriter(ctx)
	wc.ContentType = "image/jpeg"
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %v", err)
	}

	// Generate the public URL
	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectPath)
	return url, nil
}

// Close releases the underlying client.
func (c *ClientUploader) Close() error {
	return c.cl.Close()
}
