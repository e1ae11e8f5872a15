package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/kamande/community-events-go/config"
)

// StoreEventImage persists an uploaded event image and returns the value to
// record on the event. The default backend writes under <uploadDir>/events
// and returns the relative path (the file is served statically); when
// Cloudinary is configured the secure URL is returned instead.
func StoreEventImage(cfg *config.Config, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	if cfg.UseCloudinary {
		return uploadToCloudinary(file)
	}
	return saveToDisk(cfg.UploadDir, file, fileHeader)
}

// RemoveEventImage deletes a previously stored event image. Best effort:
// callers log failures rather than failing the request.
func RemoveEventImage(cfg *config.Config, stored string) error {
	if stored == "" {
		return nil
	}
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return deleteFromCloudinary(stored)
	}
	// Stored paths are always uploads/events/<file>; refuse anything else.
	rel := filepath.Clean(stored)
	if !strings.HasPrefix(rel, filepath.Join("uploads", "events")) {
		return fmt.Errorf("unexpected image path %q", stored)
	}
	return os.Remove(filepath.Join(cfg.UploadDir, "events", filepath.Base(rel)))
}

func saveToDisk(uploadDir string, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	dir := filepath.Join(uploadDir, "events")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return path.Join("uploads", "events", name), nil
}

func getCloudinaryInstance() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
}

func uploadToCloudinary(file multipart.File) (string, error) {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return "", fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "events"})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}
	return resp.SecureURL, nil
}

func deleteFromCloudinary(imageURL string) error {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return fmt.Errorf("cloudinary config error: %v", err)
	}

	publicID, err := extractPublicID(imageURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// extractPublicID pulls the Cloudinary public ID (folder/name, no extension)
// out of a delivery URL like
// https://res.cloudinary.com/demo/image/upload/v123/events/abc.jpg.
func extractPublicID(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, p := range parts {
		if p != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 0 && strings.HasPrefix(rest[0], "v") {
			rest = rest[1:] // drop the version segment
		}
		if len(rest) == 0 {
			break
		}
		joined := path.Join(rest...)
		return strings.TrimSuffix(joined, path.Ext(joined)), nil
	}
	return "", fmt.Errorf("invalid cloudinary URL format")
}
