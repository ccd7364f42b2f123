package archiver

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/evogrid/internal/ctxlog"
)

// uploadClient is shared so repeated uploads reuse connections.
var uploadClient = &http.Client{Timeout: 5 * time.Minute}

// upload PUTs the file at path to a pre-signed URL and returns the response
// status.
func upload(ctx context.Context, path, url string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive '%s': %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file stats for '%s': %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/vnd.sqlite3"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading archive.", "source", path, "size", stat.Size(), "contentType", contentType)

	resp, err := uploadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Archive uploaded.", "status", resp.Status)
	return resp.Status, nil
}
