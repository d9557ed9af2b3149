package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 圖片處理服務：把使用者上傳的食譜照片統一整理成
// data:image/jpeg;base64 形式再交給供應商。
type Service struct {
	maxSizeBytes int64
	httpClient   *http.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NormalizePhotos 逐張整理照片，保留呼叫端給的順序，最多取 limit 張
func (s *Service) NormalizePhotos(photos []string, limit int) ([]string, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos supplied")
	}
	if limit > 0 && len(photos) > limit {
		photos = photos[:limit]
	}

	normalized := make([]string, 0, len(photos))
	for i, photo := range photos {
		data, err := s.ProcessImage(photo)
		if err != nil {
			return nil, fmt.Errorf("photo %d: %w", i+1, err)
		}
		normalized = append(normalized, data)
	}
	return normalized, nil
}

// ProcessImage 處理單張圖片：URL 會先下載，之後統一驗證、轉成 JPEG
func (s *Service) ProcessImage(imageData string) (string, error) {
	// 檢查是否為 URL
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		resp, err := s.httpClient.Get(imageData)
		if err != nil {
			return "", fmt.Errorf("failed to download image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
		}

		imageBytes, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSizeBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read image data: %w", err)
		}

		return s.reencode(imageBytes)
	}

	// 處理 base64 格式
	payload := imageData
	if strings.HasPrefix(imageData, "data:image/") {
		parts := strings.Split(imageData, ",")
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid data URI format")
		}
		payload = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 data: %w", err)
	}

	return s.reencode(decoded)
}

// reencode 驗證大小與格式，統一轉成 JPEG data URI
func (s *Service) reencode(imageBytes []byte) (string, error) {
	if int64(len(imageBytes)) > s.maxSizeBytes {
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !isSupportedFormat(format) {
		return "", fmt.Errorf("unsupported image format: %s", format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// isSupportedFormat 檢查圖片格式
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
