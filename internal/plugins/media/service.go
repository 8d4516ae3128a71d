package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"time"

	// Register the WebP decoder so oversized WebP covers can be downscaled.
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/kunospw/b-log/internal/apperror"
	"github.com/kunospw/b-log/internal/config"
)

// maxCoverDim is the longest edge a stored cover image may have. Anything
// larger is downscaled before upload; blog covers never render wider than
// this.
const maxCoverDim = 1600

// MediaService handles business logic for cover image uploads.
type MediaService interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResponse, error)
}

// mediaService implements MediaService.
type mediaService struct {
	uploader ObjectUploader
	maxSize  int64 // Maximum upload size in bytes.
}

// NewMediaService creates a new media service.
func NewMediaService(uploader ObjectUploader, cfg config.ImageHostConfig) MediaService {
	return &mediaService{
		uploader: uploader,
		maxSize:  cfg.MaxSize,
	}
}

// Upload validates and stores a cover image, returning its public URL.
func (s *mediaService) Upload(ctx context.Context, input UploadInput) (*UploadResponse, error) {
	// Validate MIME type.
	if !AllowedMimeTypes[input.MimeType] {
		return nil, apperror.NewBadRequest("unsupported file type: " + input.MimeType)
	}

	// Validate file size.
	if input.Size > s.maxSize {
		return nil, apperror.NewBadRequest(fmt.Sprintf("file too large; maximum size is %d MB", s.maxSize/(1024*1024)))
	}

	// Validate magic bytes match the declared MIME type.
	if !validateMagicBytes(input.Data, input.MimeType) {
		return nil, apperror.NewBadRequest("file content does not match declared type")
	}

	data := input.Data
	contentType := input.MimeType

	// Downscale oversized covers. JPEG and PNG are re-encoded in place;
	// animated GIFs are left alone, and a WebP that needs shrinking comes
	// back as JPEG since there's no encoder for it.
	if input.MimeType != "image/gif" {
		if scaled, scaledType, err := downscale(data, input.MimeType); err == nil {
			data, contentType = scaled, scaledType
		} else if err != errAlreadySmall {
			slog.Warn("cover downscale failed, storing original",
				slog.String("filename", input.Filename),
				slog.Any("error", err),
			)
		}
	}

	// Objects are keyed by date and UUID; the original filename never
	// reaches the bucket.
	now := time.Now().UTC()
	key := fmt.Sprintf("covers/%s/%s%s", now.Format("2006/01"), uuid.NewString(), MimeToExtension[contentType])

	url, err := s.uploader.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing cover image: %w", err))
	}

	slog.Info("cover image uploaded",
		slog.String("key", key),
		slog.String("mime_type", contentType),
		slog.Int("size", len(data)),
	)

	return &UploadResponse{
		URL:      url,
		MimeType: contentType,
		Size:     int64(len(data)),
	}, nil
}

// errAlreadySmall signals that no downscaling was needed.
var errAlreadySmall = fmt.Errorf("image within bounds")

// downscale resizes an image so its longest edge is maxCoverDim, preserving
// aspect ratio. Returns the re-encoded bytes and their content type.
func downscale(data []byte, mimeType string) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxCoverDim && h <= maxCoverDim {
		return nil, "", errAlreadySmall
	}

	newW, newH := maxCoverDim, maxCoverDim
	if w > h {
		newH = h * maxCoverDim / w
	} else {
		newW = w * maxCoverDim / h
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	outType := mimeType
	switch mimeType {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
		outType = "image/jpeg"
	}
	if err != nil {
		return nil, "", fmt.Errorf("encoding image: %w", err)
	}

	return buf.Bytes(), outType, nil
}
