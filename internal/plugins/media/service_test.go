package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/kunospw/b-log/internal/apperror"
	"github.com/kunospw/b-log/internal/config"
)

// mockUploader implements ObjectUploader for testing.
type mockUploader struct {
	putFn func(ctx context.Context, key, contentType string, data []byte) (string, error)
}

func (m *mockUploader) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if m.putFn != nil {
		return m.putFn(ctx, key, contentType, data)
	}
	return "https://img.example.com/" + key, nil
}

// pngBytes encodes a blank PNG of the given dimensions.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func testService(uploader ObjectUploader, maxSize int64) MediaService {
	return NewMediaService(uploader, config.ImageHostConfig{MaxSize: maxSize})
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	svc := testService(&mockUploader{}, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{
		Filename: "notes.txt",
		MimeType: "text/plain",
		Size:     4,
		Data:     []byte("hey!"),
	})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	data := pngBytes(t, 10, 10)
	svc := testService(&mockUploader{}, int64(len(data)-1))

	_, err := svc.Upload(context.Background(), UploadInput{
		Filename: "big.png",
		MimeType: "image/png",
		Size:     int64(len(data)),
		Data:     data,
	})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUpload_RejectsSpoofedContentType(t *testing.T) {
	svc := testService(&mockUploader{}, 1<<20)

	// JPEG magic bytes declared as PNG.
	_, err := svc.Upload(context.Background(), UploadInput{
		Filename: "fake.png",
		MimeType: "image/png",
		Size:     4,
		Data:     []byte{0xFF, 0xD8, 0xFF, 0xE0},
	})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUpload_StoresSmallImageUntouched(t *testing.T) {
	data := pngBytes(t, 100, 80)

	var gotKey, gotType string
	var gotData []byte
	uploader := &mockUploader{
		putFn: func(ctx context.Context, key, contentType string, d []byte) (string, error) {
			gotKey, gotType, gotData = key, contentType, d
			return "https://img.example.com/" + key, nil
		},
	}

	svc := testService(uploader, 1<<20)
	resp, err := svc.Upload(context.Background(), UploadInput{
		Filename: "cover.png",
		MimeType: "image/png",
		Size:     int64(len(data)),
		Data:     data,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotKey, "covers/") || !strings.HasSuffix(gotKey, ".png") {
		t.Errorf("unexpected object key %q", gotKey)
	}
	if gotType != "image/png" {
		t.Errorf("expected image/png, got %q", gotType)
	}
	if !bytes.Equal(gotData, data) {
		t.Error("small image should be stored byte-for-byte")
	}
	if resp.URL != "https://img.example.com/"+gotKey {
		t.Errorf("unexpected URL %q", resp.URL)
	}
}

func TestUpload_DownscalesOversizedCover(t *testing.T) {
	data := pngBytes(t, maxCoverDim+200, 40)

	var gotData []byte
	uploader := &mockUploader{
		putFn: func(ctx context.Context, key, contentType string, d []byte) (string, error) {
			gotData = d
			return "https://img.example.com/" + key, nil
		},
	}

	svc := testService(uploader, 8<<20)
	if _, err := svc.Upload(context.Background(), UploadInput{
		Filename: "wide.png",
		MimeType: "image/png",
		Size:     int64(len(data)),
		Data:     data,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(gotData))
	if err != nil {
		t.Fatalf("stored bytes are not a decodable image: %v", err)
	}
	if w := img.Bounds().Dx(); w != maxCoverDim {
		t.Errorf("expected width %d after downscale, got %d", maxCoverDim, w)
	}
}

func TestUpload_UploaderFailurePropagates(t *testing.T) {
	uploader := &mockUploader{
		putFn: func(ctx context.Context, key, contentType string, d []byte) (string, error) {
			return "", errors.New("access denied")
		},
	}

	svc := testService(uploader, 1<<20)
	_, err := svc.Upload(context.Background(), UploadInput{
		Filename: "cover.png",
		MimeType: "image/png",
		Size:     4,
		Data:     pngBytes(t, 10, 10),
	})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 500 {
		t.Fatalf("expected 500, got %v", err)
	}
	if appErr.Internal == nil {
		t.Error("expected the underlying cause to be preserved")
	}
}

func TestValidateMagicBytes(t *testing.T) {
	tests := []struct {
		name string
		mime string
		data []byte
		want bool
	}{
		{"png", "image/png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, true},
		{"jpeg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, true},
		{"gif", "image/gif", []byte("GIF89a"), true},
		{"webp", "image/webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...), true},
		{"truncated", "image/png", []byte{0x89, 'P'}, false},
		{"mismatch", "image/gif", []byte{0xFF, 0xD8, 0xFF, 0xE0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateMagicBytes(tt.data, tt.mime); got != tt.want {
				t.Errorf("validateMagicBytes(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
