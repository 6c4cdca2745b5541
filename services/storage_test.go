package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	cases := []struct {
		name    string
		file    File
		wantErr string
	}{
		{
			name: "png accepted",
			file: File{Name: "ok.png", ContentType: "image/png", Data: make([]byte, 1024)},
		},
		{
			name: "webp accepted",
			file: File{Name: "ok.webp", ContentType: "image/webp", Data: make([]byte, 1024)},
		},
		{
			name: "exactly at the cap",
			file: File{Name: "edge.jpg", ContentType: "image/jpeg", Data: make([]byte, MaxUploadBytes)},
		},
		{
			name:    "over the cap",
			file:    File{Name: "big.jpg", ContentType: "image/jpeg", Data: make([]byte, MaxUploadBytes+1)},
			wantErr: "big.jpg is larger than 10MB",
		},
		{
			name:    "not an image",
			file:    File{Name: "resume.pdf", ContentType: "application/pdf", Data: make([]byte, 10)},
			wantErr: "resume.pdf is not an image",
		},
		{
			name:    "missing content type",
			file:    File{Name: "mystery", Data: make([]byte, 10)},
			wantErr: "mystery is not an image",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.file)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

type recordingUploader struct {
	mu        sync.Mutex
	failNames map[string]bool
	calls     int
}

func (u *recordingUploader) Upload(ctx context.Context, file File) (string, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if u.failNames[file.Name] {
		return "", errors.New("put object failed")
	}
	return "https://cdn.test/" + file.Name, nil
}

func TestUploadAllPreservesOrder(t *testing.T) {
	uploader := &recordingUploader{}
	files := []File{
		{Name: "a.png", ContentType: "image/png", Data: bytes.Repeat([]byte{1}, 8)},
		{Name: "b.png", ContentType: "image/png", Data: bytes.Repeat([]byte{2}, 8)},
		{Name: "c.png", ContentType: "image/png", Data: bytes.Repeat([]byte{3}, 8)},
	}

	urls := UploadAll(context.Background(), uploader, files)

	assert.Equal(t, []string{
		"https://cdn.test/a.png",
		"https://cdn.test/b.png",
		"https://cdn.test/c.png",
	}, urls)
	assert.Equal(t, 3, uploader.calls)
}

func TestUploadAllSkipsFailedFiles(t *testing.T) {
	uploader := &recordingUploader{failNames: map[string]bool{"b.png": true}}
	files := []File{
		{Name: "a.png", ContentType: "image/png", Data: []byte{1}},
		{Name: "b.png", ContentType: "image/png", Data: []byte{2}},
		{Name: "c.png", ContentType: "image/png", Data: []byte{3}},
	}

	urls := UploadAll(context.Background(), uploader, files)

	assert.Equal(t, []string{
		"https://cdn.test/a.png",
		"https://cdn.test/c.png",
	}, urls)
}

func TestUploadAllEmptyBatch(t *testing.T) {
	uploader := &recordingUploader{}
	assert.Nil(t, UploadAll(context.Background(), uploader, nil))
	assert.Zero(t, uploader.calls)
}
