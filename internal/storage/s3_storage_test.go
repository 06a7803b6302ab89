package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, ValidateFileSize(100, 100))
	assert.Error(t, ValidateFileSize(101, 100))
}

func TestValidateContentType(t *testing.T) {
	allowed := []string{"image/png", "image/jpeg"}

	assert.NoError(t, ValidateContentType("image/png", allowed))
	assert.Error(t, ValidateContentType("text/plain; charset=utf-8", allowed))
	assert.Error(t, ValidateContentType("application/pdf", allowed))
}

func TestBuildImageURL(t *testing.T) {
	s := &S3Storage{baseURL: "https://cdn.test"}

	url := s.BuildImageURL("logos/abc.png", ImageTransform{
		Quality: "auto",
		Format:  "webp",
		Width:   512,
	})
	assert.Equal(t, "https://cdn.test/logos/abc.png?format=webp&quality=auto&width=512", url)

	assert.Equal(t, "https://cdn.test/logos/abc.png", s.BuildImageURL("logos/abc.png", ImageTransform{}))
}
