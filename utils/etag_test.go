package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETag(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	tag := GenerateETag(id, at)
	assert.Regexp(t, `^"[0-9a-f]{40}"$`, tag)
	assert.Equal(t, tag, GenerateETag(id, at))

	assert.NotEqual(t, tag, GenerateETag(id, at.Add(time.Second)))
	assert.NotEqual(t, tag, GenerateETag(primitive.NewObjectID(), at))
}

func TestExtractPublicID(t *testing.T) {
	id, err := extractPublicID("https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "events/abc123", id)

	id, err = extractPublicID("https://res.cloudinary.com/demo/image/upload/events/abc123.png")
	assert.NoError(t, err)
	assert.Equal(t, "events/abc123", id)

	_, err = extractPublicID("https://example.com/no-upload-segment.jpg")
	assert.Error(t, err)
}
