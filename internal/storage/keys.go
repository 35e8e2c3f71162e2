package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImagePrefix is the key prefix for uploaded images.
const ImagePrefix = "images/"

// Image keys embed a random id, so objects never change once written.
const immutableCacheControl = "public, max-age=31536000, immutable"

// NewImageKey returns a fresh object key for an image in the given
// collection, e.g. "images/news/<uuid>.jpg".
func NewImageKey(collection, ext string) string {
	return path.Join(ImagePrefix, collection, uuid.NewString()+"."+ext)
}

// CollectionOf returns the collection an image key belongs to, or "" for
// keys outside ImagePrefix.
func CollectionOf(key string) string {
	rest, ok := strings.CutPrefix(key, ImagePrefix)
	if !ok {
		return ""
	}
	collection, _, found := strings.Cut(rest, "/")
	if !found {
		return ""
	}
	return collection
}
