// Package common contains shared constants and sentinel errors used across
// CampJournal components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// Journal entry statuses.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Upload limits shared by photo and avatar uploads.
const (
	MaxUploadSize = 5 * 1024 * 1024
)

// AllowedImageTypes lists the MIME types accepted for uploads.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
