package ee

import (
	"context"

	"github.com/openterra/tilegate/internal/model"
)

// AssetType is the catalog's declared type for an asset.
type AssetType string

const (
	TypeImage           AssetType = "IMAGE"
	TypeImageCollection AssetType = "IMAGE_COLLECTION"
	TypeTable           AssetType = "TABLE"
	TypeTableCollection AssetType = "TABLE_COLLECTION"
)

// Backend is the narrow contract the pipeline needs from the remote service.
// Filter operations build expression graphs locally and never touch the
// network, so only catalog lookup and map registration appear here.
type Backend interface {
	// LookupType returns the catalog's declared type for an asset.
	LookupType(ctx context.Context, assetID string) (AssetType, error)

	// TileTemplate registers a map for the handle's expression and returns a
	// tile URL template with {z}/{x}/{y} placeholders.
	TileTemplate(ctx context.Context, h Handle, vis model.VisParams) (string, error)
}
