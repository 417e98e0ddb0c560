// Package ee models the remote tiling service's object model: typed asset
// handles, the expression graph sent to the backend, and the REST client that
// talks to the catalog and map endpoints.
package ee

import (
	"github.com/openterra/tilegate/internal/model"
)

// AssetKind tags the members of the Handle sum.
type AssetKind int

const (
	KindImage AssetKind = iota + 1
	KindImageCollection
	KindFeatureTable
)

func (k AssetKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindImageCollection:
		return "image_collection"
	case KindFeatureTable:
		return "feature_table"
	default:
		return "unknown"
	}
}

// Handle is a closed sum over the backend object types. A handle's kind never
// changes after creation; filter operations return new handles.
type Handle interface {
	Kind() AssetKind
	Expression() Expr
	sealedHandle()
}

type Image struct {
	expr Expr
}

func NewImage(assetID string) Image {
	return Image{expr: load("Image.load", assetID)}
}

func (Image) Kind() AssetKind { return KindImage }
func (i Image) Expression() Expr { return i.expr }
func (Image) sealedHandle() {}

// Clip crops the image to the bounding geometry, returning a new Image
// restricted to that region.
func (i Image) Clip(b model.BBox) Image {
	return Image{expr: invoke("Image.clip", map[string]any{
		"image":    i.expr,
		"geometry": boundsGeometry(b),
	})}
}

type ImageCollection struct {
	expr Expr
}

func NewImageCollection(assetID string) ImageCollection {
	return ImageCollection{expr: load("ImageCollection.load", assetID)}
}

func (ImageCollection) Kind() AssetKind { return KindImageCollection }
func (c ImageCollection) Expression() Expr { return c.expr }
func (ImageCollection) sealedHandle() {}

// FilterDate narrows the collection to images in [start, end).
func (c ImageCollection) FilterDate(start, end string) ImageCollection {
	return ImageCollection{expr: invoke("Collection.filterDate", map[string]any{
		"collection": c.expr,
		"start":      start,
		"end":        end,
	})}
}

// FilterBounds narrows membership to items intersecting the bounds. It does
// not crop geometry.
func (c ImageCollection) FilterBounds(b model.BBox) ImageCollection {
	return ImageCollection{expr: invoke("Collection.filterBounds", map[string]any{
		"collection": c.expr,
		"geometry":   boundsGeometry(b),
	})}
}

type FeatureTable struct {
	expr Expr
}

func NewFeatureTable(assetID string) FeatureTable {
	return FeatureTable{expr: load("Collection.loadTable", assetID)}
}

func (FeatureTable) Kind() AssetKind { return KindFeatureTable }
func (t FeatureTable) Expression() Expr { return t.expr }
func (FeatureTable) sealedHandle() {}

func (t FeatureTable) FilterBounds(b model.BBox) FeatureTable {
	return FeatureTable{expr: invoke("Collection.filterBounds", map[string]any{
		"collection": t.expr,
		"geometry":   boundsGeometry(b),
	})}
}
