package model

import (
	"errors"
	"fmt"
)

// ErrorMarker prefixes every flattened pipeline failure. The HTTP surface maps
// messages beginning with it to status 400.
const ErrorMarker = "Error"

var (
	ErrNotFound             = errors.New("asset not found")
	ErrUnsupportedAssetType = errors.New("unsupported asset type")
	ErrInvalidExpression    = errors.New("invalid expression")
	ErrUnsupportedFilter    = errors.New("unsupported filter")
	ErrInvalidBounds        = errors.New("invalid bounds")
	ErrInvalidVisFormat     = errors.New("invalid vis_params format")
	ErrJSONParse            = errors.New("vis_params parse failed")
	ErrUnsupportedVisType   = errors.New("unsupported vis_params type")
	ErrInvalidPalette       = errors.New("invalid palette")
	ErrFormat               = errors.New("tile template rejected")
	ErrInvalidCredential    = errors.New("invalid credential")
)

// Failure flattens an error into the uniform "Error: ..." string rendered by
// both request surfaces.
func Failure(err error) string {
	return fmt.Sprintf("%s: %s", ErrorMarker, err.Error())
}
