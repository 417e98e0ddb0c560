package pipeline

import (
	"context"
	"fmt"

	"github.com/openterra/tilegate/internal/ee"
	"github.com/openterra/tilegate/internal/model"
)

// Resolve maps an identifier to a typed handle. Identifiers with the
// expression prefix are parsed locally; everything else is looked up in the
// remote catalog.
func (p *Pipeline) Resolve(ctx context.Context, assetID string) (ee.Handle, error) {
	if ee.IsExpression(assetID) {
		return ee.ParseExpression(assetID)
	}

	t, err := p.backend.LookupType(ctx, assetID)
	if err != nil {
		return nil, err
	}
	switch t {
	case ee.TypeImage:
		return ee.NewImage(assetID), nil
	case ee.TypeImageCollection:
		return ee.NewImageCollection(assetID), nil
	case ee.TypeTable, ee.TypeTableCollection:
		return ee.NewFeatureTable(assetID), nil
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedAssetType, t)
	}
}
