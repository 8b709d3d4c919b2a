package assets

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Artificial-lift application ids carried on the node master record.
const (
	ApplicationRodPump = 3
	ApplicationESP     = 4
	ApplicationGasLift = 6
)

// ErrNoRecord indicates a group resolved to no assets.
var ErrNoRecord = errors.New("assets: there is no record")

// Asset is one monitored artificial-lift asset. AssetName is the legacy
// node identifier; ID is the guid identity.
type Asset struct {
	ID                    uuid.UUID
	AssetName             string
	IndustryApplicationID int
}

// Group is a resolved asset group.
type Group struct {
	Name        string
	Assets      []Asset
	ChildGroups []string
}

// NodeIDs returns the node identifiers of the group's assets.
func (g Group) NodeIDs() []string {
	ids := make([]string, 0, len(g.Assets))
	for _, asset := range g.Assets {
		ids = append(ids, asset.AssetName)
	}
	return ids
}

// AssetByNodeID finds an asset by node identifier.
func (g Group) AssetByNodeID(nodeID string) (Asset, bool) {
	for _, asset := range g.Assets {
		if asset.AssetName == nodeID {
			return asset, true
		}
	}
	return Asset{}, false
}

// GroupResolver resolves the asset population for a group name. An empty
// group yields ErrNoRecord.
type GroupResolver interface {
	Resolve(ctx context.Context, groupName, correlationID string) (*Group, error)
}
