package schemabuilder

import (
	"context"

	"github.com/appointy/idgen"
)

// NewResourceID generates a sortable, globally unique identifier for a newly
// created entity of the given resource kind (e.g. "user", "order"), for use
// as the Value of a schemabuilder.ID returned from a mutation resolver. It
// delegates to idgen's ULID-backed generator rather than hand-rolling one,
// so identifiers sort by creation time the same way every other resource ID
// minted by the surrounding service does.
func NewResourceID(ctx context.Context, kind string) (ID, error) {
	id, err := idgen.New(ctx, kind)
	if err != nil {
		return ID{}, err
	}
	return ID{Value: id}, nil
}
