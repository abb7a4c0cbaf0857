package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// DeleteAny removes id from every deletable collection concurrently and waits for all of
// them. There is no atomicity across collections: when one deletion fails the others may
// already have committed. The returned kinds are those that actually held the id.
func DeleteAny(ctx context.Context, store Store, id primitive.ObjectID) ([]Kind, error) {
	deleted := make([]bool, len(DeletableKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range DeletableKinds {
		g.Go(func() error {
			ok, err := store.Delete(gctx, kind, id)
			if err != nil {
				return fmt.Errorf("failed to delete %s %s: %w", kind, id.Hex(), err)
			}
			deleted[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var kinds []Kind
	for i, ok := range deleted {
		if ok {
			kinds = append(kinds, DeletableKinds[i])
		}
	}
	return kinds, nil
}
