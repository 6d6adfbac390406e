package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
)

// OwnerLookup loads the owner id of an entity by primary key. Implementations
// must return sql.ErrNoRows when the entity does not exist.
type OwnerLookup func(ctx context.Context, id string) (string, error)

// authorizeOwner is the single ownership gate shared by every mutating
// action: the operation may proceed iff the entity exists and its recorded
// owner equals the acting user. label names the entity in messages, action
// phrases the denied operation ("update this subject").
func authorizeOwner(ctx context.Context, lookup OwnerLookup, entityID, userID, label, action string) error {
	if userID == "" {
		return appErrors.ErrUnauthenticated
	}

	ownerID, err := lookup(ctx, entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", label))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", label))
	}

	if ownerID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("you do not have permission to %s", action))
	}

	return nil
}
