package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
)

var validate = validator.New()

// refFrom turns the id/custom_id pair of a nested payload into an EntityRef.
// Neither set yields the zero ref; both set is rejected.
func refFrom(what string, id *uuid.UUID, customID *string) (models.EntityRef, error) {
	switch {
	case id != nil && customID != nil:
		return models.EntityRef{}, ambiguousReference(what)
	case id != nil:
		return models.BySystemID(*id), nil
	case customID != nil:
		if *customID == "" {
			return models.EntityRef{}, invalidField(what+".custom_id", "must not be empty")
		}
		return models.ByCustomID(*customID), nil
	}
	return models.EntityRef{}, nil
}

// insertOrReread runs create inside a savepoint. If the insert loses a race
// on naturalKey, the row that won is re-read and returned. A nil row with a
// nil error means the insert went through.
func insertOrReread[T any](
	ctx context.Context,
	tx repositories.Tx,
	naturalKey string,
	create func(repositories.Tx) error,
	reread func() (*T, error),
) (*T, error) {
	err := tx.Savepoint(ctx, create)
	if err == nil {
		return nil, nil
	}
	if repositories.ViolatedConstraint(err) != naturalKey {
		return nil, err
	}
	winner, rerr := reread()
	if rerr != nil {
		return nil, rerr
	}
	if winner == nil {
		// The conflicting row vanished again; report the original failure.
		return nil, err
	}
	return winner, nil
}
