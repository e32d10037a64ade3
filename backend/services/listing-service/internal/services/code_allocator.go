package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/plotline/mono-repo/backend/shared/go-repositories"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

// CodeGenerator returns a random code of the given length.
type CodeGenerator func(length int) string

/* ------------------------------------------------------------------
   Root codes (Land)
------------------------------------------------------------------ */

type RootCodeAllocator struct {
	generate CodeGenerator
}

// NewRootCodeAllocator uses utils.RandomAlphanumeric when gen is nil.
func NewRootCodeAllocator(gen CodeGenerator) *RootCodeAllocator {
	if gen == nil {
		gen = utils.RandomAlphanumeric
	}
	return &RootCodeAllocator{generate: gen}
}

// Allocate draws codes until one is not used by any Land. There is no attempt
// limit; only ctx ends the loop early. A free code is not reserved, so the
// insert that follows must still handle a unique violation on custom_id.
func (a *RootCodeAllocator) Allocate(ctx context.Context, tx repositories.Tx) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code := a.generate(utils.LandCodeLength)
		exists, err := tx.Lands().CustomIDExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		utils.Logger.WithField("code", code).Debug("Land code already taken, drawing another")
	}
}

/* ------------------------------------------------------------------
   Child codes (Building under Land, Unit under Building)
------------------------------------------------------------------ */

type ChildKind string

const (
	ChildKindBuilding ChildKind = "building"
	ChildKindUnit     ChildKind = "unit"
)

type ChildCodeAllocator struct{}

func NewChildCodeAllocator() *ChildCodeAllocator {
	return &ChildCodeAllocator{}
}

// Allocate returns the next free code under parentCode. Callers that insert
// the result must hold the parent row lock so concurrent siblings serialize.
func (a *ChildCodeAllocator) Allocate(
	ctx context.Context,
	tx repositories.Tx,
	parentCode string,
	kind ChildKind,
) (string, error) {
	var (
		last string
		err  error
	)
	switch kind {
	case ChildKindBuilding:
		last, err = tx.Buildings().MaxCustomIDWithPrefix(ctx, parentCode)
	case ChildKindUnit:
		last, err = tx.Units().MaxCustomIDWithPrefix(ctx, parentCode)
	default:
		return "", invalidField("kind", "must be one of [building unit]")
	}
	if err != nil {
		return "", err
	}
	return NextChildCode(parentCode, last)
}

// NextChildCode computes the code following lastCode under parentCode. An
// empty lastCode starts the sequence at 001. Past 999 it fails with a
// capacity error; the width is part of the identifier format and never grows.
func NextChildCode(parentCode, lastCode string) (string, error) {
	next := 1
	if lastCode != "" {
		if !strings.HasPrefix(lastCode, parentCode) ||
			len(lastCode) != len(parentCode)+utils.ChildSequenceWidth {
			return "", fmt.Errorf("code %q is not a direct child of %q", lastCode, parentCode)
		}
		n, err := strconv.Atoi(lastCode[len(parentCode):])
		if err != nil || n < 0 {
			return "", fmt.Errorf("code %q has a non-numeric sequence", lastCode)
		}
		next = n + 1
	}
	if next > utils.ChildSequenceMax {
		return "", capacityExhausted(parentCode)
	}
	return fmt.Sprintf("%s%0*d", parentCode, utils.ChildSequenceWidth, next), nil
}
