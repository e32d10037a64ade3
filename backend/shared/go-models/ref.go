package models

import (
	"fmt"

	"github.com/google/uuid"
)

type RefKind int

const (
	RefNone RefKind = iota
	RefBySystemID
	RefByCustomID
)

func (k RefKind) String() string {
	switch k {
	case RefBySystemID:
		return "id"
	case RefByCustomID:
		return "custom_id"
	default:
		return "none"
	}
}

// EntityRef addresses a Land, Building, Unit or Product either by its
// system UUID or by its human custom code. The caller states which one;
// the string shape is never inspected to guess.
type EntityRef struct {
	kind     RefKind
	systemID uuid.UUID
	customID string
}

func BySystemID(id uuid.UUID) EntityRef { return EntityRef{kind: RefBySystemID, systemID: id} }
func ByCustomID(code string) EntityRef { return EntityRef{kind: RefByCustomID, customID: code} }

func (r EntityRef) Kind() RefKind { return r.kind }
func (r EntityRef) IsZero() bool { return r.kind == RefNone }
func (r EntityRef) SystemID() uuid.UUID { return r.systemID }
func (r EntityRef) CustomID() string { return r.customID }

func (r EntityRef) String() string {
	switch r.kind {
	case RefBySystemID:
		return "id:" + r.systemID.String()
	case RefByCustomID:
		return "custom_id:" + r.customID
	default:
		return "none"
	}
}

// ParseRef builds an EntityRef from an explicit kind name ("id" or
// "custom_id") and its value.
func ParseRef(kind, value string) (EntityRef, error) {
	switch kind {
	case "id":
		id, err := uuid.Parse(value)
		if err != nil {
			return EntityRef{}, fmt.Errorf("invalid system id %q: %w", value, err)
		}
		return BySystemID(id), nil
	case "custom_id", "":
		if value == "" {
			return EntityRef{}, fmt.Errorf("empty custom id")
		}
		return ByCustomID(value), nil
	default:
		return EntityRef{}, fmt.Errorf("unknown reference kind %q", kind)
	}
}
