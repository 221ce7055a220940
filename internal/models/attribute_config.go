package models

import (
	"encoding/json"
	"time"
)

// AttributeConfig is one catalog entry describing how a dynamic attribute
// key is labeled, ordered, formatted and role-gated. AttributeKey is unique
// across the catalog and is a soft reference into the key-space of parcel
// attribute documents: historical documents may carry keys with no entry,
// and entries may describe keys no document holds.
type AttributeConfig struct {
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	AttributeKey   string          `json:"attributeKey"`
	DisplayName    string          `json:"displayName"`
	FormatType     FormatType      `json:"formatType"`
	FormatOptions  json.RawMessage `json:"formatOptions,omitempty"`
	VisibleRoles   []string        `json:"visibleRoles"`
	DisplayOrder   int             `json:"displayOrder"`
	ID             int64           `json:"id"`
	VisibleInTable bool            `json:"visibleInTable"`
}

// VisibleTo reports whether callers holding role may see this attribute.
// The wildcard role "all" opens the attribute to every caller.
func (c *AttributeConfig) VisibleTo(role string) bool {
	for _, r := range c.VisibleRoles {
		if r == role || r == RoleWildcard {
			return true
		}
	}
	return false
}

// RoleWildcard marks an attribute as visible to every role.
const RoleWildcard = "all"

// ConfigUpdate carries a partial update for one catalog entry. Nil fields
// are left untouched; at least one field must be set.
type ConfigUpdate struct {
	DisplayName    *string          `json:"displayName"`
	DisplayOrder   *int             `json:"displayOrder"`
	VisibleInTable *bool            `json:"visibleInTable"`
	VisibleRoles   *[]string        `json:"visibleRoles"`
	FormatType     *FormatType      `json:"formatType"`
	FormatOptions  *json.RawMessage `json:"formatOptions"`
}

// Empty reports whether the update carries no fields.
func (u ConfigUpdate) Empty() bool {
	return u.DisplayName == nil &&
		u.DisplayOrder == nil &&
		u.VisibleInTable == nil &&
		u.VisibleRoles == nil &&
		u.FormatType == nil &&
		u.FormatOptions == nil
}

// OrderUpdate is one {id, displayOrder} pair of a batch reorder.
type OrderUpdate struct {
	ID           int64 `json:"id" binding:"required"`
	DisplayOrder int   `json:"displayOrder"`
}

// ProjectedConfig is the read-side view of a catalog entry assembled for
// one caller role: display metadata only, no visibility internals.
type ProjectedConfig struct {
	Key           string          `json:"key"`
	DisplayName   string          `json:"displayName"`
	FormatType    FormatType      `json:"formatType"`
	FormatOptions json.RawMessage `json:"formatOptions,omitempty"`
	Order         int             `json:"order"`
}
