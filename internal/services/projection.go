package services

import (
	"sort"

	"github.com/landgis/api/internal/models"
)

// ProjectConfigs assembles the ordered, role-filtered view of the catalog
// for one caller. Entries visible to the role (or carrying the wildcard
// role) are kept, ordered by display order ascending with ties broken by
// id ascending. This is a pure transform over a catalog snapshot; it
// never touches the document store.
func ProjectConfigs(entries []models.AttributeConfig, callerRole string) []models.ProjectedConfig {
	ordered := make([]models.AttributeConfig, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DisplayOrder != ordered[j].DisplayOrder {
			return ordered[i].DisplayOrder < ordered[j].DisplayOrder
		}
		return ordered[i].ID < ordered[j].ID
	})

	projected := make([]models.ProjectedConfig, 0, len(ordered))
	for i := range ordered {
		entry := &ordered[i]
		if !entry.VisibleTo(callerRole) {
			continue
		}
		projected = append(projected, models.ProjectedConfig{
			Key:           entry.AttributeKey,
			DisplayName:   entry.DisplayName,
			Order:         entry.DisplayOrder,
			FormatType:    entry.FormatType,
			FormatOptions: entry.FormatOptions,
		})
	}

	return projected
}
