package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Boundary represents a parcel boundary as a GeoJSON Polygon.
// It stores coordinates as [rings][points][lon,lat] and is persisted in a
// plain jsonb column; no spatial indexing is involved.
type Boundary struct {
	Coordinates [][][2]float64
}

// Scan implements sql.Scanner for reading a boundary from the database.
func (b *Boundary) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan Boundary: expected []byte, got %T", value)
	}

	return b.UnmarshalJSON(bytes)
}

// Value implements driver.Valuer for writing a boundary to the database.
// Returns the GeoJSON string stored in the jsonb column.
func (b Boundary) Value() (driver.Value, error) {
	if len(b.Coordinates) == 0 {
		return nil, nil
	}

	geoJSON, err := b.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(geoJSON), nil
}

// MarshalJSON implements json.Marshaler, emitting GeoJSON for API responses.
func (b Boundary) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: b.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
func (b *Boundary) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal boundary: %w", err)
	}

	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	b.Coordinates = geom.Coordinates

	return nil
}
