package models

import (
	"time"
)

// Parcel represents one land parcel: a fixed set of columns plus the
// attributes document holding operator-defined dynamic fields.
type Parcel struct {
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Location   string     `json:"location"`
	Segment    string     `json:"segment"`
	Status     string     `json:"status"`
	Attributes Attributes `json:"attributes"`
	Boundary   *Boundary  `json:"boundary,omitempty"`
	Price      float64    `json:"price"`
	Area       float64    `json:"area"`
	Latitude   float64    `json:"-"`
	Longitude  float64    `json:"-"`
	ID         int64      `json:"id"`
}

// Coordinates returns the parcel position as [lat, lng], the shape the
// map client consumes.
func (p *Parcel) Coordinates() [2]float64 {
	return [2]float64{p.Latitude, p.Longitude}
}
