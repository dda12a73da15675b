package models

import "time"

// Campground is the canonical record of a physical campground, keyed by its
// Google place id.
type Campground struct {
	ID            string    `json:"id"`
	GooglePlaceID string    `json:"google_place_id"`
	Name          string    `json:"name"`
	Address       *string   `json:"address,omitempty"`
	City          *string   `json:"city,omitempty"`
	State         *string   `json:"state,omitempty"`
	Country       *string   `json:"country,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Website       *string   `json:"website,omitempty"`
	GoogleRating  *float64  `json:"google_rating,omitempty"`
	GoogleMapsURL *string   `json:"google_maps_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (c *Campground) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// CampgroundStats summarises activity at one campground.
type CampgroundStats struct {
	TotalVisits    int `json:"total_visits"`
	UniqueVisitors int `json:"unique_visitors"`
	TotalPhotos    int `json:"total_photos"`
}

// VisitedLocation is a map pin: a campground with coordinates plus how often
// and how recently the user stayed there.
type VisitedLocation struct {
	Campground *Campground `json:"campground"`
	VisitCount int         `json:"visit_count"`
	LastVisit  time.Time   `json:"last_visit"`
}
