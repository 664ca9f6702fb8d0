package model

import "time"

type TouristSpot struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Location    string    `db:"location" json:"location"`
	Distance    string    `db:"distance_from_current_location" json:"distance_from_current_location"`
	TravelTime  string    `db:"estimated_travel_time" json:"estimated_travel_time"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PopularSpot is a spot ranked by how many people enrolled in its tours.
type PopularSpot struct {
	TouristSpot
	BookingCount int `db:"booking_count" json:"booking_count"`
}
