package model

import "time"

// CommunityTour keeps the column casing the browser client was built against.
type CommunityTour struct {
	ID            int64     `db:"id" json:"Tour_id"`
	PlaceID       int64     `db:"place_id" json:"Place_id"`
	TourDate      time.Time `db:"tour_date" json:"Tour_date"`
	CostPerPerson float64   `db:"cost_per_person" json:"Cost_per_person"`
	TotalEnrolled int       `db:"total_enrolled" json:"Total_enrolled"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type TourListing struct {
	CommunityTour
	Place         string `db:"place" json:"Place"`
	PlaceLocation string `db:"place_location" json:"Place_location"`
}

type Participant struct {
	UserID   int64     `db:"user_id" json:"user_id"`
	Username string    `db:"username" json:"username"`
	Email    string    `db:"email" json:"email"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}
