package model

// LiveLocation is the most recently reported position of a user. It lives in
// Redis rather than Postgres and is read-only to this service; the mobile
// client's location reporter writes it. Nil coordinates mean the user has no
// known position.
type LiveLocation struct {
	UserID    string   `json:"user_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// HasCoordinates reports whether both coordinates are present.
func (l LiveLocation) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
