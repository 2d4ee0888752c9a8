package models

// Track represents a race track offered by the race service
type Track struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
