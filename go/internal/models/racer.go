package models

// Racer represents a pod racer that can be picked for a race
type Racer struct {
	ID           int    `json:"id"`
	DriverName   string `json:"driver_name"`
	TopSpeed     int    `json:"top_speed"`
	Acceleration int    `json:"acceleration"`
	Handling     int    `json:"handling"`
}
