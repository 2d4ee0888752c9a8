package race_api_client

const (
	// Base URL
	DefaultBaseURL = "http://localhost:8000"

	// API Endpoints
	TracksEndpoint = "/api/tracks"
	CarsEndpoint   = "/api/cars"
	RacesEndpoint  = "/api/races"

	// Race sub-resources, formatted with the race id
	RaceEndpoint       = RacesEndpoint + "/%d"
	StartEndpoint      = RaceEndpoint + "/start"
	AccelerateEndpoint = RaceEndpoint + "/accelerate"

	// Headers
	ContentTypeHeader = "Content-Type"
	OriginHeader      = "Origin"
	ContentTypeJSON   = "application/json"
)
