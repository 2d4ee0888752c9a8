package views

// MountPoint names an element of the page shell that fragments are swapped into.
// The identifiers are shared with the page markup and the browser script.
type MountPoint string

const (
	MountTracks      MountPoint = "#tracks"
	MountRacers      MountPoint = "#racers"
	MountRace        MountPoint = "#race"
	MountLeaderBoard MountPoint = "#leaderBoard"
	MountBigNumbers  MountPoint = "#big-numbers"
)

// Element roles carried in data-role attributes; clicks on them become actions
const (
	RoleTrack      = "track"
	RoleRacer      = "racer"
	RoleSubmit     = "submit-create-race"
	RoleAccelerate = "gas-peddle"
	RoleNewRace    = "new-race"
)
