package race

// Phase is where a session is in the race flow
type Phase int

const (
	PhaseSelecting Phase = iota
	PhaseCreating
	PhaseCountdown
	PhaseStarting
	PhasePolling
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseCreating:
		return "creating"
	case PhaseCountdown:
		return "countdown"
	case PhaseStarting:
		return "starting"
	case PhasePolling:
		return "polling"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}
