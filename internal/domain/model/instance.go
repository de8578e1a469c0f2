package model

// PowerState is the Nova power state of an instance. The API reports it as
// a small integer; for tracking purposes everything other than running
// collapses to "not on".
type PowerState int

const (
	PowerNoState   PowerState = 0
	PowerRunning   PowerState = 1
	PowerPaused    PowerState = 3
	PowerShutdown  PowerState = 4
	PowerCrashed   PowerState = 6
	PowerSuspended PowerState = 7
)

// IsOn reports whether the instance is powered on and can have a live console.
func (s PowerState) IsOn() bool { return s == PowerRunning }

func (s PowerState) String() string {
	switch s {
	case PowerNoState:
		return "nostate"
	case PowerRunning:
		return "running"
	case PowerPaused:
		return "paused"
	case PowerShutdown:
		return "shutdown"
	case PowerCrashed:
		return "crashed"
	case PowerSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Instance is an immutable point-in-time view of a compute instance,
// returned fresh by every gateway call.
type Instance struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	PowerState PowerState `json:"power_state"`
}
