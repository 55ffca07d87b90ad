package playback

// Activity is what a vehicle is doing during a tick
type Activity string

const (
	// ActivityIdle indicates the vehicle waits at the depot for its next scheduled start
	ActivityIdle Activity = "IDLE"

	// ActivityTraveling indicates the vehicle drives a trip leg
	ActivityTraveling Activity = "TRAVELING"

	// ActivityWaiting indicates the vehicle is queued for a busy bay
	ActivityWaiting Activity = "WAITING"

	// ActivityLoading indicates the vehicle holds a mine's loading bay
	ActivityLoading Activity = "LOADING"

	// ActivityUnloading indicates the vehicle unloads at the depot
	ActivityUnloading Activity = "UNLOADING"

	// ActivityFinished indicates the vehicle ran every assigned trip
	ActivityFinished Activity = "FINISHED"
)

// IsTimed reports whether the activity counts down a fixed number of ticks
func (a Activity) IsTimed() bool {
	switch a {
	case ActivityIdle, ActivityTraveling, ActivityLoading, ActivityUnloading:
		return true
	default:
		return false
	}
}
