package dashboard

import "github.com/driversheet/driversheet-web/internal/pkg/backend"

// State is what the logs section of the dashboard currently shows.
type State int

const (
	StateLoading State = iota
	StatePaymentRequired
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePaymentRequired:
		return "payment-required"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Classify maps the result of a log fetch to a render state.
func Classify(err error) State {
	switch {
	case err == nil:
		return StateLoaded
	case backend.IsPaymentRequired(err):
		return StatePaymentRequired
	default:
		return StateFailed
	}
}
