package booking

// State is a stage boundary of the booking workflow.
type State int

const (
	StateInit State = iota
	StateCaptchaPending
	StateBookingReady
	StateTrainsListed
	StateConfirmationReady
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateInit:              "init",
	StateCaptchaPending:    "captcha_pending",
	StateBookingReady:      "booking_ready",
	StateTrainsListed:      "trains_listed",
	StateConfirmationReady: "confirmation_ready",
	StateDone:              "done",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further stage can run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
