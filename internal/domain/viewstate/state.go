package viewstate

import (
	"encoding/json"
	"fmt"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
)

// Status tags the variant held by a State.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Failure is the error shown in place of a result.
type Failure struct {
	Kind    weather.ErrorKind `json:"kind"`
	Message string            `json:"message"`
}

// State is the result currently held for a session. It never carries a view and a failure at
// the same time; build it through Idle, Loading, Succeeded or Failed.
type State struct {
	status  Status
	view    *weather.View
	failure *Failure
}

// Idle is the state before any submission.
func Idle() State { return State{status: StatusIdle} }

// Loading marks a submission in flight.
func Loading() State { return State{status: StatusLoading} }

// Succeeded holds a freshly shaped view.
func Succeeded(view weather.View) State {
	return State{status: StatusSucceeded, view: &view}
}

// Failed holds the error of the last submission.
func Failed(kind weather.ErrorKind, message string) State {
	return State{status: StatusFailed, failure: &Failure{Kind: kind, Message: message}}
}

func (s State) Status() Status {
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

// View returns the shaped result when the state is Succeeded.
func (s State) View() (weather.View, bool) {
	if s.view == nil {
		return weather.View{}, false
	}
	return *s.view, true
}

// Failure returns the error when the state is Failed.
func (s State) Failure() (Failure, bool) {
	if s.failure == nil {
		return Failure{}, false
	}
	return *s.failure, true
}

type stateWire struct {
	Status  Status        `json:"status"`
	View    *weather.View `json:"view,omitempty"`
	Failure *Failure      `json:"failure,omitempty"`
}

// MarshalJSON emits {"status":...,"view"|"failure":...}.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateWire{Status: s.Status(), View: s.view, Failure: s.failure})
}

// UnmarshalJSON rejects payloads that would break the one-of invariant.
func (s *State) UnmarshalJSON(data []byte) error {
	var wire stateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Status {
	case StatusIdle, "":
		*s = Idle()
	case StatusLoading:
		*s = Loading()
	case StatusSucceeded:
		if wire.View == nil {
			return fmt.Errorf("succeeded state without view")
		}
		*s = Succeeded(*wire.View)
	case StatusFailed:
		if wire.Failure == nil {
			return fmt.Errorf("failed state without failure")
		}
		*s = Failed(wire.Failure.Kind, wire.Failure.Message)
	default:
		return fmt.Errorf("unknown view state %q", wire.Status)
	}
	return nil
}
