package game

import (
	"errors"
	"fmt"
)

// ErrInvalidStateTransition is matched by every *TransitionError.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// State is the lifecycle state of a game.
type State uint8

const (
	NotStarted State = iota
	Active
	Paused
	Finished
	Corrupted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Active:
		return "ACTIVE"
	case Paused:
		return "PAUSED"
	case Finished:
		return "FINISHED"
	case Corrupted:
		return "CORRUPTED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the five declared states.
func (s State) Valid() bool { return s <= Corrupted }

// Terminal reports whether no further play is possible in s.
func (s State) Terminal() bool { return s == Finished || s == Corrupted }

// Transition is a lifecycle operation applied to a State.
type Transition uint8

const (
	TransitionStart Transition = iota
	TransitionPause
	TransitionResume
	TransitionEnd
	TransitionCorrupt
)

func (t Transition) String() string {
	switch t {
	case TransitionStart:
		return "start"
	case TransitionPause:
		return "pause"
	case TransitionResume:
		return "resume"
	case TransitionEnd:
		return "end"
	case TransitionCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("Transition(%d)", uint8(t))
	}
}

// TransitionError reports a transition that is not legal from a state.
type TransitionError struct {
	From       State
	Transition Transition
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s a game in state %s", ErrInvalidStateTransition, e.Transition, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

// transitions holds the legal moves of the lifecycle. Anything missing fails.
var transitions = map[State]map[Transition]State{
	NotStarted: {
		TransitionStart:   Active,
		TransitionCorrupt: Corrupted,
	},
	Active: {
		TransitionPause:   Paused,
		TransitionEnd:     Finished,
		TransitionCorrupt: Corrupted,
	},
	Paused: {
		TransitionResume:  Active,
		TransitionEnd:     Finished,
		TransitionCorrupt: Corrupted,
	},
	Finished: {
		TransitionCorrupt: Corrupted,
	},
}

// Next returns the state reached by applying t to s.
func (s State) Next(t Transition) (State, error) {
	if next, ok := transitions[s][t]; ok {
		return next, nil
	}
	return s, &TransitionError{From: s, Transition: t}
}
