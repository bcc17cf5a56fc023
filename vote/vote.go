// Package vote implements advisory up/down voting on reviews: the per-voter
// state machine, the local ledger that remembers each voter's choice, and the
// scorer that keeps the ledger and the server counters in step.
package vote

import (
	"fmt"
	"strings"

	"edurate/models"
)

type Direction string

const (
	None Direction = ""
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down:
		return d, nil
	default:
		return None, fmt.Errorf("invalid vote direction %q: want up or down", s)
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	default:
		return None
	}
}

func (d Direction) String() string {
	if d == None {
		return "none"
	}
	return string(d)
}

// Transition applies a cast to the voter's current direction. Casting the
// direction already held changes nothing; casting the opposite one moves the
// vote across in a single delta.
func Transition(from, cast Direction) (Direction, models.VoteDelta, bool) {
	if cast != Up && cast != Down {
		return from, models.VoteDelta{}, false
	}
	if from == cast {
		return from, models.VoteDelta{}, false
	}

	var d models.VoteDelta
	if cast == Up {
		d.Up++
	} else {
		d.Down++
	}
	switch from {
	case Up:
		d.Up--
	case Down:
		d.Down--
	}
	return cast, d, true
}

// Tally is a review's aggregate counters.
type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

func TallyOf(r models.Review) Tally {
	return Tally{Upvotes: r.Upvotes, Downvotes: r.Downvotes}
}

// Apply returns the tally after d. Counters never go below zero.
func (t Tally) Apply(d models.VoteDelta) Tally {
	t.Upvotes = max(0, t.Upvotes+d.Up)
	t.Downvotes = max(0, t.Downvotes+d.Down)
	return t
}

// Score is the net score. It may be negative.
func (t Tally) Score() int {
	return t.Upvotes - t.Downvotes
}
