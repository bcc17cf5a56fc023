package vote

import (
	"context"
	"fmt"
	"sync"

	"edurate/models"
)

// Voter sends one vote to the server. switchFrom is None for a first vote.
type Voter interface {
	Vote(ctx context.Context, courseID, reviewID int64, dir, switchFrom Direction) (*models.Review, error)
}

type Scorer struct {
	mu     sync.Mutex
	voter  Voter
	ledger *Ledger
}

func NewScorer(voter Voter, ledger *Ledger) *Scorer {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	return &Scorer{voter: voter, ledger: ledger}
}

type Result struct {
	Direction Direction `json:"direction"`
	Changed   bool      `json:"changed"`
	// Review is the server's copy after the vote, nil when nothing changed.
	Review *models.Review `json:"review,omitempty"`
}

// Cast records this voter's vote on a review. Repeating the current direction
// is a no-op that never reaches the server. Otherwise exactly one request is
// sent, and the ledger is updated only once it succeeds.
func (s *Scorer) Cast(ctx context.Context, courseID, reviewID int64, dir Direction) (Result, error) {
	if dir != Up && dir != Down {
		return Result{}, fmt.Errorf("invalid vote direction %q", string(dir))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.ledger.Get(reviewID)
	to, _, changed := Transition(from, dir)
	if !changed {
		return Result{Direction: from}, nil
	}

	updated, err := s.voter.Vote(ctx, courseID, reviewID, dir, from)
	if err != nil {
		return Result{Direction: from}, fmt.Errorf("cast %s on review %d: %w", dir, reviewID, err)
	}
	if err := s.ledger.Set(reviewID, to); err != nil {
		return Result{Direction: to, Changed: true, Review: updated}, fmt.Errorf("vote recorded but not saved locally: %w", err)
	}
	return Result{Direction: to, Changed: true, Review: updated}, nil
}

func (s *Scorer) Ledger() *Ledger {
	return s.ledger
}
