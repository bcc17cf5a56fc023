package vote

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edurate/models"
)

type call struct {
	dir, switchFrom Direction
}

// fakeVoter applies votes to an in-memory tally the way the server would.
type fakeVoter struct {
	calls []call
	tally Tally
	fail  error
}

func (f *fakeVoter) Vote(_ context.Context, courseID, reviewID int64, dir, switchFrom Direction) (*models.Review, error) {
	f.calls = append(f.calls, call{dir, switchFrom})
	if f.fail != nil {
		return nil, f.fail
	}
	from := None
	if switchFrom == dir.Opposite() {
		from = switchFrom
	}
	_, d, _ := Transition(from, dir)
	f.tally = f.tally.Apply(d)
	return &models.Review{ID: reviewID, CourseID: courseID, Upvotes: f.tally.Upvotes, Downvotes: f.tally.Downvotes}, nil
}

func TestCastRepeatMakesNoRequest(t *testing.T) {
	v := &fakeVoter{}
	s := NewScorer(v, nil)

	res, err := s.Cast(context.Background(), 1, 9, Up)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Review.Upvotes)

	res, err = s.Cast(context.Background(), 1, 9, Up)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Nil(t, res.Review)

	assert.Len(t, v.calls, 1)
	assert.Equal(t, Tally{Upvotes: 1}, v.tally)
}

func TestCastSwitchSendsOneRequest(t *testing.T) {
	v := &fakeVoter{}
	s := NewScorer(v, nil)

	_, err := s.Cast(context.Background(), 1, 9, Up)
	require.NoError(t, err)
	res, err := s.Cast(context.Background(), 1, 9, Down)
	require.NoError(t, err)

	assert.Equal(t, []call{{Up, None}, {Down, Up}}, v.calls)
	assert.Equal(t, Down, res.Direction)
	assert.Equal(t, Tally{Downvotes: 1}, v.tally)
	assert.Equal(t, -1, TallyOf(*res.Review).Score())
}

func TestCastFailureLeavesLedgerUntouched(t *testing.T) {
	v := &fakeVoter{}
	ledger, err := OpenLedger(filepath.Join(t.TempDir(), "votes.json"))
	require.NoError(t, err)
	s := NewScorer(v, ledger)

	_, err = s.Cast(context.Background(), 1, 9, Up)
	require.NoError(t, err)

	v.fail = errors.New("upstream down")
	res, err := s.Cast(context.Background(), 1, 9, Down)
	require.Error(t, err)
	assert.ErrorIs(t, err, v.fail)
	assert.Equal(t, Up, res.Direction)
	assert.Equal(t, Up, ledger.Get(9))

	v.fail = nil
	_, err = s.Cast(context.Background(), 1, 9, Down)
	require.NoError(t, err)
	assert.Equal(t, Down, ledger.Get(9))
	assert.Equal(t, Tally{Downvotes: 1}, v.tally)
}

func TestCastRejectsNone(t *testing.T) {
	v := &fakeVoter{}
	_, err := NewScorer(v, nil).Cast(context.Background(), 1, 2, None)
	assert.Error(t, err)
	assert.Empty(t, v.calls)
}
