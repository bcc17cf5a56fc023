package vote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edurate/models"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from, cast Direction
		to         Direction
		delta      models.VoteDelta
		changed    bool
	}{
		{None, Up, Up, models.VoteDelta{Up: 1}, true},
		{None, Down, Down, models.VoteDelta{Down: 1}, true},
		{Up, Up, Up, models.VoteDelta{}, false},
		{Down, Down, Down, models.VoteDelta{}, false},
		{Up, Down, Down, models.VoteDelta{Up: -1, Down: 1}, true},
		{Down, Up, Up, models.VoteDelta{Up: 1, Down: -1}, true},
		{Up, None, Up, models.VoteDelta{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.cast.String(), func(t *testing.T) {
			to, delta, changed := Transition(tt.from, tt.cast)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.delta, delta)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestTallySequences(t *testing.T) {
	run := func(casts ...Direction) Tally {
		var (
			state Direction
			tally Tally
		)
		for _, c := range casts {
			var d models.VoteDelta
			state, d, _ = Transition(state, c)
			tally = tally.Apply(d)
		}
		return tally
	}

	assert.Equal(t, Tally{Upvotes: 1}, run(Up, Up))

	switched := run(Up, Down)
	assert.Equal(t, Tally{Downvotes: 1}, switched)
	assert.Equal(t, -1, switched.Score())

	assert.Equal(t, Tally{Upvotes: 1}, run(Down, Up, Up))
}

func TestTallyApplyFloorsAtZero(t *testing.T) {
	got := Tally{}.Apply(models.VoteDelta{Up: -1, Down: 1})
	assert.Equal(t, Tally{Downvotes: 1}, got)
}

func TestTallyOf(t *testing.T) {
	tally := TallyOf(models.Review{Upvotes: 3, Downvotes: 5})
	assert.Equal(t, -2, tally.Score())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" UP ")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	d, err = ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, Down, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
	_, err = ParseDirection("")
	assert.Error(t, err)
}

func TestOpposite(t *testing.T) {
	assert.Equal(t, Down, Up.Opposite())
	assert.Equal(t, Up, Down.Opposite())
	assert.Equal(t, None, None.Opposite())
}
