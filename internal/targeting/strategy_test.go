package targeting

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStrategy(size int) *Strategy {
	return NewStrategy(size, rand.New(rand.NewSource(1)))
}

func TestIndexCoord(t *testing.T) {
	s := newStrategy(10)
	assert.Equal(t, 0, s.Index(1, 1))
	assert.Equal(t, 9, s.Index(10, 1))
	assert.Equal(t, 10, s.Index(1, 2))
	assert.Equal(t, 99, s.Index(10, 10))

	for idx := 0; idx < 100; idx++ {
		x, y := s.Coord(idx)
		assert.Equal(t, idx, s.Index(x, y))
	}
}

func TestNextShotPeeks(t *testing.T) {
	s := newStrategy(5)
	a, err := s.NextShot()
	require.NoError(t, err)
	b, err := s.NextShot()
	require.NoError(t, err)
	assert.Equal(t, a, b, "NextShot must not consume the candidate")

	c, err := s.CommitShot()
	require.NoError(t, err)
	assert.Equal(t, a, c)
	assert.False(t, s.IsValid(c))
	assert.Equal(t, 1, s.Tried())
}

func TestNeverRepeatsAndExhausts(t *testing.T) {
	const size = 6
	s := newStrategy(size)
	seen := make(map[int]bool)
	for i := 0; i < size*size; i++ {
		idx, err := s.CommitShot()
		require.NoError(t, err)
		require.False(t, seen[idx], "cell %d proposed twice", idx)
		seen[idx] = true
		// pretend every third shot hits to exercise target mode
		if i%3 == 0 {
			s.OnHit(idx)
		}
	}
	assert.Equal(t, 0, s.Remaining())

	_, err := s.NextShot()
	require.ErrorIs(t, err, ErrNoMoves)
	_, err = s.CommitShot()
	require.ErrorIs(t, err, ErrNoMoves)
}

func TestOnHitPushesNeighbours(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want [][2]int
	}{
		{"centre", 5, 5, [][2]int{{6, 5}, {4, 5}, {5, 6}, {5, 4}}},
		{"top left corner", 1, 1, [][2]int{{2, 1}, {1, 2}}},
		{"right edge does not wrap", 10, 3, [][2]int{{9, 3}, {10, 4}, {10, 2}}},
		{"left edge does not wrap", 1, 4, [][2]int{{2, 4}, {1, 5}, {1, 3}}},
		{"bottom right corner", 10, 10, [][2]int{{9, 10}, {10, 9}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStrategy(10)
			s.OnHit(s.Index(tc.x, tc.y))
			var want []int
			for _, c := range tc.want {
				want = append(want, s.Index(c[0], c[1]))
			}
			assert.Equal(t, want, s.Candidates())
		})
	}
}

func TestOnHitSkipsTried(t *testing.T) {
	s := newStrategy(10)
	left := s.Index(4, 5)
	s.tried[left] = true
	s.numTried++

	s.OnHit(s.Index(5, 5))
	assert.NotContains(t, s.Candidates(), left)
	assert.Len(t, s.Candidates(), 3)

	s.OnHit(-1)
	s.OnHit(100)
	assert.Len(t, s.Candidates(), 3)
}

func TestTargetModeFollowsStack(t *testing.T) {
	s := newStrategy(10)
	hit := s.Index(5, 5)
	s.OnHit(hit)

	// LIFO: last pushed neighbour (5,4) comes first
	idx, err := s.NextShot()
	require.NoError(t, err)
	assert.Equal(t, s.Index(5, 4), idx)
	_, err = s.CommitShot()
	require.NoError(t, err)

	idx, err = s.CommitShot()
	require.NoError(t, err)
	assert.Equal(t, s.Index(5, 6), idx)
}

func TestStaleCandidatesAreSkipped(t *testing.T) {
	s := newStrategy(10)
	// two adjacent hits both push (6,5)
	s.OnHit(s.Index(5, 5))
	s.OnHit(s.Index(7, 5))
	shared := s.Index(6, 5)

	seen := make(map[int]bool)
	for len(s.Candidates()) > 0 {
		idx, err := s.CommitShot()
		require.NoError(t, err)
		require.False(t, seen[idx])
		seen[idx] = true
		if len(s.Candidates()) == 0 {
			break
		}
	}
	assert.True(t, seen[shared])
}

func TestOnSunkClearsStack(t *testing.T) {
	s := newStrategy(10)
	s.OnHit(s.Index(3, 3))
	require.NotEmpty(t, s.Candidates())

	s.OnSunk()
	assert.Empty(t, s.Candidates())

	// back to hunting
	idx, err := s.NextShot()
	require.NoError(t, err)
	assert.True(t, s.IsValid(idx))
}

func TestIsValid(t *testing.T) {
	s := newStrategy(4)
	assert.True(t, s.IsValid(0))
	assert.True(t, s.IsValid(15))
	assert.False(t, s.IsValid(16))
	assert.False(t, s.IsValid(-1))
}

func TestHuntIsDeterministicPerSeed(t *testing.T) {
	run := func() []int {
		s := NewStrategy(8, rand.New(rand.NewSource(77)))
		var out []int
		for i := 0; i < 20; i++ {
			idx, err := s.CommitShot()
			require.NoError(t, err)
			out = append(out, idx)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestReset(t *testing.T) {
	s := newStrategy(3)
	for i := 0; i < 9; i++ {
		_, err := s.CommitShot()
		require.NoError(t, err)
	}
	s.Reset()
	assert.Equal(t, 9, s.Remaining())
	_, err := s.NextShot()
	assert.NoError(t, err)
}
