package markov

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestNewChainTransitions(t *testing.T) {
	runs := [][]string{
		{"China", "exports", "slow"},
		{"China", "exports", "rise"},
		{"Yuan", "slips"},
	}
	chain, err := NewChain(runs, 1)
	require.NoError(t, err)

	tests := []struct {
		state []string
		want  map[string]int
	}{
		{[]string{Begin}, map[string]int{"China": 2, "Yuan": 1}},
		{[]string{"China"}, map[string]int{"exports": 2}},
		{[]string{"exports"}, map[string]int{"slow": 1, "rise": 1}},
		{[]string{"slow"}, map[string]int{End: 1}},
		{[]string{"slips"}, map[string]int{End: 1}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, chain.Transitions(tt.state)); diff != "" {
			t.Errorf("Transitions(%v) mismatch (-want +got):\n%s", tt.state, diff)
		}
	}

	assert.Nil(t, chain.Transitions([]string{"unseen"}))
}

func TestNewChainStateSizeTwo(t *testing.T) {
	chain, err := NewChain([][]string{{"a", "b", "c"}, {"a", "b", "d"}}, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, chain.StateSize())
	assert.Equal(t, []string{Begin, Begin}, chain.BeginState())

	want := map[string]map[string]int{
		stateKey([]string{Begin, Begin}): {"a": 2},
		stateKey([]string{Begin, "a"}):   {"b": 2},
		stateKey([]string{"a", "b"}):     {"c": 1, "d": 1},
		stateKey([]string{"b", "c"}):     {End: 1},
		stateKey([]string{"b", "d"}):     {End: 1},
	}
	got := map[string]map[string]int{}
	for key := range chain.model {
		got[key] = chain.Transitions(splitKey(key))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chain mismatch (-want +got):\n%s", diff)
	}
}

func TestNewChainInvalidStateSize(t *testing.T) {
	_, err := NewChain([][]string{{"a"}}, 0)
	assert.Error(t, err)
}

func TestChainReachability(t *testing.T) {
	runs := [][]string{
		{"Xi", "meets", "Biden", "in", "San", "Francisco"},
		{"Biden", "meets", "Xi"},
		{"Trade", "talks", "resume", "in", "Beijing"},
	}
	chain, err := NewChain(runs, 1)
	require.NoError(t, err)

	for _, run := range runs {
		for i := 1; i < len(run); i++ {
			followers := chain.Transitions([]string{run[i-1]})
			assert.Contains(t, followers, run[i], "%q should follow %q", run[i], run[i-1])
		}
	}
}

func TestChainWalkUsesTrainingTokens(t *testing.T) {
	runs := [][]string{
		{"Xi", "meets", "Biden"},
		{"Biden", "meets", "Xi", "again"},
	}
	chain, err := NewChain(runs, 1)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, run := range runs {
		for _, tok := range run {
			seen[tok] = true
		}
	}

	rng := newRand(1)
	for i := 0; i < 200; i++ {
		walk, ok := chain.Walk(rng)
		require.True(t, ok)
		require.NotEmpty(t, walk)
		for _, tok := range walk {
			assert.True(t, seen[tok], "unexpected token %q", tok)
			assert.NotEqual(t, Begin, tok)
			assert.NotEqual(t, End, tok)
		}
	}
}

func TestChainWalkDeterministic(t *testing.T) {
	chain, err := NewChain([][]string{{"a", "b", "a", "c"}, {"b", "c"}}, 1)
	require.NoError(t, err)

	first, _ := chain.Walk(newRand(7))
	second, _ := chain.Walk(newRand(7))
	assert.Equal(t, first, second)
}

func TestChainMoveWeighted(t *testing.T) {
	runs := make([][]string, 0, 4)
	for i := 0; i < 3; i++ {
		runs = append(runs, []string{"common"})
	}
	runs = append(runs, []string{"rare"})
	chain, err := NewChain(runs, 1)
	require.NoError(t, err)

	rng := newRand(3)
	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		counts[chain.Move(rng, chain.BeginState())]++
	}
	assert.InDelta(t, 3000, counts["common"], 200)
	assert.InDelta(t, 1000, counts["rare"], 200)
	assert.Equal(t, End, chain.Move(rng, []string{"missing"}))
}

func splitKey(key string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			parts = append(parts, key[start:i])
			start = i + 1
		}
	}
	return append(parts, key[start:])
}
