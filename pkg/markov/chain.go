package markov

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// Sentinels padding every training run. They are valid chain states but are
// never returned from a walk.
const (
	Begin = "___BEGIN__"
	End   = "___END__"
)

// maxWalkTokens bounds a single walk; longer walks are abandoned.
const maxWalkTokens = 1000

type choice struct {
	token  string
	weight int
}

type transitions struct {
	choices    []choice
	cumulative []int
	index      map[string]int
}

func (t *transitions) add(token string) {
	if i, ok := t.index[token]; ok {
		t.choices[i].weight++
		return
	}
	t.index[token] = len(t.choices)
	t.choices = append(t.choices, choice{token: token, weight: 1})
}

func (t *transitions) compile() {
	t.cumulative = make([]int, len(t.choices))
	total := 0
	for i, c := range t.choices {
		total += c.weight
		t.cumulative[i] = total
	}
}

func (t *transitions) pick(rng *rand.Rand) string {
	total := t.cumulative[len(t.cumulative)-1]
	r := rng.IntN(total)
	i := sort.Search(len(t.cumulative), func(i int) bool { return t.cumulative[i] > r })
	return t.choices[i].token
}

// Chain maps every window of stateSize consecutive tokens seen in training to
// the tokens that followed it, weighted by occurrence. It is immutable once
// built.
type Chain struct {
	stateSize int
	model     map[string]*transitions
}

// NewChain builds a chain from independent runs of tokens. Each run is padded
// with stateSize Begin sentinels and a trailing End sentinel.
func NewChain(runs [][]string, stateSize int) (*Chain, error) {
	if stateSize < 1 {
		return nil, fmt.Errorf("state size must be positive, got %d", stateSize)
	}

	c := &Chain{
		stateSize: stateSize,
		model:     make(map[string]*transitions),
	}
	for _, run := range runs {
		items := make([]string, 0, stateSize+len(run)+1)
		for i := 0; i < stateSize; i++ {
			items = append(items, Begin)
		}
		items = append(items, run...)
		items = append(items, End)

		for i := 0; i+stateSize < len(items); i++ {
			key := stateKey(items[i : i+stateSize])
			t, ok := c.model[key]
			if !ok {
				t = &transitions{index: make(map[string]int)}
				c.model[key] = t
			}
			t.add(items[i+stateSize])
		}
	}
	for _, t := range c.model {
		t.compile()
		t.index = nil
	}
	return c, nil
}

func (c *Chain) StateSize() int {
	return c.stateSize
}

// BeginState returns the state every walk starts from.
func (c *Chain) BeginState() []string {
	state := make([]string, c.stateSize)
	for i := range state {
		state[i] = Begin
	}
	return state
}

// Transitions returns the observed followers of state and their counts, or
// nil if the state never occurred.
func (c *Chain) Transitions(state []string) map[string]int {
	t, ok := c.model[stateKey(state)]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(t.choices))
	for _, ch := range t.choices {
		out[ch.token] = ch.weight
	}
	return out
}

// Move picks the next token after state, weighted by the observed counts.
// Unknown states lead to End.
func (c *Chain) Move(rng *rand.Rand, state []string) string {
	t, ok := c.model[stateKey(state)]
	if !ok {
		return End
	}
	return t.pick(rng)
}

// Walk generates one run starting from the begin state. ok is false when the
// walk did not reach End within the walk bound.
func (c *Chain) Walk(rng *rand.Rand) (tokens []string, ok bool) {
	state := c.BeginState()
	for len(tokens) < maxWalkTokens {
		next := c.Move(rng, state)
		if next == End {
			return tokens, true
		}
		tokens = append(tokens, next)
		copy(state, state[1:])
		state[len(state)-1] = next
	}
	return nil, false
}

func stateKey(state []string) string {
	return strings.Join(state, "\x00")
}
