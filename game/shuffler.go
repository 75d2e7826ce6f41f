package game

import "math/rand"

type randShuffler struct{}

// NewShuffler returns the production Shuffler backed by math/rand.
func NewShuffler() randShuffler {
	return randShuffler{}
}

func (randShuffler) Perm(n int) []int {
	return rand.Perm(n)
}
