package game

import (
	"strings"
	"time"
)

// Score constants. A correct guesser earns the base plus a time bonus that
// shrinks linearly as the round runs out; the drawer earns a flat bonus per
// correct guesser.
const (
	GUESS_BASE_SCORE = 100
	GUESS_TIME_BONUS = 200
	DRAWER_BONUS     = 50
)

// GuessEvaluator decides guess correctness and score deltas. Matching is
// exact after normalization; no edit-distance tolerance.
type GuessEvaluator struct{}

func normalizeGuess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Evaluate reports whether guess matches the secret word after trimming
// surrounding whitespace and case-folding both sides.
func (GuessEvaluator) Evaluate(guess, secretWord string) bool {
	return normalizeGuess(guess) == normalizeGuess(secretWord)
}

// GuesserDelta computes the points awarded to a correct guesser given how
// much of the round remains. Monotonically decreasing in elapsed time,
// never below the base.
func (GuessEvaluator) GuesserDelta(remaining, roundDuration time.Duration) int {
	if roundDuration <= 0 {
		return GUESS_BASE_SCORE
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > roundDuration {
		remaining = roundDuration
	}
	bonus := int(int64(GUESS_TIME_BONUS) * int64(remaining) / int64(roundDuration))
	return GUESS_BASE_SCORE + bonus
}

// DrawerDelta is the drawer's reward for one correct guesser.
func (GuessEvaluator) DrawerDelta() int {
	return DRAWER_BONUS
}
