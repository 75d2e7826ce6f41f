package game

import "errors"

// Validation failures surfaced to the offending connection as a non-fatal
// error notification. Grouped by taxonomy: not-found, conflict, forbidden,
// invalid input.
var (
	ErrRoomNotFound      = errors.New("room-not-found")
	ErrWordBankExhausted = errors.New("word-bank-exhausted")

	ErrRoomAlreadyExists = errors.New("room-already-exists")
	ErrGameAlreadyActive = errors.New("game-already-active")
	ErrAlreadyInARoom    = errors.New("already-in-a-room")

	ErrNotCurrentDrawer        = errors.New("not-current-drawer")
	ErrDrawerCannotGuess       = errors.New("drawer-cannot-guess")
	ErrAlreadyGuessedCorrectly = errors.New("already-guessed-correctly")

	ErrNoActiveRound    = errors.New("no-active-round")
	ErrNotInThisRoom    = errors.New("not-in-this-room")
	ErrNotEnoughPlayers = errors.New("not-enough-players")
	ErrInvalidEvent     = errors.New("invalid-event")
)
