package game

import (
	"bufio"
	"bytes"
	"math/rand"

	_ "embed"
)

//go:embed words.txt
var wordsFile []byte

// WordBank is an immutable vocabulary of candidate secret words.
type WordBank struct {
	words []string
}

// NewWordBank builds the bank from the embedded vocabulary, one word per
// line, duplicates dropped.
func NewWordBank() *WordBank {
	return newWordBankFrom(wordsFile)
}

func newWordBankFrom(src []byte) *WordBank {
	seen := make(map[string]struct{})
	var words []string

	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		word := scanner.Text()
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}

	return &WordBank{words: words}
}

func (wb *WordBank) Size() int {
	return len(wb.words)
}

// Pick draws one word uniformly at random from the vocabulary minus
// excluding. Returns ErrWordBankExhausted when no candidate remains.
func (wb *WordBank) Pick(excluding map[string]struct{}) (string, error) {
	candidates := make([]string, 0, len(wb.words))
	for _, w := range wb.words {
		if _, used := excluding[w]; !used {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return "", ErrWordBankExhausted
	}
	return candidates[rand.Intn(len(candidates))], nil
}
