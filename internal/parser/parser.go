// Package parser extracts card definitions from plain-text files using
// Q:/A:/C: prefixed blocks separated by "---" lines.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Card is a raw parsed card before sanitization: front text, back text,
// and an optional context line that callers may map onto tags.
type Card struct {
	Front   string
	Back    string
	Context string
}

const (
	frontPrefix   = "Q:"
	backPrefix    = "A:"
	contextPrefix = "C:"
)

type state int

const (
	seeking state = iota
	readingFront
	readingBack
	readingContext
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. A card with no
// front text is discarded; a back-less card survives parsing and is
// left for the sanitizer to reject.
func Parse(r io.Reader) ([]Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []Card
	var current Card
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch currentState {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		case readingContext:
			current.Context = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" {
			cards = append(cards, current)
		}
		current = Card{}
		currentState = seeking
	}

	startBlock := func(next state, line, prefix string) {
		flushBlock()
		currentState = next
		block = append(block, strings.TrimPrefix(strings.TrimPrefix(line, prefix), " "))
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "---":
			finishCard()
		case strings.HasPrefix(line, frontPrefix):
			// A new front always starts a new card.
			if currentState != seeking {
				finishCard()
			}
			startBlock(readingFront, line, frontPrefix)
		case strings.HasPrefix(line, backPrefix):
			startBlock(readingBack, line, backPrefix)
		case strings.HasPrefix(line, contextPrefix):
			startBlock(readingContext, line, contextPrefix)
		case currentState != seeking:
			block = append(block, line)
		}
	}

	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
