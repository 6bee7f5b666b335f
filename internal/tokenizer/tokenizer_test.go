package tokenizer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rmarkov/snapfold/internal/tokenizer"
)

// wordCounter is a deterministic stand-in for a model-backed counter.
type wordCounter struct {
	countError error
}

func (counter wordCounter) Name() string { return "word" }

func (counter wordCounter) CountString(input string) (int, error) {
	if counter.countError != nil {
		return 0, counter.countError
	}
	return len(strings.Fields(input)), nil
}

// TestCountStringNilCounter verifies a nil counter yields an uncounted result.
func TestCountStringNilCounter(testingInstance *testing.T) {
	result, countError := tokenizer.CountString(nil, "some text")
	if countError != nil {
		testingInstance.Fatalf("CountString: %v", countError)
	}
	if result.Counted || result.Tokens != 0 {
		testingInstance.Errorf("expected an uncounted result, got %+v", result)
	}
}

// TestCountStringCounts verifies counting is delegated to the counter.
func TestCountStringCounts(testingInstance *testing.T) {
	result, countError := tokenizer.CountString(wordCounter{}, "one two three")
	if countError != nil {
		testingInstance.Fatalf("CountString: %v", countError)
	}
	if !result.Counted || result.Tokens != 3 {
		testingInstance.Errorf("expected 3 counted tokens, got %+v", result)
	}
}

// TestCountStringPropagatesErrors verifies counter failures surface unchanged.
func TestCountStringPropagatesErrors(testingInstance *testing.T) {
	countFailure := errors.New("encoding unavailable")
	result, countError := tokenizer.CountString(wordCounter{countError: countFailure}, "text")
	if !errors.Is(countError, countFailure) {
		testingInstance.Fatalf("expected the counter failure, got %v", countError)
	}
	if result.Counted {
		testingInstance.Errorf("a failed count must not report as counted")
	}
}
