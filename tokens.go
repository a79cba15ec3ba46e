package ingest

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates the token count of a piece of text.
type Counter interface {
	Count(text string) int
}

// SimpleCounter approximates tokens as bytes/4, which is close enough for
// status-line feedback and costs nothing.
type SimpleCounter struct{}

func (SimpleCounter) Count(text string) int {
	return len(text) / 4
}

// TiktokenCounter counts tokens with a real tokenizer.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter for the given model's encoding.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// NewCounter returns the counter for a --token-estimator flag value,
// falling back to the simple estimator when tiktoken is unavailable.
func NewCounter(estimator string) (Counter, error) {
	switch estimator {
	case "", "simple":
		return SimpleCounter{}, nil
	case "tiktoken":
		c, err := NewTiktokenCounter("gpt-4o")
		if err != nil {
			return SimpleCounter{}, nil
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", estimator)
	}
}
