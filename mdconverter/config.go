package mdconverter

import "fmt"

// Engine selects the markdown parser backing the reverse conversion.
type Engine string

const (
	// EngineGoldmark parses through the goldmark mdast (default).
	EngineGoldmark Engine = "goldmark"
	// EngineTokenizer parses through the hand-written extended tokenizer.
	EngineTokenizer Engine = "tokenizer"
)

// EmojiDetection controls whether :shortcode: runs in plain text are
// reconstructed as emoji nodes.
type EmojiDetection string

const (
	// EmojiDetectNone leaves shortcode-looking text alone.
	EmojiDetectNone EmojiDetection = "none"
	// EmojiDetectShortcode rebuilds standalone :shortcode: runs (default).
	EmojiDetectShortcode EmojiDetection = "shortcode"
)

// ReverseConfig configures Markdown to ADF conversion behavior.
type ReverseConfig struct {
	// Strict makes conversion fail on malformed input instead of falling
	// back to a minimal document. Resource-limit errors are hard failures
	// in either mode.
	Strict bool `json:"strict,omitempty"`

	// Engine selects the parser backend.
	Engine Engine `json:"engine,omitempty"`

	// MaxDepth bounds recursive re-tokenization of nested block content.
	MaxDepth int `json:"maxDepth,omitempty"`

	// DateFormat is the Go reference layout accepted inside {date:...}.
	DateFormat string `json:"dateFormat,omitempty"`

	// EmojiDetection selects the emoji shortcode handling.
	EmojiDetection EmojiDetection `json:"emojiDetection,omitempty"`
}

func (c ReverseConfig) applyDefaults() ReverseConfig {
	if c.Engine == "" {
		c.Engine = EngineGoldmark
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.DateFormat == "" {
		c.DateFormat = "2006-01-02"
	}
	if c.EmojiDetection == "" {
		c.EmojiDetection = EmojiDetectShortcode
	}
	return c
}

// Validate checks that config values are valid.
func (c ReverseConfig) Validate() error {
	if c.Engine != EngineGoldmark && c.Engine != EngineTokenizer {
		return fmt.Errorf("invalid engine %q", c.Engine)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("maxDepth must be positive, got %d", c.MaxDepth)
	}
	if c.DateFormat == "" {
		return fmt.Errorf("dateFormat must not be empty")
	}
	if c.EmojiDetection != EmojiDetectNone && c.EmojiDetection != EmojiDetectShortcode {
		return fmt.Errorf("invalid emojiDetection %q", c.EmojiDetection)
	}
	return nil
}
