package mdconverter

import "errors"

// Resource-limit errors are hard stops regardless of the strict flag: they
// indicate pathological input that must not be allowed to hang or exhaust
// memory.
var (
	// ErrInputTooLarge is returned for markdown larger than MaxInputSize.
	ErrInputTooLarge = errors.New("markdown input exceeds size limit")

	// ErrEmptyInput is returned in strict mode for empty or whitespace-only
	// markdown; best-effort mode substitutes an empty document instead.
	ErrEmptyInput = errors.New("empty markdown input")

	// ErrFrontmatter is returned in strict mode when frontmatter fails to
	// parse; best-effort mode swallows the failure.
	ErrFrontmatter = errors.New("invalid frontmatter")
)

// Tokenizer safety bounds.
const (
	// MaxInputSize is the hard input size limit in bytes.
	MaxInputSize = 1_000_000

	// MaxIterations caps the tokenization loop; exceeding it truncates the
	// token stream rather than hanging.
	MaxIterations = 10_000

	// MaxTokens caps the number of emitted tokens.
	MaxTokens = 10_000

	// DefaultMaxDepth bounds recursive re-tokenization of nested blocks.
	DefaultMaxDepth = 5
)
