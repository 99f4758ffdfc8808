// Package adfmd converts between Atlassian Document Format and an extended
// markdown dialect that round-trips ADF-specific structure through fence
// blocks, metadata comments and inline placeholder tokens.
//
// The package-level functions cover the common cases; the converter and
// mdconverter packages expose the full configuration surface.
package adfmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rgonek/adfmd/converter"
	"github.com/rgonek/adfmd/mdconverter"
)

// Options configures the package-level conversion functions.
type Options struct {
	// Strict fails on malformed input instead of producing a best-effort
	// result.
	Strict bool

	// Engine selects the markdown parser for MarkdownToADF; empty means the
	// default goldmark backend.
	Engine mdconverter.Engine
}

// ADFToMarkdown converts an ADF document to extended markdown.
func ADFToMarkdown(ctx context.Context, doc converter.Doc, opts Options) (string, error) {
	c, err := converter.New(converter.Config{Strict: opts.Strict})
	if err != nil {
		return "", err
	}
	result, err := c.Convert(ctx, doc)
	if err != nil {
		return "", err
	}
	return result.Markdown, nil
}

// ADFJSONToMarkdown converts raw ADF JSON to extended markdown.
func ADFJSONToMarkdown(ctx context.Context, data []byte, opts Options) (string, error) {
	c, err := converter.New(converter.Config{Strict: opts.Strict})
	if err != nil {
		return "", err
	}
	result, err := c.ConvertJSON(ctx, data)
	if err != nil {
		return "", err
	}
	return result.Markdown, nil
}

// MarkdownToADF converts extended markdown to an ADF document. In non-strict
// mode it never fails structurally; the result is always a valid document.
func MarkdownToADF(ctx context.Context, markdown string, opts Options) (converter.Doc, error) {
	c, err := mdconverter.New(mdconverter.ReverseConfig{Strict: opts.Strict, Engine: opts.Engine})
	if err != nil {
		return converter.Doc{}, err
	}
	result, err := c.Convert(ctx, markdown)
	if err != nil {
		return converter.Doc{}, err
	}
	return result.Doc, nil
}

// MarkdownToADFJSON converts extended markdown to ADF JSON.
func MarkdownToADFJSON(ctx context.Context, markdown string, opts Options) ([]byte, error) {
	doc, err := MarkdownToADF(ctx, markdown, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// ValidateADF checks a document against the ADF structural rules.
func ValidateADF(doc converter.Doc) converter.ValidationResult {
	return converter.ValidateADF(doc)
}

// ValidateMarkdown checks extended markdown for structural problems.
func ValidateMarkdown(markdown string) converter.ValidationResult {
	return mdconverter.ValidateMarkdown(markdown)
}

// RoundTrip converts a document to markdown and back, reporting both
// intermediate results. Useful for fidelity checks in tests and tooling.
func RoundTrip(ctx context.Context, doc converter.Doc, opts Options) (string, converter.Doc, error) {
	markdown, err := ADFToMarkdown(ctx, doc, opts)
	if err != nil {
		return "", converter.Doc{}, err
	}
	restored, err := MarkdownToADF(ctx, markdown, opts)
	if err != nil {
		return markdown, converter.Doc{}, err
	}
	return markdown, restored, nil
}

// ErrRetriesExhausted wraps the last error after all retry attempts failed.
var ErrRetriesExhausted = fmt.Errorf("conversion retries exhausted")
