// Package mdconverter converts extended markdown back into Atlassian
// Document Format. It understands the dialect the converter package emits:
// ADF fence blocks, metadata comments, inline placeholder tokens and
// lossless preservation blocks, layered on GFM markdown.
package mdconverter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/adfmd/converter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Converter converts markdown documents to ADF. A Converter is safe for
// concurrent use; each conversion allocates its own traversal state.
type Converter struct {
	config ReverseConfig
	parser goldmark.Markdown
}

// New creates a Converter with the given configuration.
func New(config ReverseConfig) (*Converter, error) {
	config = config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Converter{
		config: config,
		parser: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// state carries everything one conversion needs. Allocated fresh per call.
type state struct {
	config   ReverseConfig
	ctx      context.Context
	parser   goldmark.Markdown
	source   []byte
	stash    *unknownBlockStash
	budget   *tokenBudget
	warnings []converter.Warning
	depth    int
}

func (s *state) addWarning(warningType converter.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, converter.Warning{
		Type:     warningType,
		NodeType: nodeType,
		Message:  message,
	})
}

func (s *state) checkContext() error {
	if s.ctx == nil {
		return nil
	}
	return s.ctx.Err()
}

// Convert converts a markdown document to ADF. Inputs over MaxInputSize are
// rejected in either mode. In best-effort mode every other failure degrades
// to a minimal single-paragraph document wrapping the raw input, so the
// returned document is always structurally valid.
func (c *Converter) Convert(ctx context.Context, markdown string) (Result, error) {
	if len(markdown) > MaxInputSize {
		return Result{}, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(markdown))
	}

	s := &state{
		config: c.config,
		ctx:    ctx,
		parser: c.parser,
		budget: newTokenBudget(),
	}

	result, err := s.convert(markdown)
	if err != nil {
		if c.config.Strict || (ctx != nil && ctx.Err() != nil) {
			return Result{}, err
		}
		s.addWarning(converter.WarningInvalidInput, "doc", "conversion failed, wrapped raw input: "+err.Error())
		return Result{Doc: fallbackDoc(markdown), Warnings: s.warnings}, nil
	}
	return result, nil
}

func (s *state) convert(markdown string) (Result, error) {
	if strings.TrimSpace(markdown) == "" {
		if s.config.Strict {
			return Result{}, ErrEmptyInput
		}
		return Result{Doc: converter.EmptyDoc()}, nil
	}

	body := markdown
	var frontmatter map[string]interface{}
	if stripped, payload, delimiter, found := splitFrontmatter(markdown); found {
		parsed, err := parseFrontmatter(payload, delimiter)
		if err != nil {
			if s.config.Strict {
				return Result{}, err
			}
			s.addWarning(converter.WarningInvalidInput, "frontmatter", err.Error())
		} else {
			frontmatter = parsed
		}
		body = stripped
	}

	if strings.TrimSpace(body) == "" {
		return Result{Doc: converter.EmptyDoc(), Frontmatter: frontmatter, Warnings: s.warnings}, nil
	}

	source, stash := extractUnknownBlocks(body)
	s.stash = stash

	var doc converter.Doc
	var err error
	switch s.config.Engine {
	case EngineTokenizer:
		tokens := tokenize(source, s.config.MaxDepth, 0, s.budget)
		doc, err = s.buildDocument(tokens)
	default:
		s.source = []byte(source)
		root := s.parser.Parser().Parse(text.NewReader(s.source))
		doc, err = s.convertDocument(root)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{Doc: doc, Frontmatter: frontmatter, Warnings: s.warnings}, nil
}

// ConvertWithValidation converts and then validates the produced document.
// Strict mode escalates validation errors; best-effort mode demotes them to
// warnings on the result.
func (c *Converter) ConvertWithValidation(ctx context.Context, markdown string) (Result, error) {
	result, err := c.Convert(ctx, markdown)
	if err != nil {
		return Result{}, err
	}

	validation := converter.ValidateADF(result.Doc)
	if !validation.Valid {
		if c.config.Strict {
			messages := make([]string, len(validation.Errors))
			for i, issue := range validation.Errors {
				messages[i] = issue.String()
			}
			return Result{}, fmt.Errorf("%w: %s", converter.ErrValidation, strings.Join(messages, "; "))
		}
		for _, issue := range validation.Errors {
			result.Warnings = append(result.Warnings, converter.Warning{
				Type:    converter.WarningValidation,
				Message: issue.String(),
			})
		}
	}
	return result, nil
}

// fallbackDoc wraps raw markdown in a minimal valid document.
func fallbackDoc(markdown string) converter.Doc {
	doc := converter.EmptyDoc()
	trimmed := strings.TrimSpace(markdown)
	if trimmed == "" {
		return doc
	}
	doc.Content = []converter.Node{{
		Type:    "paragraph",
		Content: []converter.Node{converter.NewTextNode(trimmed, nil)},
	}}
	return doc
}

// IsResourceLimit reports whether err is one of the hard resource-limit
// failures that no mode suppresses.
func IsResourceLimit(err error) bool {
	return errors.Is(err, ErrInputTooLarge)
}
