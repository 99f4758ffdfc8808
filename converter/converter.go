package converter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Converter converts ADF documents to Extended Markdown.
type Converter struct {
	config   Config
	registry *Registry
}

// state carries per-conversion mutable data. A fresh state is allocated for
// every Convert call; the engine itself stays read-only during conversion.
type state struct {
	config   Config
	registry *Registry
	ctx      context.Context
	warnings []Warning
}

// New creates a Converter with the given config and the default registry.
func New(config Config) (*Converter, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Converter{
		config:   cfg,
		registry: defaultRegistry(),
	}, nil
}

// Registry exposes the converter registry so callers can register additional
// node or mark converters before converting. The registry must not be
// modified concurrently with a running conversion.
func (c *Converter) Registry() *Registry {
	return c.registry
}

// Convert renders an ADF document as Extended Markdown.
//
// In strict mode a root type other than "doc" fails with ErrInvalidInput and
// any converter failure aborts the conversion. Otherwise conversion is
// best-effort: a failing node degrades to a comment placeholder and the
// mismatching root is traversed anyway.
func (c *Converter) Convert(ctx context.Context, doc Doc) (Result, error) {
	s := &state{
		config:   c.config,
		registry: c.registry,
		ctx:      ctx,
	}

	if doc.Type != "doc" {
		if c.config.Strict {
			return Result{}, fmt.Errorf("root node type must be %q, got %q: %w", "doc", doc.Type, ErrInvalidInput)
		}
		if doc.Type == "" && len(doc.Content) == 0 {
			return Result{}, nil
		}
		s.addWarning(WarningInvalidInput, doc.Type, fmt.Sprintf("root node type %q converted best-effort", doc.Type))
	}

	markdown, err := s.convertNode(Node{Type: "doc", Content: doc.Content, Attrs: nil}, 0, nil)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Markdown: markdown,
		Warnings: s.warnings,
	}, nil
}

// ConvertJSON parses raw ADF JSON and converts it.
func (c *Converter) ConvertJSON(ctx context.Context, input []byte) (Result, error) {
	var doc Doc
	if err := json.Unmarshal(input, &doc); err != nil {
		if c.config.Strict {
			return Result{}, fmt.Errorf("failed to parse ADF JSON: %w: %w", err, ErrInvalidInput)
		}
		return Result{
			Warnings: []Warning{{
				Type:    WarningInvalidInput,
				Message: fmt.Sprintf("unparsable ADF JSON: %v", err),
			}},
		}, nil
	}
	return c.Convert(ctx, doc)
}

// ConvertWithValidation validates the document before converting. In strict
// mode validation errors abort with ErrValidation; otherwise they are demoted
// to warnings on the result.
func (c *Converter) ConvertWithValidation(ctx context.Context, doc Doc) (Result, error) {
	validation := ValidateADF(doc)
	if !validation.Valid && c.config.Strict {
		messages := make([]string, 0, len(validation.Errors))
		for _, issue := range validation.Errors {
			messages = append(messages, issue.String())
		}
		return Result{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
	}

	result, err := c.Convert(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	for _, issue := range validation.Errors {
		result.Warnings = append(result.Warnings, Warning{
			Type:    WarningValidation,
			Message: issue.String(),
		})
	}
	return result, nil
}

func (s *state) addWarning(warnType WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, Warning{
		Type:     warnType,
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

// convertNode dispatches a single node through the registry. Unknown types
// resolve to the lossless fallback converter; converter failures propagate in
// strict mode and degrade to a placeholder comment otherwise, so one broken
// subtree cannot blank out the whole document.
func (s *state) convertNode(node Node, depth int, parent *Node) (string, error) {
	if err := s.checkContext(); err != nil {
		return "", err
	}

	conv, ok := s.registry.NodeConverter(node.Type)
	if !ok {
		s.addWarning(WarningUnknownNode, node.Type, fmt.Sprintf("unknown node type %q preserved as JSON block", node.Type))
		conv = unknownNodeConverter()
	}

	output, err := conv.ToMarkdown(node, s.newContext(node, depth, parent))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if s.config.Strict {
			return "", fmt.Errorf("converting %s node: %w", node.Type, err)
		}
		s.addWarning(WarningNodeFailed, node.Type, fmt.Sprintf("node conversion failed: %v", err))
		return fmt.Sprintf("<!-- Unknown node: %s -->", node.Type), nil
	}
	return output, nil
}

// newContext builds the traversal environment handed to the converter of
// node. Child conversions descend one depth level with node as parent.
func (s *state) newContext(node Node, depth int, parent *Node) Context {
	owner := node
	return Context{
		ConvertChildren: func(nodes []Node) (string, error) {
			return s.convertInline(nodes, depth+1, &owner)
		},
		ConvertBlocks: func(nodes []Node) (string, error) {
			return s.convertBlocks(nodes, depth+1, &owner)
		},
		Depth:    depth,
		Parent:   parent,
		Config:   s.config,
		Registry: s.registry,
		Warn:     s.addWarning,
	}
}

// convertInline concatenates converted children without block separation.
func (s *state) convertInline(nodes []Node, depth int, parent *Node) (string, error) {
	var sb strings.Builder
	for _, child := range nodes {
		output, err := s.convertNode(child, depth, parent)
		if err != nil {
			return "", err
		}
		sb.WriteString(output)
	}
	return sb.String(), nil
}

// convertBlocks joins converted children with blank lines, filtering empty
// outputs so adjacent empty paragraphs do not stack blank lines.
func (s *state) convertBlocks(nodes []Node, depth int, parent *Node) (string, error) {
	var blocks []string
	for _, child := range nodes {
		output, err := s.convertNode(child, depth, parent)
		if err != nil {
			return "", err
		}
		if output == "" {
			continue
		}
		blocks = append(blocks, output)
	}
	return strings.Join(blocks, "\n\n"), nil
}

// applyMarks runs the text through each mark converter in array order, so the
// marks array deterministically controls nesting. Unknown mark types resolve
// to the metadata-comment fallback.
func applyMarks(text string, marks []Mark, ctx Context) (string, error) {
	result := text
	for _, mark := range marks {
		conv, ok := ctx.Registry.MarkConverter(mark.Type)
		if !ok {
			ctx.Warn(WarningUnknownMark, mark.Type, fmt.Sprintf("unknown mark type %q preserved as metadata comment", mark.Type))
			conv = unknownMarkConverter()
		}
		wrapped, err := conv.ToMarkdown(result, mark, ctx)
		if err != nil {
			return "", err
		}
		result = wrapped
	}
	return result, nil
}
