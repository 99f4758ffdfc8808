package mdconverter

// tokenType classifies a block-level token produced by the line tokenizer.
type tokenType string

const (
	tokenHeading     tokenType = "heading"
	tokenParagraph   tokenType = "paragraph"
	tokenCodeBlock   tokenType = "codeBlock"
	tokenADFFence    tokenType = "adfFence"
	tokenBulletList  tokenType = "bulletList"
	tokenOrderedList tokenType = "orderedList"
	tokenListItem    tokenType = "listItem"
	tokenBlockquote  tokenType = "blockquote"
	tokenRule        tokenType = "rule"
	tokenTable       tokenType = "table"
	tokenTableRow    tokenType = "tableRow"
	tokenComment     tokenType = "comment"
	tokenFrontmatter tokenType = "frontmatter"
)

// token is one node of the block token tree. Raw holds inline text for
// heading, paragraph and leaf list items, the body for fences, and the whole
// comment for comment tokens. Nested block content lives in Children.
// Line, Column and Offset locate the token start; for tokens produced by
// re-tokenizing nested content they are relative to that fragment.
type token struct {
	Type   tokenType
	Raw    string
	Line   int
	Column int
	Offset int

	Level      int      // heading level
	Start      int      // ordered list start
	TaskState  string   // list item: "", "TODO" or "DONE"
	Language   string   // code fence info word
	FenceType  string   // ADF fence node type
	AttrString string   // ADF fence attribute string, unparsed
	Alignments []string // table column alignments: "", "left", "right", "center"
	Cells      []string // table row cell texts
	Header     bool     // table row is the header row
	Children   []token
}

// tokenBudget carries the shared iteration and token caps across recursive
// re-tokenization. Exhausting either truncates the stream instead of
// erroring; the partial tree is still built.
type tokenBudget struct {
	iterations int
	tokens     int
}

func newTokenBudget() *tokenBudget {
	return &tokenBudget{iterations: MaxIterations, tokens: MaxTokens}
}

func (b *tokenBudget) step() bool {
	if b.iterations <= 0 {
		return false
	}
	b.iterations--
	return true
}

func (b *tokenBudget) emit() bool {
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
