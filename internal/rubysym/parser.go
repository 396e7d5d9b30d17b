// Package rubysym extracts class and module declarations from Ruby
// source with tree-sitter, producing the symbol table entries the
// analysis resolves names against.
package rubysym

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/unbound-force/zentest/internal/loader"
	"github.com/unbound-force/zentest/internal/symtab"
)

// DefaultMaxFileSize bounds the size of a single source unit.
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	// ErrFileTooLarge is returned for sources over the size limit.
	ErrFileTooLarge = errors.New("source too large")

	// ErrInvalidContent is returned for sources that are not UTF-8.
	ErrInvalidContent = errors.New("invalid source content")
)

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize overrides DefaultMaxFileSize. Non-positive values
// are ignored.
func WithMaxFileSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxFileSize = n
		}
	}
}

// Parser extracts declarations from Ruby sources. It satisfies
// symtab.Extractor and is safe for concurrent use: each call builds
// its own tree-sitter parser.
type Parser struct {
	maxFileSize int
}

// NewParser returns a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract returns every class and module declared in src, in the
// order first declared. A class reopened within the source is merged
// into one entry. Only public methods are reported. Syntax errors do
// not fail extraction; tree-sitter recovers and whatever declarations
// it finds are returned.
func (p *Parser) Extract(ctx context.Context, src loader.Source) ([]symtab.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract canceled before start: %w", err)
	}
	if len(src.Content) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, src.Path, len(src.Content), p.maxFileSize)
	}
	if !utf8.Valid(src.Content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidContent, src.Path)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	e := &extractor{
		content:  src.Content,
		file:     src.Path,
		builders: make(map[string]*builder),
	}
	e.walkBody(root, &frame{visibility: public})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract canceled: %w", err)
	}
	return e.classes(), nil
}
