// Package python is the frontend/parser adapter: it turns source bytes
// into the arena-based internal/ast.Module and internal/token.Stream the
// core treats as pure inputs. Parsing itself is explicitly out of the
// analyzer's core, so this package is the one place tree-sitter appears
// in the module.
//
// smacker/go-tree-sitter plus the tree-sitter Python grammar are wrapped
// behind a small Parse(source) function, translating tree-sitter's node
// tree into internal/ast.Module/internal/token.Stream.
package python

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/lintcoreerr"
	"github.com/oxhq/lintcore/internal/token"
)

// ParseResult bundles the parsed AST, the lexeme stream, and any syntax
// errors tree-sitter's error-recovery surfaced as ERROR/MISSING nodes.
type ParseResult struct {
	Module *ast.Module
	Tokens *token.Stream
	Errors []diag.Diagnostic // E999 syntax-error diagnostics
}

// Parse translates Python source into the core's input types.
func Parse(path string, src []byte) (*ParseResult, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, lintcoreerr.Parse(path, err.Error())
	}
	defer tree.Close()

	t := &translator{src: src, mod: &ast.Module{}}
	root := tree.RootNode()
	t.collectErrors(root)
	t.collectTokens(root)

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if si, ok := t.translateStmt(child); ok {
			t.mod.Body = append(t.mod.Body, si)
		}
	}

	return &ParseResult{Module: t.mod, Tokens: &token.Stream{Tokens: t.tokens}, Errors: t.errors}, nil
}

type translator struct {
	src    []byte
	mod    *ast.Module
	tokens []token.Token
	errors []diag.Diagnostic
}

func nodeRange(n *sitter.Node) ast.Range {
	return ast.Range{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (t *translator) text(n *sitter.Node) string {
	return string(t.src[n.StartByte():n.EndByte()])
}

// collectErrors walks the tree once, emitting an E999 diagnostic for every
// ERROR or MISSING node tree-sitter's error recovery produced.
func (t *translator) collectErrors(n *sitter.Node) {
	if n.IsError() || n.IsMissing() {
		t.errors = append(t.errors, diag.Diagnostic{
			RuleCode: "E999",
			Message:  "SyntaxError: invalid syntax",
			Range:    nodeRange(n),
		})
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		t.collectErrors(n.Child(i))
	}
}

// collectTokens extracts a simplified lexeme stream: comments (tree-sitter
// exposes these as named nodes) plus leaf (childless) named nodes as
// NAME/STRING/NUMBER/OP approximations, sufficient for the srcindex
// comment-range and noqa extraction this engine relies on — a full
// tokenizer is unnecessary since the core treats tokens only as an
// auxiliary input alongside the AST.
func (t *translator) collectTokens(n *sitter.Node) {
	if n.Type() == "comment" {
		t.tokens = append(t.tokens, token.Token{Kind: token.COMMENT, Range: nodeRange(n), Text: t.text(n)})
	}
	if n.ChildCount() == 0 && n.Type() != "comment" {
		kind := token.OP
		switch n.Type() {
		case "identifier":
			kind = token.NAME
		case "string", "string_content":
			kind = token.STRING
		case "integer", "float":
			kind = token.NUMBER
		}
		t.tokens = append(t.tokens, token.Token{Kind: kind, Range: nodeRange(n), Text: t.text(n)})
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		t.collectTokens(n.Child(i))
	}
}
