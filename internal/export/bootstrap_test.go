package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/internal/content"
)

// languageRule is the language choice encoded in the redirect script,
// recovered from its syntax tree.
type languageRule struct {
	fallback   string
	lowercases bool
	prefix     string
	match      string
	otherwise  string
}

func (r languageRule) pick(preferred string) string {
	if preferred == "" {
		preferred = r.fallback
	}
	if r.lowercases {
		preferred = strings.ToLower(preferred)
	}
	if strings.HasPrefix(preferred, r.prefix) {
		return r.match
	}
	return r.otherwise
}

type ruleVisitor struct {
	rule  languageRule
	found int
}

func stringLiteral(e js.IExpr) (string, bool) {
	lit, ok := e.(*js.LiteralExpr)
	if !ok || lit.TokenType != js.StringToken {
		return "", false
	}
	return strings.Trim(string(lit.Data), `'"`), true
}

// method reports the called method name and receiver of a call like x.m(args).
func method(e js.IExpr) (string, js.IExpr, *js.CallExpr) {
	call, ok := e.(*js.CallExpr)
	if !ok {
		return "", nil, nil
	}
	dot, ok := call.X.(*js.DotExpr)
	if !ok {
		return "", nil, nil
	}
	return string(dot.Y.Data), dot.X, call
}

func (v *ruleVisitor) Enter(n js.INode) js.IVisitor {
	switch n := n.(type) {
	case *js.BindingElement:
		name, ok := n.Binding.(*js.Var)
		if !ok || string(name.Name()) != "preferred" {
			break
		}
		if or, ok := n.Default.(*js.BinaryExpr); ok && or.Op == js.OrToken {
			if s, ok := stringLiteral(or.Y); ok {
				v.rule.fallback = s
				v.found++
			}
		}
	case *js.CondExpr:
		name, recv, call := method(n.Cond)
		if name != "startsWith" || len(call.Args.List) != 1 {
			break
		}
		prefix, ok1 := stringLiteral(call.Args.List[0].Value)
		match, ok2 := stringLiteral(n.X)
		otherwise, ok3 := stringLiteral(n.Y)
		if !ok1 || !ok2 || !ok3 {
			break
		}
		lower, _, _ := method(recv)
		v.rule.prefix, v.rule.match, v.rule.otherwise = prefix, match, otherwise
		v.rule.lowercases = lower == "toLowerCase"
		v.found++
	}
	return v
}

func (v *ruleVisitor) Exit(js.INode) {}

func scriptLanguageRule(t *testing.T, base basepath.Path) languageRule {
	t.Helper()
	ast, err := js.Parse(parse.NewInputString(redirectScript(base)), js.Options{})
	require.NoError(t, err)

	v := &ruleVisitor{}
	js.Walk(v, ast)
	require.Equal(t, 2, v.found, "redirect script shape changed")
	return v.rule
}

func TestRedirectScriptAgreesWithDetectLanguage(t *testing.T) {
	preferred := []string{
		"", "ru", "RU", "ru-RU", "Ru-by", "russian",
		"en", "en-US", "EN-gb", "de", "uk-UA", "be", "r", "zh-Hans-CN",
	}

	for _, base := range []basepath.Path{basepath.Root, "/docs-site/"} {
		rule := scriptLanguageRule(t, base)
		assert.Equal(t, "en", rule.fallback)
		assert.True(t, rule.lowercases)

		for _, in := range preferred {
			want := string(content.DetectLanguage(in))
			assert.Equal(t, want, rule.pick(in), "preferred %q", in)
		}
	}

	assert.Equal(t, content.English, content.DetectLanguage(""))
	assert.Equal(t, content.Russian, content.DetectLanguage("rU-ua"))
}
