package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/kit/htmlutil"
)

// redirectScript sends the browser from the root page to the language root
// matching its first preferred language. The rule matches
// content.DetectLanguage.
func redirectScript(base basepath.Path) string {
	target, _ := json.Marshal(base.String())
	return strings.Join([]string{
		"(() => {",
		"  const preferred = (navigator.languages && navigator.languages[0]) || navigator.language || 'en';",
		"  const lang = String(preferred).toLowerCase().startsWith('ru') ? 'ru' : 'en';",
		"  const target = " + string(target) + " + lang + '/';",
		"  if (location.pathname !== target) {",
		"    location.replace(target);",
		"  }",
		"})();",
	}, "")
}

// RootLanguageRedirect returns the inline <script> for the root route.
func RootLanguageRedirect(base basepath.Path) string {
	return "<script>" + redirectScript(base) + "</script>"
}

// BootstrapScript is RootLanguageRedirect checked by a JS parser and, when
// minify is set, minified.
func BootstrapScript(base basepath.Path, minify bool) (string, error) {
	code := redirectScript(base)
	if err := ValidateScript(code); err != nil {
		return "", err
	}
	if minify {
		var err error
		if code, err = MinifyScript(code); err != nil {
			return "", err
		}
	}
	el, err := htmlutil.RenderElement(htmlutil.InlineScript(code))
	if err != nil {
		return "", err
	}
	return string(el), nil
}

func ValidateScript(code string) error {
	if _, err := js.Parse(parse.NewInputString(code), js.Options{}); err != nil {
		return fmt.Errorf("parse inline script: %w", err)
	}
	return nil
}

func MinifyScript(code string) (string, error) {
	result := esbuild.Transform(code, esbuild.TransformOptions{
		Loader:            esbuild.LoaderJS,
		Target:            esbuild.ES2017,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			msgs = append(msgs, msg.Text)
		}
		return "", errors.New("esbuild transform failed: " + strings.Join(msgs, "; "))
	}
	return strings.TrimSpace(string(result.Code)), nil
}
