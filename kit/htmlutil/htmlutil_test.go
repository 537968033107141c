package htmlutil

import "testing"

func TestRenderElement(t *testing.T) {
	tests := []struct {
		name string
		el   *Element
		want string
	}{
		{
			name: "stylesheet link",
			el:   StylesheetLink("/assets/app-1a2b.css"),
			want: `<link href="/assets/app-1a2b.css" rel="stylesheet">`,
		},
		{
			name: "escaped text",
			el:   Title(`Docs & "more"`),
			want: `<title>Docs &amp; &#34;more&#34;</title>`,
		},
		{
			name: "escaped attributes",
			el:   MetaNameContent("description", `a "quoted" <b>`),
			want: `<meta content="a &#34;quoted&#34; &lt;b&gt;" name="description">`,
		},
		{
			name: "inline script is not escaped",
			el:   InlineScript(`if (a < b) {}`),
			want: `<script>if (a < b) {}</script>`,
		},
		{
			name: "boolean attributes",
			el:   &Element{Tag: "script", AttributesKnownSafe: map[string]string{"src": "/x.js"}, BooleanAttributes: []string{"defer"}},
			want: `<script src="/x.js" defer></script>`,
		},
		{
			name: "self closing non-void",
			el:   &Element{Tag: "path", SelfClosing: true},
			want: `<path />`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderElement(tt.el)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderElementNoTag(t *testing.T) {
	if _, err := RenderElement(&Element{}); err == nil {
		t.Error("expected error for element without tag")
	}
}

func TestRenderElements(t *testing.T) {
	got, err := RenderElements(StylesheetLink("/a.css"), StylesheetLink("/b.css"))
	if err != nil {
		t.Fatal(err)
	}
	want := `<link href="/a.css" rel="stylesheet"><link href="/b.css" rel="stylesheet">`
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
