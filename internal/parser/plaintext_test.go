package parser

import "testing"

func TestMarkdownToPlain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading becomes uppercase",
			in:   "## Conceptos clave\ntexto",
			want: "CONCEPTOS CLAVE\ntexto\n",
		},
		{
			name: "emphasis stripped",
			in:   "esto es **importante** y esto _sutil_ y esto `código`",
			want: "esto es importante y esto sutil y esto código\n",
		},
		{
			name: "bullets normalized",
			in:   "* uno\n+ dos\n• tres",
			want: "- uno\n- dos\n- tres\n",
		},
		{
			name: "horizontal rule removed",
			in:   "arriba\n---\nabajo",
			want: "arriba\nabajo\n",
		},
		{
			name: "fence markers removed, content kept",
			in:   "```go\nfmt.Println(\"hola\")\n```",
			want: "fmt.Println(\"hola\")\n",
		},
		{
			name: "blank runs collapse",
			in:   "uno\n\n\n\n\ndos",
			want: "uno\n\ndos\n",
		},
		{
			name: "decorative symbols removed",
			in:   "🚀 despegue inmediato",
			want: "despegue inmediato\n",
		},
		{
			name: "trailing newline always present",
			in:   "línea única",
			want: "línea única\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToPlain(tt.in); got != tt.want {
				t.Errorf("MarkdownToPlain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
