package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type indexShape struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    indexShape
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"title": "Intro", "sections": ["a", "b"]}`,
			want:    indexShape{Title: "Intro", Sections: []string{"a", "b"}},
		},
		{
			name:    "json fence",
			content: "```json\n{\"title\": \"Intro\", \"sections\": [\"a\"]}\n```",
			want:    indexShape{Title: "Intro", Sections: []string{"a"}},
		},
		{
			name:    "bare fence",
			content: "```\n{\"title\": \"Intro\", \"sections\": []}\n```",
			want:    indexShape{Title: "Intro", Sections: []string{}},
		},
		{
			name:    "fence with prose around",
			content: "Aquí tienes el índice:\n```json\n{\"title\": \"Intro\", \"sections\": []}\n```\nEspero que sirva.",
			want:    indexShape{Title: "Intro", Sections: []string{}},
		},
		{
			name:    "trailing comma in array",
			content: `{"title": "Intro", "sections": ["a", "b",]}`,
			want:    indexShape{Title: "Intro", Sections: []string{"a", "b"}},
		},
		{
			name:    "trailing comma in object",
			content: `{"title": "Intro", "sections": [],}`,
			want:    indexShape{Title: "Intro", Sections: []string{}},
		},
		{
			name:    "not json at all",
			content: "lo siento, no puedo generar eso",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON[indexShape](tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrDecode) {
					t.Errorf("error = %v, want ErrDecode", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if got.Title != tt.want.Title || strings.Join(got.Sections, ",") != strings.Join(tt.want.Sections, ",") {
				t.Errorf("DecodeJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type staticGenerator struct {
	text string
	err  error
}

func (s staticGenerator) GenerateText(context.Context, string, string, Options) (string, error) {
	return s.text, s.err
}

func TestGenerateStructured(t *testing.T) {
	t.Run("decodes response", func(t *testing.T) {
		g := staticGenerator{text: `{"title": "Ok", "sections": []}`}
		got, err := GenerateStructured[indexShape](context.Background(), g, "sys", "user", Options{})
		if err != nil {
			t.Fatalf("GenerateStructured() error = %v", err)
		}
		if got.Title != "Ok" {
			t.Errorf("Title = %q", got.Title)
		}
	})

	t.Run("propagates generation error", func(t *testing.T) {
		genErr := errors.New("boom")
		g := staticGenerator{err: genErr}
		_, err := GenerateStructured[indexShape](context.Background(), g, "sys", "user", Options{})
		if !errors.Is(err, genErr) {
			t.Errorf("error = %v, want %v", err, genErr)
		}
	})

	t.Run("reports decode failure", func(t *testing.T) {
		g := staticGenerator{text: "no es JSON"}
		_, err := GenerateStructured[indexShape](context.Background(), g, "sys", "user", Options{})
		if !errors.Is(err, ErrDecode) {
			t.Errorf("error = %v, want ErrDecode", err)
		}
	})
}
