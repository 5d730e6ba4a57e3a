package generator

import (
	"strings"
	"testing"
)

func TestEnsureClosing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already canonical",
			in:   "Hoy aprendimos mucho.\n\nNos vemos en la próxima lección.",
			want: "Hoy aprendimos mucho.\n\nNos vemos en la próxima lección.",
		},
		{
			name: "trailing whitespace trimmed",
			in:   "Nos vemos en la próxima lección.\n\n  ",
			want: "Nos vemos en la próxima lección.",
		},
		{
			name: "variant rewritten",
			in:   "Eso es todo por hoy. ¡Nos vemos en la siguiente clase!",
			want: "Eso es todo por hoy.\n\nNos vemos en la próxima lección.",
		},
		{
			name: "variant without accent rewritten",
			in:   "Gracias por escuchar. Nos vemos en la proxima leccion",
			want: "Gracias por escuchar.\n\nNos vemos en la próxima lección.",
		},
		{
			name: "missing sentence appended",
			in:   "El guion termina de forma abrupta.",
			want: "El guion termina de forma abrupta.\n\nNos vemos en la próxima lección.",
		},
		{
			name: "empty script",
			in:   "",
			want: "Nos vemos en la próxima lección.",
		},
		{
			name: "variant is whole script",
			in:   "¡Nos vemos en la próxima lección!",
			want: "Nos vemos en la próxima lección.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureClosing(tt.in)
			if got != tt.want {
				t.Errorf("EnsureClosing(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !strings.HasSuffix(got, ClosingSentence) {
				t.Errorf("result does not end with the closing sentence: %q", got)
			}
		})
	}
}

func TestOutlineRendering(t *testing.T) {
	idx := TopicIndex{
		Title:        "Presupuesto mensual",
		Introduction: "Por qué importa un presupuesto.",
		Sections: []IndexSection{
			{Title: "Ingresos", Subsections: []string{"Nómina", "Otros"}},
			{Title: "Gastos"},
		},
		Conclusion:        "Resumen de la lección.",
		EstimatedDuration: "15 minutos",
		KeyTerms:          []string{"ingreso", "gasto"},
	}

	out := idx.Outline()

	for _, want := range []string{
		"# Presupuesto mensual",
		"## 1. Ingresos",
		"- 1.1 Nómina",
		"- 1.2 Otros",
		"## 2. Gastos",
		"## Conclusión",
		"Términos clave: ingreso, gasto",
		"Duración estimada: 15 minutos",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("outline must end with a newline")
	}
}
