package groupstatus

import "testing"

func TestFormulaDependencies(t *testing.T) {
	cases := []struct {
		name    string
		formula string
		want    []string
	}{
		{"none", "1 + 2", nil},
		{"single", "[Rate] * 2", []string{"Rate"}},
		{"multiple", "([Rate] - [Target]) / [Target]", []string{"Rate", "Target"}},
		{"unclosed", "[Rate] + [Broken", []string{"Rate"}},
		{"empty token", "[] + [Rate]", []string{"Rate"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormulaDependencies(tc.formula)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestEvaluateFormula(t *testing.T) {
	values := map[string]float64{
		"Rate":   120,
		"Target": 100,
	}
	resolve := func(name string) (float64, bool) {
		v, ok := values[name]
		return v, ok
	}

	cases := []struct {
		name    string
		formula string
		want    float64
		wantErr bool
	}{
		{"plain arithmetic", "2 + 3 * 4", 14, false},
		{"parentheses", "(2 + 3) * 4", 20, false},
		{"column refs", "[Rate] - [Target]", 20, false},
		{"ratio", "([Rate] - [Target]) / [Target]", 0.2, false},
		{"unary minus", "-[Target] + 110", 10, false},
		{"unresolved", "[Missing] + 1", 0, true},
		{"divide by zero", "1 / 0", 0, true},
		{"garbage", "1 + ", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateFormula(tc.formula, resolve)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
