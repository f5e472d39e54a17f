package format

import (
	"strings"
	"testing"

	"white/internal/source"
)

func TestLineLength(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		in    string
		want  source.Lines
	}{
		{
			name:  "short line",
			limit: 80,
			in:    "def f(a, b):\n",
			want:  source.Lines{"def f(a, b):\n"},
		},
		{
			name:  "definition joined parameters",
			limit: 80,
			in:    "def function_with_a_rather_long_name(first_argument, second_argument, third_arg):\n",
			want: source.Lines{
				"def function_with_a_rather_long_name(\n",
				"    first_argument, second_argument, third_arg\n",
				"):\n",
			},
		},
		{
			name:  "definition one parameter per line",
			limit: 80,
			in:    "    def method_with_quite_a_long_name(self, first_parameter_name, second_parameter_name, third_parameter_name, fourth):\n",
			want: source.Lines{
				"    def method_with_quite_a_long_name(\n",
				"        self,\n",
				"        first_parameter_name,\n",
				"        second_parameter_name,\n",
				"        third_parameter_name,\n",
				"        fourth,\n",
				"    ):\n",
			},
		},
		{
			name:  "definition with annotations",
			limit: 80,
			in:    "def typed(first_argument: int, second_argument: str = \"a, b\") -> Dict[str, int]:\n",
			want: source.Lines{
				"def typed(\n",
				"    first_argument: int, second_argument: str = \"a, b\"\n",
				") -> Dict[str, int]:\n",
			},
		},
		{
			name:  "string comma is not a separator",
			limit: 40,
			in:    "def typed(first_argument: int, second_argument: str = \"a, b\") -> Dict[str, int]:\n",
			want: source.Lines{
				"def typed(\n",
				"    first_argument: int,\n",
				"    second_argument: str = \"a, b\",\n",
				") -> Dict[str, int]:\n",
			},
		},
		{
			name:  "call",
			limit: 80,
			in:    "result = some_module.compute_the_thing(first_value, second_value, third_value_x)\n",
			want: source.Lines{
				"result = some_module.compute_the_thing(\n",
				"    first_value, second_value, third_value_x\n",
				")\n",
			},
		},
		{
			name:  "nested call uses outer parenthesis",
			limit: 80,
			in:    "    value = outer_call(inner_call(alpha, beta), gamma, delta, epsilon, zeta_eta)\n",
			want: source.Lines{
				"    value = outer_call(\n",
				"        inner_call(alpha, beta), gamma, delta, epsilon, zeta_eta\n",
				"    )\n",
			},
		},
		{
			name:  "call without terminator",
			limit: 80,
			in:    "result = some_module.compute_the_thing(first_value, second_value, third_value_x)",
			want: source.Lines{
				"result = some_module.compute_the_thing(\n",
				"    first_value, second_value, third_value_x\n",
				")",
			},
		},
		{
			name:  "comment left alone",
			limit: 80,
			in:    "x = 1  # " + strings.Repeat("a", 80) + "\n",
			want:  source.Lines{"x = 1  # " + strings.Repeat("a", 80) + "\n"},
		},
		{
			name:  "parenthesis in string ignored",
			limit: 40,
			in:    "message = \"this is (not) a call at all, really\"\n",
			want:  source.Lines{"message = \"this is (not) a call at all, really\"\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineLength{Limit: tt.limit}.Format(source.Lines{tt.in})
			if !got.Equal(tt.want) {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineLengthKeepsCRLF(t *testing.T) {
	in := "def function_with_a_rather_long_name(first_argument, second_argument, third_arg):\r\n"
	got := LineLength{Limit: 80}.Format(source.Lines{in})
	for i, line := range got {
		if !strings.HasSuffix(line, "\r\n") {
			t.Errorf("line %d = %q, want CRLF terminator", i, line)
		}
	}
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
}

func TestLineLengthWrappedLinesFit(t *testing.T) {
	src := source.Lines{
		"def function_with_a_rather_long_name(first_argument, second_argument, third_arg):\n",
		"    return first_argument\n",
		"result = some_module.compute_the_thing(first_value, second_value, third_value_x)\n",
	}
	got := LineLength{Limit: 80}.Format(src)
	if over := Overlong(got, 80); len(over) != 0 {
		t.Errorf("Overlong after wrap = %v, lines %q", over, got)
	}
	again := LineLength{Limit: 80}.Format(got)
	if !again.Equal(got) {
		t.Errorf("not idempotent: %q", again)
	}
}

func TestLineLengthDisabled(t *testing.T) {
	src := source.Lines{strings.Repeat("x", 200) + "\n"}
	got := LineLength{}.Format(src)
	if &got[0] != &src[0] {
		t.Error("zero limit should leave the buffer alone")
	}
}

func TestOverlong(t *testing.T) {
	lines := source.Lines{
		strings.Repeat("a", 79) + "\n",
		strings.Repeat("a", 80) + "\n",
		"short\n",
		strings.Repeat("é", 80),
	}
	got := Overlong(lines, 80)
	want := []int{2, 4}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Overlong = %v, want %v", got, want)
	}
	if Overlong(lines, 0) != nil {
		t.Error("Overlong with limit 0 should be nil")
	}
}
