package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"white/internal/source"
)

func TestPipelineGolden(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "fmt")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read golden dir: %v", err)
	}

	p := NewPipeline(Options{LineLength: 80})
	seen := 0
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".py") {
			continue
		}
		name := strings.TrimSuffix(ent.Name(), ".py")
		seen++
		t.Run(name, func(t *testing.T) {
			in, err := os.ReadFile(filepath.Join(dir, name+".py"))
			if err != nil {
				t.Fatalf("read %s.py: %v", name, err)
			}
			want, err := os.ReadFile(filepath.Join(dir, name+".out"))
			if err != nil {
				t.Fatalf("read %s.out: %v", name, err)
			}

			got := p.Apply(source.SplitLines(in))
			if got.Join() != string(want) {
				t.Fatalf("output mismatch:\nwant:\n%q\n\ngot:\n%q", want, got.Join())
			}
			if again := p.Apply(got); !again.Equal(got) {
				t.Errorf("second pass changed output:\n%q", again.Join())
			}
		})
	}
	if seen == 0 {
		t.Fatal("no golden inputs found")
	}
}
