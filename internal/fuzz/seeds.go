package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"\n",
	"x = 1   \n",
	"\tif x:\n\t\treturn 'a\tb'\n",
	"s = \"unterminated\tstring\n",
	"foo()\nimport os\nfrom sys import argv\nbar()\n",
	"import os, sys  # both\r\n",
	"from x import (a, b)\n",
	"from x import (\n    a,\n)\n",
	"def function_with_a_rather_long_name(first_argument, second_argument, third_arg):\n    pass\n",
	"result = some_module.compute_the_thing(first_value, second_value, third_value_x)",
	"\xEF\xBB\xBFprint('bom')\n",
	"a\rb\r\n\r",
	"def f(((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((((",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.py файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
