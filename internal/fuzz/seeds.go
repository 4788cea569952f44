package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"8 - 3 - 2",
	"2 + 3 * 4",
	"(2 + 3) * 4",
	"a : int = 10",
	"x\ny\n",
	"\"Hello, \" + \"World!\"",
	"f :: fn",
	"if x",
	"1 + 2 3",
	"1 +",
	"((((1))))",
	"99999999999999999999",
	"\"unterminated",
	"a : int = \"s\" * (b - 1) / c\n\n  d",
	"név : típus = 1",
	"@",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.em file under the repository testdata dir.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".em" {
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
	return append([]byte(nil), src[:min(len(src), maxSeedBytes)]...)
}
