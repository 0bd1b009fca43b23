package pgmt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadedScript is a single .sql file read from disk: its normalized
// content plus enough identity to classify and report on it.
type LoadedScript struct {
	Content  string
	FileName string
	FilePath string
}

// Load walks each of dirs (non-recursively) and reads every regular
// file whose extension, case-insensitive, is .sql. A directory that
// doesn't exist or isn't a directory contributes no entries and is not
// an error; a directory or file that can't be read is fatal.
func Load(dirs []string) ([]LoadedScript, error) {
	var out []LoadedScript
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list migration directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.EqualFold(filepath.Ext(name), ".sql") {
				continue
			}

			path := filepath.Join(dir, name)
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read migration file %s: %w", path, err)
			}

			out = append(out, LoadedScript{
				Content:  normalizeLineEndings(string(content)),
				FileName: name,
				FilePath: path,
			})
		}
	}
	return out, nil
}

func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
