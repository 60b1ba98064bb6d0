package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ohler55/ojg/oj"
)

// Store — JSON-документ на диске.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load читает документ. Числа сохраняют вид: 5 → int64, 5.0 → float64.
func (s *Store) Load() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("'%s' file does not exist: %w", s.path, err)
		}
		return nil, err
	}
	defer f.Close()
	if err := lockFile(f, false); err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer unlockFile(f)

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	v, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to load '%s' file, make sure you wrote correctly: %w", s.path, err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to load '%s' file: top level must be an object", s.path)
	}
	return doc, nil
}

// Save перезаписывает файл: отступ 4 пробела, ключи отсортированы.
func (s *Store) Save(doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := lockFile(f, true); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer unlockFile(f)

	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Write(Encode(doc)); err != nil {
		return err
	}
	return f.Sync()
}

// Encode — формат, в котором документы пишутся на диск и отдаются дашборду.
func Encode(doc any) []byte {
	opts := oj.DefaultOptions
	opts.Indent = 4
	opts.Sort = true
	opts.HTMLUnsafe = true
	return append([]byte(oj.JSON(doc, &opts)), '\n')
}
