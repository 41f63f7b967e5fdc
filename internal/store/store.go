// Package store writes run artifacts and reads box-score corpora.
package store

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/ppiankov/kampsync/internal/model"
)

const (
	FixturesFile = "fixtures.json"
	ResultsFile  = "results.json"
	MatchesFile  = "matches.json"
	PlayersFile  = "players.json"
)

// Writer writes JSON artifacts below a root directory.
// Every file is written to a temp file in the same directory and renamed into place.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Path joins elem below the root
func (w *Writer) Path(elem ...string) string {
	return filepath.Join(append([]string{w.root}, elem...)...)
}

// WriteJSON marshals v with indentation and writes it atomically to root/rel
func (w *Writer) WriteJSON(rel string, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", rel)
	}
	data = append(data, '\n')

	return writeAtomic(w.Path(rel), data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "rename into %s", path)
	}
	return nil
}

// ReadBoxScores loads a box-score corpus: a JSON array of matches with per-side player entries
func ReadBoxScores(path string) ([]model.MatchBoxScore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read box scores %s", path)
	}

	var matches []model.MatchBoxScore
	if err := sonic.ConfigStd.Unmarshal(data, &matches); err != nil {
		return nil, errors.Wrapf(err, "decode box scores %s", path)
	}
	return matches, nil
}
