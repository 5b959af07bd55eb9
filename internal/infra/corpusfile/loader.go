package corpusfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dotazy/faqbot/internal/domain/corpus"
)

// Load reads the ordered question/answer records from a JSON file.
//
// A missing or malformed file is reported alongside an empty corpus so
// the service can keep running in always-fallback mode; the caller is
// expected to log the error, not abort.
func Load(path string) (*corpus.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return corpus.New(nil), fmt.Errorf("read corpus file: %w", err)
	}

	var entries []corpus.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return corpus.New(nil), fmt.Errorf("parse corpus file: %w", err)
	}

	return corpus.New(entries), nil
}
