package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// StdinPath selects standard input as the word list source.
const StdinPath = "-"

// LoadEntries reads a word list from path. The format defaults to the file
// extension; standard input defaults to plain text. Plain text input is
// turned into word counts using opts.
func LoadEntries(path, format string, opts words.TextOptions) ([]words.Entry, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input given")
	}
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if path == StdinPath {
		if format == "" {
			format = words.FormatText
		}
		return readEntries(os.Stdin, format, opts)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readEntries(f, format, opts)
}

func readEntries(r io.Reader, format string, opts words.TextOptions) ([]words.Entry, error) {
	if format != words.FormatText && format != "text" && format != "md" {
		return words.Read(r, format)
	}
	entries, err := words.ReadText(r, opts)
	if err != nil {
		return nil, err
	}
	entries = words.Normalize(entries)
	if err := words.Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
