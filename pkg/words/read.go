package words

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Supported input formats, keyed by file extension.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatTOML = "toml"
	FormatText = "txt"
)

// ReadFile loads entries from path, picking the decoder from its extension.
// The result is normalized and validated.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Read(f, format)
}

// Read decodes entries in the given format, then normalizes and validates them.
func Read(r io.Reader, format string) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatJSON:
		entries, err = ReadJSON(r)
	case FormatCSV:
		entries, err = ReadCSV(r)
	case FormatTOML:
		entries, err = ReadTOML(r)
	case FormatText, "text", "md":
		entries, err = ReadText(r, TextOptions{})
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported word list format %q (json, csv, toml, txt)", format)
	}
	if err != nil {
		return nil, err
	}
	entries = Normalize(entries)
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadJSON decodes a JSON array of entries.
func ReadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON word list")
	}
	return entries, nil
}

// WriteJSON encodes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// tomlDocument is the layout of a TOML word list:
//
//	[[word]]
//	word = "cloud"
//	size = 12
type tomlDocument struct {
	Words []Entry `toml:"word"`
}

// ReadTOML decodes a TOML document made of [[word]] tables.
func ReadTOML(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML word list")
	}
	return doc.Words, nil
}

// ReadCSV decodes a CSV file with a header row. Recognized columns are word,
// size, color_value, angle, color and tag; word and size are required and
// unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"word", "size"} {
		if _, ok := cols[req]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV header missing %q column", req)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV line %d", line)
		}
		e, err := csvEntry(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func csvEntry(rec []string, cols map[string]int) (Entry, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	number := func(name string) (float64, error) {
		s := field(name)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid %s %q", name, s)
		}
		return v, nil
	}

	e := Entry{Word: field("word"), Tag: field("tag")}
	var err error
	if e.SizeValue, err = number("size"); err != nil {
		return e, err
	}
	if e.ColorValue, err = number("color_value"); err != nil {
		return e, err
	}
	if e.Angle, err = number("angle"); err != nil {
		return e, err
	}
	if e.Color, err = ParseHex(field("color")); err != nil {
		return e, err
	}
	return e, nil
}

// TextOptions controls how plain text is turned into entries.
type TextOptions struct {
	// MinLength drops words with fewer runes. Default 3.
	MinLength int

	// Stopwords are dropped after case folding.
	Stopwords []string
}

// ReadText counts word frequencies in free text. Words are split on anything
// that is not a letter, digit, apostrophe or hyphen, and case-folded. Each
// distinct word becomes one entry with SizeValue and ColorValue set to its
// count. Entries are ordered by descending count, then alphabetically.
func ReadText(r io.Reader, opts TextOptions) ([]Entry, error) {
	if opts.MinLength <= 0 {
		opts.MinLength = 3
	}
	fold := cases.Fold()
	stop := make(map[string]bool, len(opts.Stopwords))
	for _, s := range opts.Stopwords {
		stop[fold.String(s)] = true
	}

	counts := make(map[string]int)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.FieldsFunc(sc.Text(), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
		})
		for _, f := range fields {
			w := strings.Trim(fold.String(f), "'-")
			if len([]rune(w)) < opts.MinLength || stop[w] {
				continue
			}
			counts[w]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(counts))
	for w, n := range counts {
		entries = append(entries, Entry{Word: w, SizeValue: float64(n), ColorValue: float64(n)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SizeValue != entries[j].SizeValue {
			return entries[i].SizeValue > entries[j].SizeValue
		}
		return entries[i].Word < entries[j].Word
	})
	return entries, nil
}
