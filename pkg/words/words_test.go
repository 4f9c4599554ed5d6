package words

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Hex
		wantErr bool
	}{
		{"#ff8000", Hex{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, false},
		{"ff8000", Hex{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, false},
		{"#f80", Hex{R: 0xff, G: 0x88, B: 0x00, A: 0xff}, false},
		{"#11223344", Hex{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, false},
		{"", Hex{}, false},
		{"#12345", Hex{}, true},
		{"#gggggg", Hex{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseHex(%q) error code = %v", tt.in, errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexString(t *testing.T) {
	if s := (Hex{R: 1, G: 2, B: 3, A: 0xff}).String(); s != "#010203" {
		t.Errorf("opaque String() = %q", s)
	}
	if s := (Hex{R: 1, G: 2, B: 3, A: 0x80}).String(); s != "#01020380" {
		t.Errorf("translucent String() = %q", s)
	}
	if s := (Hex{}).String(); s != "" {
		t.Errorf("zero String() = %q", s)
	}
}

func TestEntryJSONOmitsUnsetColor(t *testing.T) {
	data, err := json.Marshal(Entry{Word: "go", SizeValue: 3})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "color\"") {
		t.Errorf("unset color should be omitted: %s", data)
	}

	data, err = json.Marshal(Entry{Word: "go", SizeValue: 3, Color: MustHex("#336699")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"color":"#336699"`) {
		t.Errorf("color should be encoded as hex: %s", data)
	}
}

func TestNormalize(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	in := []Entry{{Word: "  cafe\u0301 "}, {Word: "plain"}}
	out := Normalize(in)

	if out[0].Word != "caf\u00e9" {
		t.Errorf("Normalize()[0] = %q, want composed form", out[0].Word)
	}
	if in[0].Word != "  cafe\u0301 " {
		t.Error("Normalize must not modify its input")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]Entry{{Word: "ok", SizeValue: 1}, {Word: "", SizeValue: 2}}); err != nil {
		t.Errorf("valid entries rejected: %v", err)
	}
	if err := Validate([]Entry{{Word: "bad\x07", SizeValue: 1}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("control character accepted: %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	in := `word,size,color_value,angle,color,tag,extra
golang,10,3,45,#00add8,lang,x
rust,7,,,,
`
	entries, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	want := Entry{Word: "golang", SizeValue: 10, ColorValue: 3, Angle: 45, Color: MustHex("#00add8"), Tag: "lang"}
	if entries[0] != want {
		t.Errorf("entries[0] = %+v, want %+v", entries[0], want)
	}
	if entries[1].Word != "rust" || entries[1].SizeValue != 7 || !entries[1].Color.IsZero() {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing size column", "word,angle\ngo,1\n"},
		{"bad number", "word,size\ngo,lots\n"},
		{"bad color", "word,size,color\ngo,1,#zz\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadCSV() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadTOML(t *testing.T) {
	in := `
[[word]]
word = "cloud"
size = 12.5
color = "#ff0000"

[[word]]
word = "rain"
size = 4
angle = -30
`
	entries, err := ReadTOML(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTOML() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Word != "cloud" || entries[0].SizeValue != 12.5 || entries[0].Color != MustHex("#ff0000") {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Angle != -30 {
		t.Errorf("entries[1].Angle = %v, want -30", entries[1].Angle)
	}
}

func TestReadText(t *testing.T) {
	in := "The cloud, the CLOUD and the rain.\nRain again; cloud's edge is a cloud."
	entries, err := ReadText(strings.NewReader(in), TextOptions{Stopwords: []string{"the", "and"}})
	if err != nil {
		t.Fatalf("ReadText() error: %v", err)
	}

	got := make(map[string]float64)
	for _, e := range entries {
		got[e.Word] = e.SizeValue
	}
	if got["cloud"] != 3 {
		t.Errorf("cloud count = %v, want 3", got["cloud"])
	}
	if got["rain"] != 2 {
		t.Errorf("rain count = %v, want 2", got["rain"])
	}
	if _, ok := got["the"]; ok {
		t.Error("stopword should be dropped")
	}
	if _, ok := got["is"]; ok {
		t.Error("short words should be dropped")
	}
	if entries[0].Word != "cloud" {
		t.Errorf("entries should be ordered by count, first = %q", entries[0].Word)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []Entry{{Word: " go ", SizeValue: 2}, {Word: "zig", SizeValue: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(entries) != 2 || entries[0].Word != "go" {
		t.Errorf("ReadFile() = %+v", entries)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Read(strings.NewReader(""), "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v, want INVALID_FORMAT", err)
	}
}
