// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatList(t *testing.T) {
	list := List{
		{RGB: RGB{R: 84, G: 33, B: 35}, Weight: 0.182},
		{RGB: RGB{R: 171, G: 162, B: 157}, Weight: 0.215},
	}

	got := FormatList(list)
	want := "[\n" +
		"    ([171, 162, 157], 0.2150),\n" +
		"    ([84, 33, 35], 0.1820),\n" +
		"]"

	if got != want {
		t.Errorf("FormatList() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseListRoundTrip(t *testing.T) {
	list := List{
		{RGB: RGB{R: 171, G: 162, B: 157}, Weight: 0.6},
		{RGB: RGB{R: 84, G: 33, B: 35}, Weight: 0.4},
	}

	parsed, err := ParseList(strings.NewReader(FormatList(list)))
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}

	if len(parsed) != len(list) {
		t.Fatalf("parsed %d entries, want %d", len(parsed), len(list))
	}
	for i := range list {
		if parsed[i].RGB != list[i].RGB {
			t.Errorf("entry %d: colour %v, want %v", i, parsed[i].RGB, list[i].RGB)
		}
		if parsed[i].Weight != list[i].Weight {
			t.Errorf("entry %d: weight %f, want %f", i, parsed[i].Weight, list[i].Weight)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "bracketed entries",
			input: "[\n    ([255, 0, 0], 0.7500),\n    ([0, 0, 255], 0.2500),\n]",
			want:  2,
		},
		{
			name:  "bare entries",
			input: "255 0 0 0.75\n0 0 255 0.25\n",
			want:  2,
		},
		{
			name:  "mixed forms and blank lines",
			input: "[\n\n    ([10, 20, 30], 0.5000),\n40 50 60 0.5\n]\n",
			want:  2,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "brackets only",
			input:   "[\n]\n",
			wantErr: true,
		},
		{
			name:    "missing weight",
			input:   "255 0 0\n",
			wantErr: true,
		},
		{
			name:    "channel out of range",
			input:   "256 0 0 1.0\n",
			wantErr: true,
		},
		{
			name:    "negative channel",
			input:   "-1 0 0 1.0\n",
			wantErr: true,
		},
		{
			name:    "weight out of range",
			input:   "10 10 10 1.5\n",
			wantErr: true,
		},
		{
			name:    "non-numeric channel",
			input:   "red 0 0 1.0\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseList(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if len(got) != tt.want {
				t.Errorf("ParseList() returned %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseListReportsLineNumber(t *testing.T) {
	input := "255 0 0 0.5\nbogus line here\n"
	_, err := ParseList(strings.NewReader(input))
	if err == nil {
		t.Fatal("ParseList() should fail on malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{name: "with hash", input: "#1a2b3c", want: RGB{R: 26, G: 43, B: 60}},
		{name: "without hash", input: "ff8000", want: RGB{R: 255, G: 128, B: 0}},
		{name: "surrounding space", input: "  #ffffff ", want: RGB{R: 255, G: 255, B: 255}},
		{name: "too short", input: "#fff", wantErr: true},
		{name: "not hex", input: "#zzzzzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
