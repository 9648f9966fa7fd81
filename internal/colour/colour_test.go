package colour

import (
	"image/color"
	"strings"
	"testing"
)

func TestNormaliseHex(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "uppercase with hash", input: "#FF0000", want: "#FF0000", wantOK: true},
		{name: "lowercase with hash", input: "#ff00aa", want: "#FF00AA", wantOK: true},
		{name: "no hash", input: "1a2b3c", want: "#1A2B3C", wantOK: true},
		{name: "short form", input: "#abc", want: "#AABBCC", wantOK: true},
		{name: "surrounding whitespace", input: "  #00ff00 ", want: "#00FF00", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "too long", input: "#1234567", wantOK: false},
		{name: "non hex digit", input: "#GG0000", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormaliseHex(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("NormaliseHex(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("NormaliseHex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    RGB
		wantErr bool
	}{
		{input: "#FF0000", want: RGB{R: 255}},
		{input: "#00ff00", want: RGB{G: 255}},
		{input: "0000FF", want: RGB{B: 255}},
		{input: "#101010", want: RGB{R: 16, G: 16, B: 16}},
		{input: "#fff", want: RGB{R: 255, G: 255, B: 255}},
		{input: "not-a-colour", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHex(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, rgb := range []RGB{{}, {R: 1, G: 128, B: 254}, {R: 255, G: 255, B: 255}, {R: 0x1a, G: 0x2b, B: 0x3c}} {
		got, err := ParseHex(rgb.Hex())
		if err != nil {
			t.Fatalf("ParseHex(%s): %v", rgb.Hex(), err)
		}
		if got != rgb {
			t.Errorf("round trip of %s = %+v", rgb.Hex(), got)
		}
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{R: 0x1a, G: 0x2b, B: 0x3c}).Hex(); got != "#1A2B3C" {
		t.Errorf("Hex() = %q, want #1A2B3C", got)
	}
}

func TestDistance(t *testing.T) {
	black := RGB{}
	white := RGB{R: 255, G: 255, B: 255}
	grey := RGB{R: 16, G: 16, B: 16}

	if got := DistanceSq(black, grey); got != 3*16*16 {
		t.Errorf("DistanceSq(black, grey) = %d, want %d", got, 3*16*16)
	}
	if DistanceSq(grey, black) >= DistanceSq(grey, white) {
		t.Error("expected #101010 to be closer to black than white")
	}
	if got := Distance(black, black); got != 0 {
		t.Errorf("Distance(black, black) = %f, want 0", got)
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{name: "opaque red", color: color.RGBA{R: 255, A: 255}, want: RGB{R: 255}},
		{name: "nrgba half alpha", color: color.NRGBA{R: 200, G: 100, B: 50, A: 128}, want: RGB{R: 200, G: 100, B: 50}},
		{name: "grey", color: color.Gray{Y: 77}, want: RGB{R: 77, G: 77, B: 77}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBlockWithText(t *testing.T) {
	out := BlockWithText(RGB{}, "A1", 4)
	if !strings.Contains(out, "38;2;255;255;255") {
		t.Errorf("expected white text on black, got %q", out)
	}
	if !strings.Contains(out, " A1 ") {
		t.Errorf("expected centred text, got %q", out)
	}

	out = BlockWithText(RGB{R: 255, G: 255, B: 255}, "A1", 4)
	if !strings.Contains(out, "38;2;0;0;0") {
		t.Errorf("expected black text on white, got %q", out)
	}
}

func TestBlock(t *testing.T) {
	out := Block(RGB{R: 1, G: 2, B: 3}, 0)
	if !strings.HasPrefix(out, "\033[48;2;1;2;3m") {
		t.Errorf("unexpected prefix: %q", out)
	}
	if !strings.HasSuffix(out, ansiReset) {
		t.Errorf("missing reset: %q", out)
	}
}
