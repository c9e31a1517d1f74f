package jpeg

import (
	"bytes"
	"errors"
	"testing"
)

func encodeRGB(t *testing.T, w, h, quality int) []byte {
	t.Helper()
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = uint8(i)
	}
	data, err := Encode(pix, w, h, 3, nil, EncoderOptions{Quality: quality})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func encodeGray(t *testing.T, w, h int) []byte {
	t.Helper()
	pix := make([]byte, w*h)
	pix[w+1] = 200
	data, err := Encode(pix, w, h, 1, nil, EncoderOptions{Quality: 90})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestGetInfoColor(t *testing.T) {
	for _, q := range []int{30, 75, 85, 100} {
		info, err := GetInfo(encodeRGB(t, 40, 24, q))
		if err != nil {
			t.Fatalf("GetInfo: %v", err)
		}
		if info.Width != 40 || info.Height != 24 {
			t.Errorf("dimensions %dx%d", info.Width, info.Height)
		}
		if info.NumComponents != 3 || info.ColorSpace != "YCbCr" {
			t.Errorf("components %d %s", info.NumComponents, info.ColorSpace)
		}
		if info.Progressive {
			t.Error("baseline reported progressive")
		}
		if info.Quality != q {
			t.Errorf("Quality = %d, want %d", info.Quality, q)
		}
		if info.ICC != nil {
			t.Errorf("unexpected ICC of %d bytes", len(info.ICC))
		}
	}
}

func TestGetInfoGray(t *testing.T) {
	info, err := GetInfo(encodeGray(t, 8, 8))
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if info.NumComponents != 1 || info.ColorSpace != "Grayscale" {
		t.Errorf("got %d %s", info.NumComponents, info.ColorSpace)
	}
}

func TestGetInfoErrors(t *testing.T) {
	valid := encodeGray(t, 8, 8)

	if _, err := GetInfo([]byte("\x89PNG\r\n\x1a\n")); !errors.Is(err, ErrNotJPEG) {
		t.Errorf("png: %v", err)
	}
	if _, err := GetInfo(nil); !errors.Is(err, ErrNotJPEG) {
		t.Errorf("nil: %v", err)
	}
	if _, err := GetInfo(valid[:20]); err == nil {
		t.Error("truncated header accepted")
	}
	if _, err := GetInfo([]byte{0xFF, 0xD8, 0xFF, 0xD9}); err == nil {
		t.Error("stream without frame header accepted")
	}
}

func TestEmbedICCRoundTrip(t *testing.T) {
	data := encodeRGB(t, 16, 8, 80)
	before, err := DecodeRGB(data)
	if err != nil {
		t.Fatalf("DecodeRGB: %v", err)
	}

	for _, size := range []int{100, maxICCChunk, maxICCChunk + 1, 3*maxICCChunk - 7} {
		profile := make([]byte, size)
		for i := range profile {
			profile[i] = byte(i * 7)
		}
		out, err := EmbedICC(data, profile)
		if err != nil {
			t.Fatalf("EmbedICC(%d): %v", size, err)
		}
		info, err := GetInfo(out)
		if err != nil {
			t.Fatalf("GetInfo: %v", err)
		}
		if !bytes.Equal(info.ICC, profile) {
			t.Errorf("size %d: ICC round trip mismatch (%d bytes)", size, len(info.ICC))
		}
		if info.Quality != 80 {
			t.Errorf("size %d: quality changed to %d", size, info.Quality)
		}

		after, err := DecodeRGB(out)
		if err != nil {
			t.Fatalf("size %d: stream no longer decodes: %v", size, err)
		}
		if !bytes.Equal(after.Pixels, before.Pixels) {
			t.Errorf("size %d: retagging changed the pixels", size)
		}
		if !bytes.Equal(after.ICC, profile) {
			t.Errorf("size %d: decoder saw %d ICC bytes", size, len(after.ICC))
		}

		// Re-embedding replaces rather than appends.
		again, err := EmbedICC(out, profile[:10])
		if err != nil {
			t.Fatal(err)
		}
		info, err = GetInfo(again)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(info.ICC, profile[:10]) {
			t.Errorf("re-embed kept %d bytes", len(info.ICC))
		}
	}
}

func TestEmbedICCErrors(t *testing.T) {
	if _, err := EmbedICC([]byte("GIF89a"), []byte("x")); !errors.Is(err, ErrNotJPEG) {
		t.Errorf("gif: %v", err)
	}
	if _, err := EmbedICC(encodeGray(t, 8, 8), nil); err == nil {
		t.Error("empty profile accepted")
	}
	if _, err := EmbedICC([]byte{0xFF, 0xD8, 0xFF, 0xD9}, []byte("x")); err == nil {
		t.Error("stream without image accepted")
	}
}

func TestExtractICCErrors(t *testing.T) {
	chunk := func(seq, count byte) []byte {
		return append([]byte(iccTag), seq, count, 'x')
	}
	tests := []struct {
		name string
		app2 [][]byte
	}{
		{"seq zero", [][]byte{chunk(0, 1)}},
		{"seq past count", [][]byte{chunk(3, 2)}},
		{"count changes", [][]byte{chunk(1, 2), chunk(2, 3)}},
		{"missing chunk", [][]byte{chunk(1, 2)}},
		{"duplicate", [][]byte{chunk(1, 2), chunk(1, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractICC(tt.app2); err == nil {
				t.Error("accepted")
			}
		})
	}

	got, err := ExtractICC([][]byte{[]byte("not icc"), chunk(2, 2), chunk(1, 2)})
	if err != nil || string(got) != "xx" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestChunkICCLimits(t *testing.T) {
	if _, err := ChunkICC(nil); err == nil {
		t.Error("empty profile accepted")
	}
	if _, err := ChunkICC(make([]byte, 256*maxICCChunk)); err == nil {
		t.Error("oversized profile accepted")
	}
}

func TestEstimateQualityExact(t *testing.T) {
	for q := 1; q <= 100; q++ {
		got := EstimateQuality(ScaleQuantTable(stdLuminanceQuant, q))
		if ScaleQuantTable(stdLuminanceQuant, got) != ScaleQuantTable(stdLuminanceQuant, q) {
			t.Errorf("q=%d estimated %d with a different table", q, got)
		}
	}
}
