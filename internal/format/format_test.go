package format

import "testing"

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want ImageFormat
	}{
		{"x.png", PNG},
		{"x.jpg", JPEG},
		{"dir/photo.final.jpg", JPEG},
		{".png", PNG},
		{"x.bmp", Unknown},
		{"x", Unknown},
		{"", Unknown},
		{"png", Unknown},
		{"x.jpeg", Unknown},
		{"x.PNG", Unknown},
		{"x.JPG", Unknown},
		{"x.png.bak", Unknown},
		{"xpng", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFilename(tt.name); got != tt.want {
				t.Errorf("FromFilename(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0}, "png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"gif", []byte("GIF89a"), "gif"},
		{"bmp", []byte("BM\x00\x00"), "bmp"},
		{"tiff le", []byte("II*\x00\x08"), "tiff"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"riff not webp", []byte("RIFF\x00\x00\x00\x00WAVE"), ""},
		{"empty", nil, ""},
		{"short png", []byte{0x89, 0x50}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff = %q, want %q", got, tt.want)
			}
		})
	}
}
