package deck

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		ext   string
		want  string
	}{
		{"plain", "spiral galaxies", ExtHTML, "spiral_galaxies.html"},
		{"empty", "", ExtPDF, "deck.pdf"},
		{"blank", "   ", ExtPDF, "deck.pdf"},
		{"diacritics", "Nébuleuse d'Orion", ExtPDF, "Nebuleuse_d_Orion.pdf"},
		{"keeps-safe-punctuation", "m31_andromeda-v1.2", ExtXLSX, "m31_andromeda-v1.2.xlsx"},
		{"path-separators", "../etc/passwd", ExtHTML, ".._etc_passwd.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.topic, tt.ext); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN-gb", "en-GB"},
		{" ms ", "ms"},
		{"", ""},
		{"not a locale!", "not a locale!"},
	}

	for _, tt := range tests {
		if got := NormalizeLocale(tt.in); got != tt.want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
