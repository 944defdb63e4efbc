package sanitizer

import "testing"

func TestNormalizeGuestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  John   Smith  ", "John Smith"},
		{"John\tSmith", "John Smith"},
		{"", ""},
		{"   ", ""},
		{"Maria", "Maria"},
	}

	for _, tt := range tests {
		if got := NormalizeGuestName(tt.in); got != tt.want {
			t.Errorf("NormalizeGuestName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAmenity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" WiFi ", "wifi"},
		{"Mini  Bar", "mini bar"},
		{"TV", "tv"},
	}

	for _, tt := range tests {
		if got := NormalizeAmenity(tt.in); got != tt.want {
			t.Errorf("NormalizeAmenity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
