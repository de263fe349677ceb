package constants

import "testing"

func TestMode_Valid(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want bool
	}{
		{
			name: "swap is valid",
			mode: ModeSwap,
			want: true,
		},
		{
			name: "vacancy is valid",
			mode: ModeVacancy,
			want: true,
		},
		{
			name: "empty string is invalid",
			mode: Mode(""),
			want: false,
		},
		{
			name: "arbitrary string is invalid",
			mode: Mode("teleport"),
			want: false,
		},
		{
			name: "SWAP uppercase is invalid",
			mode: Mode("SWAP"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Valid(); got != tt.want {
				t.Errorf("Mode.Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode_String(t *testing.T) {
	if got := ModeSwap.String(); got != "swap" {
		t.Errorf("ModeSwap.String() = %q, want %q", got, "swap")
	}
	if got := ModeVacancy.String(); got != "vacancy" {
		t.Errorf("ModeVacancy.String() = %q, want %q", got, "vacancy")
	}
}
