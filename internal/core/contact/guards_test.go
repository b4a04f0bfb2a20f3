package contact

import "testing"

func TestCanSaveContact(t *testing.T) {
	tests := []struct {
		name        string
		ctx         SaveContactContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can save complete contact",
			ctx: SaveContactContext{
				GivenName: "Ana",
				Phone:     "5551234567",
				Email:     "ana@x.com",
			},
			wantAllowed: true,
		},
		{
			name: "cannot save blank name",
			ctx: SaveContactContext{
				GivenName: "   ",
				Phone:     "5551234567",
				Email:     "ana@x.com",
			},
			wantAllowed: false,
			wantReason:  "name is required",
		},
		{
			name: "cannot save short phone",
			ctx: SaveContactContext{
				GivenName: "Ana",
				Phone:     "555123",
				Email:     "ana@x.com",
			},
			wantAllowed: false,
			wantReason:  `phone "555123" must be 7-15 digits`,
		},
		{
			name: "cannot save invalid email",
			ctx: SaveContactContext{
				GivenName: "Ana",
				Phone:     "5551234567",
				Email:     "ana@",
			},
			wantAllowed: false,
			wantReason:  `email "ana@" is not a valid address`,
		},
		{
			name: "name is checked before phone",
			ctx: SaveContactContext{
				Phone: "x",
				Email: "y",
			},
			wantAllowed: false,
			wantReason:  "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSaveContact(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if tt.wantAllowed && result.Error() != nil {
				t.Errorf("Error() = %v, want nil", result.Error())
			}
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"1234567", true},
		{"123456789012345", true},
		{"123456", false},
		{"1234567890123456", false},
		{"555-1234567", false},
		{"+525551234567", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@x.com", true},
		{"ana.ruiz+work@mail.example.mx", true},
		{"a_b%c@d-e.org", true},
		{"ana@localhost", false},
		{"ana@.com", false},
		{"@x.com", false},
		{"ana x@x.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
