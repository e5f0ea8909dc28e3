package contact

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"first.last@sub.example.co.uk", true},
		{"a+tag@b.io", true},
		{"a@b..com", true}, // lenient on purpose

		{"", false},
		{"a@b", false},
		{"@b.com", false},
		{"a@.com", false},
		{"a@..com", true},
		{"a@b.", false},
		{"ab.com", false},
		{"a@@b.com", false},
		{"a@b@c.com", false},
		{"a b@c.com", false},
		{" a@b.com", false},
		{"a@b.com ", false},
		{"a@b.com\n", false},
		{"a@b\t.com", false},
		{"a@b.c\vom", false},
		{"a @b.com", false},
		{"a@b .com", false},
		{"\ufeffa@b.com", false},
		{`"quoted"@b.com`, true},
		{`"quoted local"@b.com`, false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.in); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail_AnySpaceRejects(t *testing.T) {
	bases := []string{"a@b.com", "x.y@z.org", "me@host.example"}
	spaces := []string{" ", "\t", "\n", "\r", "\f", "\v", "\u00a0", "\u2028", "\u3000"}

	for _, b := range bases {
		for i := 0; i <= len(b); i++ {
			for _, sp := range spaces {
				s := b[:i] + sp + b[i:]
				if IsValidEmail(s) {
					t.Errorf("IsValidEmail(%q) = true, want false", s)
				}
			}
		}
	}
}
