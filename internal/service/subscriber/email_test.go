package subscriber

import "testing"

func TestNormalizeEmail_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "alice@example.com"},
		{"A@Example.com", "a@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"first.last+tag@sub.example.co.uk", "first.last+tag@sub.example.co.uk"},
		{"user_name@example-site.org", "user_name@example-site.org"},
	}
	for _, c := range cases {
		got, err := NormalizeEmail(c.in)
		if err != nil {
			t.Errorf("NormalizeEmail(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeEmail_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not-an-email",
		"missing-domain@",
		"@missing-local.com",
		"user@localhost",
		"user@example",
		"user@.example.com",
		"user@example..com",
		"user@-leading.com",
		"user@trailing-.com",
		"user@example.c",
		"user@example.123",
		"user@[127.0.0.1]",
		"Display Name <user@example.com>",
	}
	for _, in := range cases {
		if got, err := NormalizeEmail(in); err == nil {
			t.Errorf("NormalizeEmail(%q) = %q, expected error", in, got)
		}
	}
}
