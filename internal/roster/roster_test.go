package roster

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"260971234567.0", "260971234567"},
		{"+260971234567", "+260971234567"},
		{"", ""},
		{"nan", ""},
		{"NaN", ""},
		{"  260955000111  ", "260955000111"},
		{"ext. 44", "ext. 44"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNextID(t *testing.T) {
	cases := []struct {
		ids  []string
		want string
	}{
		{nil, "1"},
		{[]string{}, "1"},
		{[]string{"1", "2", "5"}, "6"},
		{[]string{"abc", "x"}, "1"},
		{[]string{"3", "junk", "7"}, "8"},
	}
	for _, tc := range cases {
		if got := NextID(tc.ids); got != tc.want {
			t.Errorf("NextID(%v) = %q, want %q", tc.ids, got, tc.want)
		}
	}
}

func TestDedupeKey(t *testing.T) {
	a := DedupeKey("  Jane Banda ", "ZESCO")
	b := DedupeKey("jane banda", "zesco")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	c := DedupeKey("jane banda", "zccm")
	if a == c {
		t.Errorf("different organizations must not collide")
	}
}
