package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	// Known vector: sha256("abc")
	got := SHA256Hex("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("SHA256Hex(\"abc\") = %s, want %s", got, want)
	}
}

func TestTokenFingerprint(t *testing.T) {
	fp := TokenFingerprint("ya29.some-access-token")
	if len(fp) != 12 {
		t.Errorf("fingerprint length = %d, want 12", len(fp))
	}
	if fp == TokenFingerprint("ya29.other-access-token") {
		t.Error("distinct tokens produced the same fingerprint")
	}
}

func TestTokenFingerprint_Empty(t *testing.T) {
	if fp := TokenFingerprint(""); fp != "" {
		t.Errorf("fingerprint of empty token = %q, want empty", fp)
	}
}

func TestTokenFingerprint_Stable(t *testing.T) {
	a := TokenFingerprint("token")
	b := TokenFingerprint("token")
	if a != b {
		t.Errorf("fingerprint not stable: %s != %s", a, b)
	}
}
