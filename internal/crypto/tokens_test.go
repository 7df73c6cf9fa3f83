package crypto

import "testing"

func TestNewToken_UniqueAndURLSafe(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		tok, err := NewToken(32)
		if err != nil {
			t.Fatal(err)
		}
		if len(tok) == 0 {
			t.Fatal("empty token")
		}
		for _, c := range tok {
			if c == '+' || c == '/' || c == '=' {
				t.Fatalf("token %q is not URL-safe", tok)
			}
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestPIN_RoundTrip(t *testing.T) {
	salt, err := RandBytes(16)
	if err != nil {
		t.Fatal(err)
	}
	h := HashPIN([]byte("4821"), salt)

	if !VerifyPIN([]byte("4821"), salt, h) {
		t.Fatal("correct PIN rejected")
	}
	if VerifyPIN([]byte("4822"), salt, h) {
		t.Fatal("wrong PIN accepted")
	}

	otherSalt, _ := RandBytes(16)
	if VerifyPIN([]byte("4821"), otherSalt, h) {
		t.Fatal("PIN accepted under wrong salt")
	}
}
