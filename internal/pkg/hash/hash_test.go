package hash

import "testing"

func TestSHA256String(t *testing.T) {
	// Known digest of "abc".
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256String("abc"); got != want {
		t.Errorf("SHA256String(abc) = %s, want %s", got, want)
	}
}

func TestSHA256Short(t *testing.T) {
	full := SHA256String("abc")
	if got := SHA256Short([]byte("abc"), 8); got != full[:8] {
		t.Errorf("SHA256Short() = %s, want %s", got, full[:8])
	}
	if got := SHA256Short([]byte("abc"), 1000); got != full {
		t.Errorf("SHA256Short() with oversized n = %s, want full hash", got)
	}
}

func TestEmbeddingKey(t *testing.T) {
	if EmbeddingKey("m1", "text") == EmbeddingKey("m2", "text") {
		t.Error("different models share an embedding key")
	}
	if EmbeddingKey("m1", "a") == EmbeddingKey("m1", "b") {
		t.Error("different texts share an embedding key")
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]string{"x", "y"}, []int{1, 2})
	b := Fingerprint([]string{"x", "y"}, []int{1, 2})
	if a != b {
		t.Error("identical inputs produced different fingerprints")
	}

	if a == Fingerprint([]string{"x", "y"}, []int{1, 3}) {
		t.Error("changed length did not change the fingerprint")
	}
	if a == Fingerprint([]string{"y", "x"}, []int{2, 1}) {
		t.Error("reordering did not change the fingerprint")
	}

	// Separators prevent boundary ambiguity between id and length.
	if Fingerprint([]string{"x1"}, []int{2}) == Fingerprint([]string{"x"}, []int{12}) {
		t.Error("ambiguous boundary collision")
	}
}
