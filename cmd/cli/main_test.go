package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCmdHash(t *testing.T) {
	p := writeTemp(t, "abc")
	if code := cmdHash([]string{p}); code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if code := cmdHash([]string{filepath.Join(t.TempDir(), "missing")}); code != 2 {
		t.Fatalf("exit = %d, want 2 for missing file", code)
	}
	if code := cmdHash(nil); code != 2 {
		t.Fatalf("exit = %d, want 2 for usage error", code)
	}
}

func TestCmdVerify_Usage(t *testing.T) {
	if code := cmdVerify(nil); code != 2 {
		t.Fatalf("exit = %d, want 2 when no token/file given", code)
	}
	if code := cmdVerify([]string{"-token", "x", "-file", "y"}); code != 2 {
		t.Fatalf("exit = %d, want 2 when both given", code)
	}
}

func TestCmdVerify_TokenPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("token") == "good" {
			_, _ = w.Write([]byte(`{"valid":true,"document":{"title":"Deed","type":"legal","owner":"A","issuer":"Personal Document","status":"verified","createdAt":"2025-01-02T03:04:05Z"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"valid":false,"error":"Document not found"}`))
	}))
	defer srv.Close()

	if code := cmdVerify([]string{"-token", "good", "-server", srv.URL}); code != 0 {
		t.Fatalf("exit = %d, want 0 for valid document", code)
	}
	if code := cmdVerify([]string{"-token", "bad", "-server", srv.URL}); code != 1 {
		t.Fatalf("exit = %d, want 1 for invalid document", code)
	}
}

func TestCmdVerify_FileHashesLocally(t *testing.T) {
	var gotHash string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHash = r.URL.Query().Get("hash")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"valid":false,"error":"Document not found"}`))
	}))
	defer srv.Close()

	p := writeTemp(t, "abc")
	if code := cmdVerify([]string{"-file", p, "-server", srv.URL}); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if gotHash != want {
		t.Fatalf("server received hash %q, want %q", gotHash, want)
	}
}
