// Command vault is a CLI client for document hashing and verification.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/momohthinQ/meyone-secure-vault/internal/digest"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

const defaultServer = "http://localhost:8080"

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  vault hash <file>
      compute the SHA-256 digest of a file

  vault verify -token <token> [-server URL]
  vault verify -file <path>   [-server URL]
      verify a document against a running server
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "hash":
		os.Exit(cmdHash(os.Args[2:]))
	case "verify":
		os.Exit(cmdVerify(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}

// cmdHash streams a file through the hasher and prints the digest.
func cmdHash(args []string) int {
	if len(args) != 1 {
		usage()
		return 2
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		return 2
	}
	defer f.Close()

	sum, err := digest.Sum(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		return 2
	}
	fmt.Println(sum)
	return 0
}

// cmdVerify queries the server by token or by locally computed digest.
// Exit codes: 0 valid, 1 invalid, 2 usage/transport error.
func cmdVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	token := fs.String("token", "", "verification token (from a QR code)")
	file := fs.String("file", "", "file to hash and verify")
	server := fs.String("server", defaultServer, "verification server URL")
	_ = fs.Parse(args)

	if (*token == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -token or -file is required")
		return 2
	}

	var endpoint string
	if *token != "" {
		endpoint = *server + "/verify-document?token=" + url.QueryEscape(*token)
	} else {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open:", err)
			return 2
		}
		sum, err := digest.Sum(f)
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash:", err)
			return 2
		}
		fmt.Println("sha256:", sum)
		endpoint = *server + "/verify-hash?hash=" + url.QueryEscape(sum)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		return 2
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		return 2
	}

	var res model.VerificationResult
	if err := json.Unmarshal(body, &res); err != nil || resp.StatusCode >= 500 {
		fmt.Fprintln(os.Stderr, "server error:", string(body))
		return 2
	}

	if !res.Valid {
		fmt.Println("INVALID: document is not registered")
		return 1
	}

	d := res.Document
	fmt.Println("VALID")
	fmt.Println("  title:  ", d.Title)
	fmt.Println("  type:   ", d.Type)
	fmt.Println("  owner:  ", d.Owner)
	fmt.Println("  issuer: ", d.Issuer)
	if d.IssuerType != "" {
		fmt.Println("  issuer type:  ", d.IssuerType)
	}
	if d.IssuerStatus != "" {
		fmt.Println("  issuer status:", d.IssuerStatus)
	}
	fmt.Println("  status: ", d.Status)
	if d.IssuedAt != nil {
		fmt.Println("  issued: ", d.IssuedAt.Format(time.RFC3339))
	}
	fmt.Println("  created:", d.CreatedAt.Format(time.RFC3339))
	if d.Hash != "" {
		fmt.Println("  hash:   ", d.Hash)
	}
	return 0
}
