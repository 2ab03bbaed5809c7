package cookies

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// JarHeader is the first line of a Netscape cookie file.
const JarHeader = "# Netscape HTTP Cookie File"

// WriteJarTo writes cookies in Netscape format:
//
//	domain TRUE path SECURE expiry name value
//
// tab-separated, one cookie per line, after JarHeader. The domain is written
// with a leading dot since include-subdomains is always TRUE. Session
// cookies get expiry 0.
func WriteJarTo(w io.Writer, cookies []Cookie) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, JarHeader); err != nil {
		return err
	}
	for _, c := range cookies {
		if _, err := fmt.Fprintf(bw, "%s\tTRUE\t%s\t%s\t%d\t%s\t%s\n",
			jarDomain(c.Domain), jarPath(c.Path), jarBool(c.Secure), jarExpiry(c), c.Name, c.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJar replaces the file at path with the serialized cookies. The new
// content is written to a temporary file in the same directory and renamed
// into place, so a failed write never leaves a truncated jar behind.
func WriteJar(path string, cookies []Cookie) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create jar dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ytjar-jar-*")
	if err != nil {
		return fmt.Errorf("create temp jar: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := WriteJarTo(tmp, cookies); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write jar: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod jar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close jar: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace jar: %w", err)
	}
	return nil
}

func jarDomain(domain string) string {
	d := strings.TrimSpace(domain)
	if !strings.HasPrefix(d, ".") {
		d = "." + d
	}
	return d
}

func jarPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func jarBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func jarExpiry(c Cookie) int64 {
	if c.Expires.IsZero() {
		return 0
	}
	if s := c.Expires.Unix(); s > 0 {
		return s
	}
	return 0
}
