package cases

import (
	"errors"
	"fmt"
	"path"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	keyLength   = 12
)

// ErrInvalidFilename is returned for names that reduce to nothing once directories are stripped
var ErrInvalidFilename = errors.New("invalid filename")

// AttachmentKey returns a fresh storage key of the form cases/{id}/{random}-{filename}.
// Every call yields a different key.
func AttachmentKey(caseID int64, filename string) (string, error) {
	name, err := cleanFilename(filename)
	if err != nil {
		return "", err
	}

	random, err := gonanoid.Generate(keyAlphabet, keyLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate attachment key: %w", err)
	}

	return KeyPrefix(caseID) + random + "-" + name, nil
}

// KeyPrefix is the storage prefix every attachment of a case lives under
func KeyPrefix(caseID int64) string {
	return fmt.Sprintf("cases/%d/", caseID)
}

// OwnsKey reports whether key was issued for caseID
func OwnsKey(caseID int64, key string) bool {
	rest, ok := strings.CutPrefix(key, KeyPrefix(caseID))
	return ok && rest != "" && !strings.Contains(rest, "/")
}

// cleanFilename keeps only the last path element so a key never escapes its case prefix.
func cleanFilename(filename string) (string, error) {
	name := strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", ErrInvalidFilename
	}
	return name, nil
}
