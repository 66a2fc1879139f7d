package shared

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSuffix tags every file written by the downloader.
const DefaultSuffix = "PLAYX"

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// NamingRule derives download file names from track titles.
//
// Names have the form "<sanitized title> (<Suffix>)" and depend only on the title.
type NamingRule struct {
	Suffix string
}

// NewNamingRule returns a rule with the given suffix, or [DefaultSuffix] when empty.
func NewNamingRule(suffix string) NamingRule {
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultSuffix
	}
	return NamingRule{Suffix: suffix}
}

// Base returns the file name without extension.
func (r NamingRule) Base(title string) string {
	return fmt.Sprintf("%s (%s)", SanitizeTitle(title), r.Suffix)
}

// FileName returns the base name with ext appended.
func (r NamingRule) FileName(title, ext string) string {
	return r.Base(title) + "." + strings.TrimPrefix(ext, ".")
}

// SanitizeTitle normalizes title to NFC and replaces path separators with underscores.
func SanitizeTitle(title string) string {
	s := strings.TrimSpace(norm.NFC.String(title))
	s = separatorReplacer.Replace(s)
	if s == "" || s == "." || s == ".." {
		return "untitled"
	}
	return s
}
