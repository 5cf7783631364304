package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxFilenameLen is the longest upload filename accepted, in bytes.
const maxFilenameLen = 255

// filenameRules are checked in order; the first match rejects the name.
// Uploads are only ever referred to by basename and the name is echoed back
// in Content-Disposition, so separators and quotes are refused.
var filenameRules = []struct {
	reject func(string) bool
	msg    string
}{
	{func(s string) bool { return strings.TrimSpace(s) == "" }, "filename cannot be empty"},
	{func(s string) bool { return len(s) > maxFilenameLen }, "filename too long (max 255 bytes)"},
	{func(s string) bool { return strings.IndexFunc(s, unicode.IsControl) >= 0 }, "filename contains control characters"},
	{func(s string) bool { return strings.ContainsAny(s, `/\`) }, "filename must not contain a path"},
	{func(s string) bool { return strings.Contains(s, "..") }, "filename must not contain '..'"},
	{func(s string) bool { return strings.ContainsRune(s, '"') }, "filename must not contain quotes"},
}

// ValidateUploadFilename checks a client-supplied upload filename.
func ValidateUploadFilename(name string) error {
	for _, r := range filenameRules {
		if r.reject(name) {
			return New(ErrCodeInvalidInput, "%s: %q", r.msg, truncate(name, 40))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// presetName matches names such as "22x36" or "dtf-roll".
var presetName = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// ValidatePresetName checks a sheet preset name: up to 64 lowercase letters,
// digits, '.', '_' or '-', starting with a letter or digit.
func ValidatePresetName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	case !presetName.MatchString(name):
		return New(ErrCodeInvalidPreset, "invalid preset name %q", name)
	}
	return nil
}
