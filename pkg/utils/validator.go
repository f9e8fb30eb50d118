package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var npwpDigits = regexp.MustCompile(`^\d{15,16}$`)

// ValidateNPWP validates an Indonesian taxpayer number. Both the legacy
// 15-digit and the Core Tax 16-digit formats are accepted; separators are
// stripped before checking.
func ValidateNPWP(npwp string) error {
	cleaned := strings.NewReplacer(".", "", "-", "", " ", "").Replace(npwp)
	if !npwpDigits.MatchString(cleaned) {
		return fmt.Errorf("NPWP must be 15 or 16 digits: %s", npwp)
	}
	return nil
}

// IsExcelFile reports whether the filename carries a supported spreadsheet
// extension.
func IsExcelFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// SanitizeString removes control characters from user-supplied text before
// it reaches logs or output cells.
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
