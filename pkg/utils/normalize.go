package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	separators = strings.NewReplacer(".", "", "-", "")
	nonDigits  = regexp.MustCompile(`\D`)
	gpExtract  = regexp.MustCompile(`^GP: (.*?)\.`)
	gpStrip    = regexp.MustCompile(`^GP: .*?\. `)
)

// NormalizeVehicleNumber reformats a raw fleet code into the dashed company
// format. Logic: DMU232020 (9 chars) -> D.M.U-23-2020. Inputs that are not
// exactly 9 characters after stripping separators are returned uppercased
// unformatted rather than guessed at.
func NormalizeVehicleNumber(raw string) string {
	clean := strings.ToUpper(separators.Replace(raw))
	if len(clean) != 9 {
		return clean
	}
	return fmt.Sprintf("%c.%c.%c-%s-%s", clean[0], clean[1], clean[2], clean[3:5], clean[5:9])
}

// NormalizeIDField uppercases operator-assigned identifiers (DM ID, driver ID).
func NormalizeIDField(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeDigits strips every non-digit character.
func NormalizeDigits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// ValidatePhone reports whether a contact number is acceptable: exactly "0"
// or exactly 11 digits.
func ValidatePhone(value string) bool {
	return value == "0" || len(value) == 11
}

// ExtractGPFromDescription returns the GP number embedded as a leading
// "GP: <n>." prefix, or "" when the description carries no prefix.
func ExtractGPFromDescription(description string) string {
	m := gpExtract.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return m[1]
}

// EmbedGPIntoDescription prepends a "GP: <n>. " prefix to the description,
// replacing any prefix already present.
func EmbedGPIntoDescription(description, gpDigits string) string {
	clean := gpStrip.ReplaceAllString(description, "")
	return "GP: " + gpDigits + ". " + clean
}

// VehicleShortCode returns the trailing six digits of a vehicle number, the
// short form dispatchers quote over the phone.
func VehicleShortCode(vehicleNumber string) string {
	digits := NormalizeDigits(vehicleNumber)
	if len(digits) <= 6 {
		return digits
	}
	return digits[len(digits)-6:]
}
