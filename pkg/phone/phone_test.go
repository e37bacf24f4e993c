package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNationalNumber(t *testing.T) {
	assert.Equal(t, "543511234567", Normalize("3511234567"))
	assert.Equal(t, "543513334444", Normalize("3513334444"))
}

func TestNormalizeTrunkPrefix(t *testing.T) {
	// A leading 0 is the national trunk prefix, not part of the number
	assert.Equal(t, "543511234567", Normalize("03511234567"))
	assert.Equal(t, Normalize("3511234567"), Normalize("03511234567"))
}

func TestNormalizeExplicitCountryCode(t *testing.T) {
	// +54 without the mobile indicator gets the 9 inserted
	assert.Equal(t, "5493511234567", Normalize("+54 351 123 4567"))
	// +549 is already fully qualified
	assert.Equal(t, "5493511234567", Normalize("+5493511234567"))
}

func TestNormalizeQualifiedNumbers(t *testing.T) {
	assert.Equal(t, "5493511234567", Normalize("5493511234567"))
	// 12 digits starting 54 without an explicit plus is left as is
	assert.Equal(t, "543511234567", Normalize("543511234567"))
}

func TestNormalizeStripsFormatting(t *testing.T) {
	assert.Equal(t, "543511234567", Normalize("(351) 123-4567"))
	assert.Equal(t, "543511234567", Normalize("351 123 4567"))
}

func TestNormalizeUnrecognizedShapes(t *testing.T) {
	// Short or odd lengths pass through digits-only
	assert.Equal(t, "12345", Normalize("12345"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("abc"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"3511234567",
		"03511234567",
		"+54 351 123 4567",
		"+5493511234567",
		"5493511234567",
		"543511234567",
		"(351) 123-4567",
		"12345",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}
