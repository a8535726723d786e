package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"asha@iiitdwd.ac.in",
		"first.last@example.com",
		"user+tag@sub.domain.org",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"   ",
		"plainaddress",
		"@no-local-part.com",
		"spaces in@example.com",
		"trailing@dot.com.",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateInstituteEmail(t *testing.T) {
	assert.NoError(t, ValidateInstituteEmail("asha@iiitdwd.ac.in", "iiitdwd.ac.in"))
	assert.NoError(t, ValidateInstituteEmail("ASHA@IIITDWD.AC.IN", "iiitdwd.ac.in"))

	assert.Error(t, ValidateInstituteEmail("asha@gmail.com", "iiitdwd.ac.in"))
	assert.Error(t, ValidateInstituteEmail("asha@fakeiiitdwd.ac.in.evil.com", "iiitdwd.ac.in"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3r$ecret"))
	assert.NoError(t, ValidatePassword("Aa1!aaaa"))

	weak := []string{
		"short1!",     // too short
		"alllower1!",  // no upper
		"ALLUPPER1!",  // no lower
		"NoDigits!!",  // no digit
		"NoSpecial11", // no special
	}
	for _, password := range weak {
		assert.Error(t, ValidatePassword(password), password)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@iiitdwd.ac.in", NormalizeEmail("  ASHA@IIITDWD.AC.IN "))
}
