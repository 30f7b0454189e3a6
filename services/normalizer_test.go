package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/loadlink/intake-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() *models.IntakeSubmission {
	return &models.IntakeSubmission{
		MCNumber:       "MC123456",
		Origin:         "Chicago, IL",
		Destination:    "Dallas, TX",
		PickupDatetime: "2025-08-22",
		EquipmentType:  "Dry Van",
	}
}

func TestSanitizeMCNumber(t *testing.T) {
	n := NewNormalizer()

	cases := []struct {
		input    string
		expected string
	}{
		{"MC123456", "123456"},
		{"mc123456", "123456"},
		{"  MC 123456  ", "123456"},
		{"MC#123-456", "123456"},
		{"MC-00123", "00123"},
		{"123456", "123456"},
		{"MC", ""},
		{"abcdef", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, n.SanitizeMCNumber(tc.input), "input %q", tc.input)
	}
}

func TestSanitizeMCNumberIdempotent(t *testing.T) {
	n := NewNormalizer()
	properties := gopter.NewProperties(nil)

	properties.Property("sanitizing twice yields the same digit string as sanitizing once", prop.ForAll(
		func(prefix string, digits string, padding string) bool {
			input := padding + prefix + digits + padding
			once := n.SanitizeMCNumber(input)
			return n.SanitizeMCNumber(once) == once
		},
		gen.OneConstOf("", "MC", "mc", "Mc ", "MC#", "MC-"),
		gen.NumString(),
		gen.OneConstOf("", " ", "\t", "  "),
	))

	properties.Property("sanitizing never leaves non-digits behind", prop.ForAll(
		func(input string) bool {
			for _, r := range n.SanitizeMCNumber(input) {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestParseDatetime(t *testing.T) {
	n := NewNormalizer()

	valid := []string{
		"2025-08-22",
		"2025-08-22T14:30:00",
		"2025-08-22 14:30:00",
		"2025-08-22T14:30:00Z",
		"2025-08-22T14:30:00-05:00",
		"  2025-08-22  ",
	}
	for _, input := range valid {
		_, ok := n.ParseDatetime(input)
		assert.True(t, ok, "expected %q to parse", input)
	}

	invalid := []string{"", "tomorrow", "08/22/2025", "2025-13-45"}
	for _, input := range invalid {
		_, ok := n.ParseDatetime(input)
		assert.False(t, ok, "expected %q to fail", input)
	}
}

func TestNormalizeIntakeValid(t *testing.T) {
	n := NewNormalizer()

	intake, verr := n.NormalizeIntake(validSubmission())
	require.Nil(t, verr)
	assert.Equal(t, "123456", intake.MCNumber)
	assert.Equal(t, "Chicago, IL", intake.Origin)
	assert.Equal(t, "Dallas, TX", intake.Destination)
	assert.Equal(t, "Dry Van", intake.EquipmentType)
	assert.Equal(t, 2025, intake.PickupDatetime.Year())
}

func TestNormalizeIntakeMissingDestination(t *testing.T) {
	n := NewNormalizer()

	sub := validSubmission()
	sub.Destination = "   "
	intake, verr := n.NormalizeIntake(sub)

	require.Nil(t, intake)
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields, "destination")
}

func TestNormalizeIntakeEnumeratesEveryField(t *testing.T) {
	n := NewNormalizer()

	intake, verr := n.NormalizeIntake(&models.IntakeSubmission{})
	require.Nil(t, intake)
	require.NotNil(t, verr)

	for _, field := range []string{"mc_number", "origin", "destination", "pickup_datetime", "equipment_type"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestNormalizeIntakeRejectsDigitlessMC(t *testing.T) {
	n := NewNormalizer()

	sub := validSubmission()
	sub.MCNumber = "MC-XYZ"
	_, verr := n.NormalizeIntake(sub)

	require.NotNil(t, verr)
	assert.Equal(t, "must contain digits", verr.Fields["mc_number"])
}

func TestNormalizeIntakeRejectsBadPickupDate(t *testing.T) {
	n := NewNormalizer()

	sub := validSubmission()
	sub.PickupDatetime = "next tuesday"
	_, verr := n.NormalizeIntake(sub)

	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "pickup_datetime")
}
