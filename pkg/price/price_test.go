package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain integer", "1299", "1299"},
		{"plain decimal", "29.99", "29.99"},
		{"dollar symbol", "$29.99", "29.99"},
		{"rupee with commas", "₹1,299.00", "1299"},
		{"rupee with space", "₹ 29,999.00", "29999"},
		{"euro symbol", "€45.50", "45.5"},
		{"pound symbol", "£10.99", "10.99"},
		{"thousands separators", "1,234,567", "1234567"},
		{"trailing dot", "1299.", "1299"},
		{"leading dot", ".99", "0.99"},
		{"surrounding whitespace", "  42.00  ", "42"},
		{"embedded text", "Deal price: $19.95 only", "19.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"no digits", "free shipping"},
		{"lone dot", "."},
		{"currency only", "₹"},
		{"zero", "0"},
		{"zero decimal", "0.00"},
		{"multiple dots", "1.299.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}

// Comma-decimal locale strings are not understood: the comma is stripped
// and the dot is always read as the decimal point, so "2.499,00" comes out
// as 2.499. The site strategies only hand over dot-decimal strings, which
// keeps such input off the scrape path.
func TestParse_CommaDecimalReadsDotAsPoint(t *testing.T) {
	t.Parallel()

	got, err := Parse("2.499,00")
	require.NoError(t, err)
	assert.Equal(t, "2.499", got.String())
}

// Parsing the canonical rendering of a parsed value yields the same value.
func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"$1,299.99", "₹45", ".50", "999.", "  $0.01 "}

	for _, raw := range inputs {
		first, err := Parse(raw)
		require.NoError(t, err, "raw %q", raw)

		second, err := Parse(first.String())
		require.NoError(t, err, "re-parse of %q", first.String())
		assert.True(t, first.Equal(second), "%q: %s != %s", raw, first, second)
	}
}
