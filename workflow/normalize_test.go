package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAvailability(t *testing.T) {
	cases := map[string]string{
		"buy":   "sale",
		"Buy":   "sale",
		"BUY":   "sale",
		"sale":  "sale",
		"Sale":  "sale",
		"rent":  "rent",
		"Rent":  "rent",
		" rent": "rent",
		"":      "sale",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeAvailability(in), "input %q", in)
	}
}

func TestNormalizeAmenitiesRepeatedForm(t *testing.T) {
	got := NormalizeAmenities([]string{"Parking", " Balcony ", "Parking", ""}, nil)
	assert.Equal(t, []string{"Parking", "Balcony"}, got)
}

func TestNormalizeAmenitiesIndexedForm(t *testing.T) {
	values := map[string][]string{
		"amenities[0]": {"Parking"},
		"amenities[1]": {"Rooftop Garden"},
		"amenities[2]": {"Parking"},
		// Gap after [2]: nothing beyond it is read.
		"amenities[4]": {"Ignored"},
		"title":        {"unrelated"},
	}
	got := NormalizeAmenities(nil, values)
	assert.Equal(t, []string{"Parking", "Rooftop Garden"}, got)
}

func TestNormalizeAmenitiesBothForms(t *testing.T) {
	values := map[string][]string{
		"amenities[0]": {"Lift"},
	}
	got := NormalizeAmenities([]string{"Parking"}, values)
	assert.Equal(t, []string{"Parking", "Lift"}, got)
}

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 45000.0, CoerceFloat("45000"))
	assert.Equal(t, 1.5, CoerceFloat(" 1.5 "))
	assert.Equal(t, 0.0, CoerceFloat("abc"))
	assert.Equal(t, 0.0, CoerceFloat(""))
	assert.Equal(t, 0.0, CoerceFloat("-10"))
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, 3, CoerceInt("3"))
	assert.Equal(t, 0, CoerceInt("2.5"))
	assert.Equal(t, 0, CoerceInt("many"))
	assert.Equal(t, 0, CoerceInt("-1"))
}
