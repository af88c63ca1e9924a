package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSublocality(t *testing.T) {
	t.Parallel()

	l := &Lead{
		AddressComponents: []AddressComponent{
			{LongName: "1200", Types: []string{"street_number"}},
			{LongName: "Batel", ShortName: "Batel", Types: []string{"sublocality_level_1", "sublocality", "political"}},
			{LongName: "Curitiba", Types: []string{"administrative_area_level_2"}},
		},
	}
	assert.Equal(t, "Batel", l.Sublocality())
}

func TestSublocalityMissing(t *testing.T) {
	t.Parallel()

	l := &Lead{
		AddressComponents: []AddressComponent{
			{LongName: "Curitiba", Types: []string{"locality", "political"}},
		},
	}
	assert.Empty(t, l.Sublocality())
	assert.Empty(t, (&Lead{}).Sublocality())
}
