package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prospectiq/leadscout/pkg/normalize"
)

func TestQueryKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Acme Robotics", "acme robotics"},
		{"trims and collapses whitespace", "  Acme   Robotics \t Inc ", "acme robotics inc"},
		{"empty input", "   ", ""},
		{"already normalized", "acme robotics", "acme robotics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.QueryKey(tt.input))
		})
	}
}

func TestCompanyKey(t *testing.T) {
	t.Run("company name only", func(t *testing.T) {
		assert.Equal(t, "acme robotics", normalize.CompanyKey("Acme Robotics", ""))
	})

	t.Run("website disambiguates same-name companies", func(t *testing.T) {
		a := normalize.CompanyKey("Acme", "https://acme.example")
		b := normalize.CompanyKey("Acme", "https://acme.other")
		assert.NotEqual(t, a, b)
	})

	t.Run("website scheme and www are stripped", func(t *testing.T) {
		a := normalize.CompanyKey("Acme", "https://www.acme.example/")
		b := normalize.CompanyKey("Acme", "http://acme.example")
		assert.Equal(t, a, b)
	})
}

func TestPersonKey(t *testing.T) {
	a := normalize.PersonKey("Jane", "Doe", "Acme Robotics")
	b := normalize.PersonKey(" jane ", " DOE", "acme  robotics")
	assert.Equal(t, a, b)
	assert.Equal(t, "jane doe acme robotics", a)
}
