package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vasilestie-backend/internal/shared/utils"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Instalații Sanitare Brașov", "instalatii-sanitare-brasov"},
		{"Tâmplărie & Mobilier la Comandă", "tamplarie-mobilier-la-comanda"},
		{"  Zugrăveli -- Interioare  ", "zugraveli-interioare"},
		{"Electrician Timișoara 24/7", "electrician-timisoara-247"},
		{"ş ţ legacy cedilla", "s-t-legacy-cedilla"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.GenerateSlug(tc.in), "input %q", tc.in)
	}
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Fantani Arteziene", utils.RemoveDiacritics("Fântâni Arteziene"))
	assert.Equal(t, "stiinta", utils.RemoveDiacritics("știință"))
}
