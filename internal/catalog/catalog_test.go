package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGenericDomain(t *testing.T) {
	t.Parallel()

	assert.True(t, IsGenericDomain("gmail.com"))
	assert.True(t, IsGenericDomain("GMAIL.com"))
	assert.False(t, IsGenericDomain("empresa.com.br"))
	assert.False(t, IsGenericDomain(""))
}

func TestHasFunctionalKeyword(t *testing.T) {
	t.Parallel()

	assert.True(t, HasFunctionalKeyword("vendas@empresa.com.br"))
	assert.True(t, HasFunctionalKeyword("fale-com-atendimento@empresa.com.br"))
	assert.False(t, HasFunctionalKeyword("joao@empresa.com.br"))
}

func TestInPrimeNeighborhood(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"exact neighborhood", "Rua XV de Novembro, 100 - Centro, Curitiba - PR", true},
		{"case insensitive", "av. sete de setembro, 500 - BATEL, curitiba", true},
		{"accented neighborhood", "Rua Itupava, 1200 - Juvevê, Curitiba", true},
		{"no neighborhood", "BR-116, km 110, Fazenda Rio Grande - PR", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, InPrimeNeighborhood(tt.address))
		})
	}
}

func TestScoreWeightsSumToFullScale(t *testing.T) {
	t.Parallel()

	sum := ScoreHasWebsite + ScoreHighTicketNiche + ScoreHighCompetition +
		ScoreCorporateEmail + ScorePrimeNeighborhood
	assert.Equal(t, 100, sum)
}
