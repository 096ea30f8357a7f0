package collation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ficção", "ficcao"},
		{"FICÇÃO", "ficcao"},
		{"ficcao", "ficcao"},
		{"José Saramago", "jose saramago"},
		{"Ação e Aventura", "acao e aventura"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestFold_Matches(t *testing.T) {
	assert.Equal(t, Fold("Ficção Científica"), Fold("ficcao cientifica"))
	assert.Equal(t, Fold("Fantasia"), Fold("FANTASIA"))
	assert.NotEqual(t, Fold("Fantasia"), Fold("Ficção"))
}
