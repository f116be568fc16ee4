// internal/domain/moeda.go
package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ArredondarMoeda arredonda um valor monetário para duas casas decimais com
// arredondamento comercial (meio para cima), via decimal para evitar os vieses
// de math.Round sobre representações binárias.
func ArredondarMoeda(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatarBRL formata um valor monetário no padrão contábil brasileiro,
// com vírgula decimal ("1234,56").
func FormatarBRL(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	return strings.Replace(s, ".", ",", 1)
}

// NumeroValido informa se v é um número finito utilizável em fórmula.
func NumeroValido(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
