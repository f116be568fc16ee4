package impostos

import (
	"errors"
	"math"
	"testing"

	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func adicaoCompleta() *domain.Adicao {
	return &domain.Adicao{
		Numero:     1,
		NCM:        "84439932",
		ValorReais: 100000,
		Tributos: domain.TributosAdicao{
			IIAliquota:     ptr(10),
			IIBase:         ptr(100000),
			IPIAliquota:    ptr(5),
			IPIBase:        ptr(100000),
			PISAliquota:    ptr(1.65),
			PISBase:        ptr(100000),
			COFINSAliquota: ptr(7.6),
			COFINSBase:     ptr(100000),
		},
	}
}

func TestCalcularTributosFederais(t *testing.T) {
	svc := NewService()

	t.Run("calcula os quatro tributos a partir das alíquotas do documento", func(t *testing.T) {
		adicao := adicaoCompleta()
		tributos, err := svc.CalcularTributosFederais(adicao)
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if tributos.II != 10000 {
			t.Errorf("II: esperava 10000, obteve %.2f", tributos.II)
		}
		if tributos.IPI != 5000 {
			t.Errorf("IPI: esperava 5000, obteve %.2f", tributos.IPI)
		}
		if tributos.PIS != 1650 {
			t.Errorf("PIS: esperava 1650, obteve %.2f", tributos.PIS)
		}
		if tributos.COFINS != 7600 {
			t.Errorf("COFINS: esperava 7600, obteve %.2f", tributos.COFINS)
		}
		// Os valores devidos ficam gravados na adição.
		if adicao.Tributos.IIValor != 10000 || adicao.Tributos.COFINSValor != 7600 {
			t.Errorf("valores devidos não gravados na adição: %+v", adicao.Tributos)
		}
	})

	t.Run("alíquota ausente é fatal, nunca substituída por zero", func(t *testing.T) {
		adicao := adicaoCompleta()
		adicao.Tributos.PISAliquota = nil
		_, err := svc.CalcularTributosFederais(adicao)
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroCampoAusente {
			t.Fatalf("esperava ErroCampoAusente, obteve %v", err)
		}
	})

	t.Run("base não-numérica é fatal", func(t *testing.T) {
		adicao := adicaoCompleta()
		adicao.Tributos.IPIBase = ptr(math.NaN())
		_, err := svc.CalcularTributosFederais(adicao)
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroCampoAusente {
			t.Fatalf("esperava ErroCampoAusente, obteve %v", err)
		}
	})
}

func TestCalcularICMS(t *testing.T) {
	svc := NewService()

	t.Run("cenário concreto do gross-up por dentro", func(t *testing.T) {
		// valor aduaneiro 100.000 + II 10.000 + IPI 5.000 + PIS 1.650 +
		// COFINS 7.600 + despesas 2.000 = 126.250
		resultado, err := svc.CalcularICMS(126250, 18)
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if math.Abs(resultado.BaseFinal-153963.41) > 0.01 {
			t.Errorf("base final: esperava 153963.41, obteve %.2f", resultado.BaseFinal)
		}
		if math.Abs(resultado.ValorDevido-27713.41) > 0.01 {
			t.Errorf("ICMS devido: esperava 27713.41, obteve %.2f", resultado.ValorDevido)
		}
	})

	t.Run("round-trip: base_final menos devido reproduz base_antes", func(t *testing.T) {
		casos := []struct {
			base     float64
			aliquota float64
		}{
			{126250, 18},
			{0.01, 0},
			{999999.99, 19},
			{50000, 4},
			{1234.56, 25},
		}
		for _, caso := range casos {
			resultado, err := svc.CalcularICMS(caso.base, caso.aliquota)
			if err != nil {
				t.Fatalf("base %.2f aliquota %.2f: erro inesperado: %v", caso.base, caso.aliquota, err)
			}
			volta := resultado.BaseFinal - resultado.ValorDevido
			if math.Abs(volta-caso.base) > 1e-9*caso.base {
				t.Errorf("base %.2f: round-trip devolveu %.10f", caso.base, volta)
			}
		}
	})

	t.Run("alíquota maior ou igual a 100 é fatal", func(t *testing.T) {
		for _, aliquota := range []float64{100, 150} {
			_, err := svc.CalcularICMS(1000, aliquota)
			var ev *domain.ErroValidacao
			if !errors.As(err, &ev) || ev.Tipo != domain.ErroForaDoIntervalo {
				t.Errorf("aliquota %.0f: esperava ErroForaDoIntervalo, obteve %v", aliquota, err)
			}
		}
	})

	t.Run("alíquota negativa é fatal", func(t *testing.T) {
		_, err := svc.CalcularICMS(1000, -1)
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroForaDoIntervalo {
			t.Fatalf("esperava ErroForaDoIntervalo, obteve %v", err)
		}
	})
}
