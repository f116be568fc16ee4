package custos

import (
	"errors"
	"math"
	"testing"

	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

var federaisBase = domain.TributosFederais{II: 10000, IPI: 5000, PIS: 1650, COFINS: 7600}

func totaisBase() domain.TotaisDI {
	return domain.TotaisDI{
		Federais:       federaisBase,
		ICMS:           domain.ResultadoICMS{Aliquota: 18, BaseAntes: 126250, BaseFinal: 153963.41, ValorDevido: 27713.41},
		DespesasTotal:  2000,
		ValorAduaneiro: 100000,
	}
}

func TestCalcularCreditos(t *testing.T) {
	svc := NewService()
	icms := 27713.41

	t.Run("simples nacional não credita nada", func(t *testing.T) {
		creditos, err := svc.CalcularCreditos(domain.RegimeSimplesNacional, federaisBase, icms, domain.RegraRegime{})
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if creditos.Total != 0 {
			t.Errorf("esperava créditos zero, obteve %f", creditos.Total)
		}
	})

	t.Run("lucro presumido credita apenas IPI e ICMS", func(t *testing.T) {
		creditos, err := svc.CalcularCreditos(domain.RegimeLucroPresumido, federaisBase, icms, domain.RegraRegime{})
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if creditos.PIS != 0 || creditos.COFINS != 0 {
			t.Errorf("presumido não credita PIS/COFINS: %+v", creditos)
		}
		if creditos.Total != 5000+icms {
			t.Errorf("total: esperava %f, obteve %f", 5000+icms, creditos.Total)
		}
	})

	t.Run("lucro real credita tudo quando a regra permite", func(t *testing.T) {
		regra := domain.RegraRegime{PermiteCreditoImportacao: true}
		creditos, err := svc.CalcularCreditos(domain.RegimeLucroReal, federaisBase, icms, regra)
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if creditos.Total != 1650+7600+5000+icms {
			t.Errorf("total: esperava %f, obteve %f", 1650+7600+5000+icms, creditos.Total)
		}
	})

	t.Run("lucro real sem permissão recua para IPI e ICMS", func(t *testing.T) {
		creditos, err := svc.CalcularCreditos(domain.RegimeLucroReal, federaisBase, icms, domain.RegraRegime{})
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if creditos.PIS != 0 || creditos.COFINS != 0 || creditos.Total != 5000+icms {
			t.Errorf("sem permissão esperava IPI+ICMS: %+v", creditos)
		}
	})

	t.Run("ordenação estrita entre regimes", func(t *testing.T) {
		regra := domain.RegraRegime{PermiteCreditoImportacao: true}
		real, _ := svc.CalcularCreditos(domain.RegimeLucroReal, federaisBase, icms, regra)
		presumido, _ := svc.CalcularCreditos(domain.RegimeLucroPresumido, federaisBase, icms, regra)
		simples, _ := svc.CalcularCreditos(domain.RegimeSimplesNacional, federaisBase, icms, regra)
		if !(real.Total >= presumido.Total && presumido.Total >= simples.Total && simples.Total == 0) {
			t.Errorf("ordenação violada: real=%f presumido=%f simples=%f", real.Total, presumido.Total, simples.Total)
		}
	})

	t.Run("regime desconhecido é fatal", func(t *testing.T) {
		_, err := svc.CalcularCreditos(domain.RegimeTributario("arbitragem"), federaisBase, icms, domain.RegraRegime{})
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroForaDoIntervalo {
			t.Fatalf("esperava ErroForaDoIntervalo, obteve %v", err)
		}
	})
}

func TestCalcularCascata(t *testing.T) {
	svc := NewService()

	t.Run("com parâmetros zerados custo contábil iguala custo desembolso", func(t *testing.T) {
		cascata, err := svc.CalcularCascata(totaisBase(), domain.RegimeLucroPresumido, domain.RegraRegime{}, domain.ParametrosGerenciais{})
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}

		custoBase := 100000.0 + 10000 + 5000 + 1650 + 7600 + 27713.41 + 2000
		if math.Abs(cascata.CustoBase-custoBase) > 1e-9 {
			t.Errorf("custo base: esperava %f, obteve %f", custoBase, cascata.CustoBase)
		}
		esperado := custoBase - (5000 + 27713.41)
		if cascata.CustoDesembolso != esperado {
			t.Errorf("custo desembolso: esperava %f, obteve %f", esperado, cascata.CustoDesembolso)
		}
		if cascata.CustoContabil != cascata.CustoDesembolso {
			t.Errorf("com percentuais zero, contábil (%f) deve igualar desembolso (%f)", cascata.CustoContabil, cascata.CustoDesembolso)
		}
		if cascata.BaseFormacaoPreco != cascata.CustoContabil {
			t.Errorf("com percentuais zero, formação (%f) deve igualar contábil (%f)", cascata.BaseFormacaoPreco, cascata.CustoContabil)
		}
	})

	t.Run("aplica encargos, indiretos e margem em sequência", func(t *testing.T) {
		params := domain.ParametrosGerenciais{
			EncargosFinanceirosPercentual: 2,
			TributosRecuperaveisOutros:    500,
			CustosIndiretosPercentual:     10,
			MargemOperacionalPercentual:   20,
		}
		cascata, err := svc.CalcularCascata(totaisBase(), domain.RegimeSimplesNacional, domain.RegraRegime{}, params)
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}

		desembolso := cascata.CustoDesembolso
		contabil := desembolso + desembolso*0.02 - 500
		if math.Abs(cascata.CustoContabil-contabil) > 1e-9 {
			t.Errorf("custo contábil: esperava %f, obteve %f", contabil, cascata.CustoContabil)
		}
		formacao := contabil + contabil*0.10 + contabil*0.20
		if math.Abs(cascata.BaseFormacaoPreco-formacao) > 1e-9 {
			t.Errorf("base de formação: esperava %f, obteve %f", formacao, cascata.BaseFormacaoPreco)
		}
	})

	t.Run("percentual fora do domínio é fatal, nunca defaultado", func(t *testing.T) {
		casos := []domain.ParametrosGerenciais{
			{EncargosFinanceirosPercentual: -1},
			{EncargosFinanceirosPercentual: 101},
			{CustosIndiretosPercentual: 120},
			{MargemOperacionalPercentual: 1001},
			{MargemOperacionalPercentual: math.NaN()},
			{TributosRecuperaveisOutros: -10},
		}
		for i, params := range casos {
			_, err := svc.CalcularCascata(totaisBase(), domain.RegimeSimplesNacional, domain.RegraRegime{}, params)
			if err == nil {
				t.Errorf("caso %d: esperava erro de validação", i)
			}
		}
	})

	t.Run("margem operacional admite até 1000", func(t *testing.T) {
		params := domain.ParametrosGerenciais{MargemOperacionalPercentual: 1000}
		if _, err := svc.CalcularCascata(totaisBase(), domain.RegimeSimplesNacional, domain.RegraRegime{}, params); err != nil {
			t.Fatalf("margem 1000%% deveria ser aceita: %v", err)
		}
	})
}
