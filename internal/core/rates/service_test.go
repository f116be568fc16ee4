package rates

import (
	"errors"
	"testing"

	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

func tabelasTeste() Tabelas {
	return Tabelas{
		AliquotasICMS: map[string]domain.AliquotaUF{
			"SP": {AliquotaInterna: 18},
			"RS": {AliquotaInterna: 17, FCP: 2},
		},
		Monofasicos: []domain.CategoriaMonofasica{
			{Categoria: "combustiveis", NCMs: []string{"2710"}},
		},
		RegrasRegime: map[domain.RegimeTributario]domain.RegraRegime{
			domain.RegimeLucroReal: {PermiteCreditoImportacao: true},
		},
		Incentivos: []domain.ProgramaIncentivo{
			{Codigo: "GO-PRODUZIR", UF: "GO", Tipo: "reducao_base_icms", PercentualReducao: 65},
		},
	}
}

func TestAcessoAntesDaCarga(t *testing.T) {
	svc := NewService(nil)

	t.Run("todo acessor falha antes de Carregar", func(t *testing.T) {
		if _, err := svc.AliquotaICMS("SP"); !errors.Is(err, domain.ErrNaoInicializado) {
			t.Errorf("AliquotaICMS: esperava ErrNaoInicializado, obteve %v", err)
		}
		if _, err := svc.Monofasicos(); !errors.Is(err, domain.ErrNaoInicializado) {
			t.Errorf("Monofasicos: esperava ErrNaoInicializado, obteve %v", err)
		}
		if _, err := svc.RegraRegime(domain.RegimeLucroReal); !errors.Is(err, domain.ErrNaoInicializado) {
			t.Errorf("RegraRegime: esperava ErrNaoInicializado, obteve %v", err)
		}
		if _, err := svc.Incentivos(); !errors.Is(err, domain.ErrNaoInicializado) {
			t.Errorf("Incentivos: esperava ErrNaoInicializado, obteve %v", err)
		}
	})
}

func TestAcessoresComTabelas(t *testing.T) {
	svc := NewServiceComTabelas(tabelasTeste())

	t.Run("alíquota da UF cadastrada", func(t *testing.T) {
		aliquota, err := svc.AliquotaICMS("RS")
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if aliquota.AliquotaInterna != 17 || aliquota.FCP != 2 {
			t.Errorf("alíquota inesperada: %+v", aliquota)
		}
	})

	t.Run("UF ausente da tabela é erro de validação", func(t *testing.T) {
		_, err := svc.AliquotaICMS("XX")
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroCampoAusente {
			t.Fatalf("esperava ErroCampoAusente, obteve %v", err)
		}
	})

	t.Run("UF vazia é erro de validação", func(t *testing.T) {
		if _, err := svc.AliquotaICMS(""); err == nil {
			t.Fatal("esperava erro")
		}
	})

	t.Run("regime desconhecido nunca chega à tabela", func(t *testing.T) {
		_, err := svc.RegraRegime(domain.RegimeTributario("arbitragem"))
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroForaDoIntervalo {
			t.Fatalf("esperava ErroForaDoIntervalo, obteve %v", err)
		}
	})

	t.Run("regime válido sem regra cadastrada é erro de validação", func(t *testing.T) {
		_, err := svc.RegraRegime(domain.RegimeSimplesNacional)
		var ev *domain.ErroValidacao
		if !errors.As(err, &ev) || ev.Tipo != domain.ErroCampoAusente {
			t.Fatalf("esperava ErroCampoAusente, obteve %v", err)
		}
	})
}
