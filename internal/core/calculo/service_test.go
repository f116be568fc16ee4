package calculo

import (
	"testing"

	"github.com/LuisEduardoPedra/calculoDI/internal/core/custos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/impostos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/precificacao"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rateio"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rates"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func novoServico(ratesSvc rates.Service) Service {
	rateioSvc := rateio.NewService()
	custosSvc := custos.NewService()
	return NewService(nil, ratesSvc,
		impostos.NewService(), rateioSvc, custosSvc,
		precificacao.NewService(ratesSvc, rateioSvc, custosSvc))
}

func ratesCarregado() rates.Service {
	return rates.NewServiceComTabelas(rates.Tabelas{
		AliquotasICMS: map[string]domain.AliquotaUF{
			"RS": {AliquotaInterna: 18},
		},
		RegrasRegime: map[domain.RegimeTributario]domain.RegraRegime{
			domain.RegimeSimplesNacional: {},
			domain.RegimeLucroReal:       {PermiteCreditoImportacao: true},
		},
	})
}

func declaracaoCompleta() *domain.Declaracao {
	return &domain.Declaracao{
		NumeroDI:     "24/1234567-8",
		DataRegistro: "2024-03-15",
		Importador:   domain.Importador{CNPJ: "11222333000144", Nome: "Importadora Alfa", UF: "RS"},
		TaxaCambio:   5.10,
		Despesas:     domain.DespesasAduaneiras{Siscomex: 800, AFRMM: 700, Capatazia: 500},
		Adicoes: []domain.Adicao{
			{
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
				Produtos: []domain.Produto{
					{Sequencial: 1, ValorTotalBRL: 60000, Quantidade: 100},
					{Sequencial: 2, ValorTotalBRL: 40000, Quantidade: 40},
				},
			},
		},
		ValorAduaneiroTotal: 100000,
	}
}

func TestCalcularDeclaracao(t *testing.T) {
	t.Run("fluxo completo com valores conferidos de ponta a ponta", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		di := declaracaoCompleta()

		resultado, err := svc.CalcularDeclaracao(di, domain.Cenario{Regime: domain.RegimeLucroReal, UFDestino: "RS"}, domain.ParametrosGerenciais{})
		require.NoError(t, err)
		require.NotNil(t, resultado)

		// Tributos federais da única adição.
		require.InDelta(t, 10000, resultado.Totais.Federais.II, 0.001)
		require.InDelta(t, 5000, resultado.Totais.Federais.IPI, 0.001)
		require.InDelta(t, 1650, resultado.Totais.Federais.PIS, 0.001)
		require.InDelta(t, 7600, resultado.Totais.Federais.COFINS, 0.001)

		// ICMS por dentro sobre a base cheia: 100000 + 24250 + 2000 = 126250.
		require.InDelta(t, 126250, resultado.Totais.ICMS.BaseAntes, 0.001)
		require.InDelta(t, 153963.41, resultado.Totais.ICMS.BaseFinal, 0.01)
		require.InDelta(t, 27713.41, resultado.Totais.ICMS.ValorDevido, 0.01)

		// Totais consolidados.
		require.InDelta(t, 2000, resultado.Totais.DespesasTotal, 0.001)
		require.InDelta(t, 24250+27713.41, resultado.Totais.CargaTributaria, 0.01)
		require.InDelta(t, 100000+24250+27713.41+2000, resultado.Totais.CustoTotalImport, 0.01)

		// Cascata no lucro real com permissão: créditos de tudo.
		require.InDelta(t, 153963.41, resultado.Cascata.CustoBase, 0.01)
		require.InDelta(t, 1650+7600+5000+27713.41, resultado.Cascata.Creditos.Total, 0.01)
		require.InDelta(t, resultado.Cascata.CustoBase-resultado.Cascata.Creditos.Total, resultado.Cascata.CustoDesembolso, 0.001)

		// Rateio preenchido na adição e custos por item calculados.
		require.NotNil(t, resultado.Adicoes[0].DespesasRateadas)
		require.Len(t, resultado.CustosItens, 2)
		somaItens := resultado.CustosItens[0].CustoContabilTotal + resultado.CustosItens[1].CustoContabilTotal
		require.InDelta(t, resultado.Cascata.CustoBase, somaItens, 0.01)

		// A memória registra todas as etapas na ordem do fluxo.
		require.NotEmpty(t, resultado.Memoria)
		etapas := make([]string, 0, len(resultado.Memoria))
		for _, registro := range resultado.Memoria {
			etapas = append(etapas, registro.Etapa)
		}
		require.Contains(t, etapas, "tributos_federais.adicao_1")
		require.Contains(t, etapas, "icms_por_dentro")
		require.Contains(t, etapas, "rateio.adicao_1")
		require.Contains(t, etapas, "cascata_custos")
		require.Contains(t, etapas, "custo_item.adicao_1.seq_1")
	})

	t.Run("importador sem UF é fatal antes de qualquer cálculo", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		di := declaracaoCompleta()
		di.Importador.UF = ""

		_, err := svc.CalcularDeclaracao(di, domain.Cenario{Regime: domain.RegimeSimplesNacional}, domain.ParametrosGerenciais{})
		require.Error(t, err)
		require.True(t, domain.EhErroValidacao(err))
	})

	t.Run("soma das adições divergente do valor aduaneiro é fatal", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		di := declaracaoCompleta()
		di.ValorAduaneiroTotal = 99000

		_, err := svc.CalcularDeclaracao(di, domain.Cenario{Regime: domain.RegimeSimplesNacional}, domain.ParametrosGerenciais{})
		require.Error(t, err)
		require.True(t, domain.EhErroValidacao(err))
	})

	t.Run("alíquota ausente em uma adição aborta o fluxo inteiro", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		di := declaracaoCompleta()
		di.Adicoes[0].Tributos.COFINSAliquota = nil

		_, err := svc.CalcularDeclaracao(di, domain.Cenario{Regime: domain.RegimeSimplesNacional}, domain.ParametrosGerenciais{})
		require.Error(t, err)
		require.True(t, domain.EhErroValidacao(err))
		require.Nil(t, di.Totais)
	})

	t.Run("tabelas não carregadas bloqueiam o cálculo", func(t *testing.T) {
		svc := novoServico(rates.NewService(nil))
		di := declaracaoCompleta()

		_, err := svc.CalcularDeclaracao(di, domain.Cenario{Regime: domain.RegimeSimplesNacional}, domain.ParametrosGerenciais{})
		require.ErrorIs(t, err, domain.ErrNaoInicializado)
	})

	t.Run("UF do importador fora da tabela é fatal", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		di := declaracaoCompleta()
		di.Importador.UF = "SP"

		_, err := svc.CalcularDeclaracao(di, domain.Cenario{Regime: domain.RegimeSimplesNacional}, domain.ParametrosGerenciais{})
		require.Error(t, err)
		require.True(t, domain.EhErroValidacao(err))
	})
}

func TestSalvarResultado(t *testing.T) {
	t.Run("resultado nil é fatal", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		require.Error(t, svc.SalvarResultado(t.Context(), nil))
	})

	t.Run("resultado sem número de DI é fatal", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		require.Error(t, svc.SalvarResultado(t.Context(), &ResultadoCalculo{}))
	})

	t.Run("sem cliente Firestore a persistência falha com erro claro", func(t *testing.T) {
		svc := novoServico(ratesCarregado())
		err := svc.SalvarResultado(t.Context(), &ResultadoCalculo{NumeroDI: "24/1234567-8"})
		require.ErrorContains(t, err, "Firestore")
	})
}
