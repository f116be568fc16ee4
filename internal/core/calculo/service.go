// internal/core/calculo/service.go
package calculo

import (
	"context"
	"fmt"
	"math"

	"cloud.google.com/go/firestore"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/custos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/impostos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/memoria"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/precificacao"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rateio"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rates"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

// toleranciaConferencia é a folga monetária admitida na conferência entre a
// soma das adições e o valor aduaneiro declarado.
const toleranciaConferencia = 0.01

// ResultadoCalculo é o produto completo de um recálculo da declaração:
// tributos, rateio, cascata de custos, custos por item e a memória de cálculo.
type ResultadoCalculo struct {
	NumeroDI    string               `json:"numero_di" firestore:"numero_di"`
	Totais      domain.TotaisDI      `json:"totais" firestore:"totais"`
	Cascata     domain.CascataCustos `json:"cascata" firestore:"cascata"`
	Adicoes     []domain.Adicao      `json:"adicoes" firestore:"adicoes"`
	CustosItens []domain.CustoItem   `json:"custos_itens" firestore:"custos_itens"`
	Memoria     []memoria.Registro   `json:"memoria_calculo" firestore:"memoria_calculo"`
}

// Service orquestra o recálculo integral de uma declaração e a persistência
// do resultado. O cálculo em si é puro sobre as entradas; apenas a gravação
// toca o Firestore.
type Service interface {
	CalcularDeclaracao(di *domain.Declaracao, cenario domain.Cenario, params domain.ParametrosGerenciais) (*ResultadoCalculo, error)
	SalvarResultado(ctx context.Context, resultado *ResultadoCalculo) error
}

type service struct {
	db           *firestore.Client
	rates        rates.Service
	impostos     impostos.Service
	rateio       rateio.Service
	custos       custos.Service
	precificacao precificacao.Service
}

// NewService compõe o orquestrador. db pode ser nil quando não há persistência
// (cálculo offline ou testes).
func NewService(db *firestore.Client, ratesSvc rates.Service, impostosSvc impostos.Service, rateioSvc rateio.Service, custosSvc custos.Service, precificacaoSvc precificacao.Service) Service {
	return &service{
		db:           db,
		rates:        ratesSvc,
		impostos:     impostosSvc,
		rateio:       rateioSvc,
		custos:       custosSvc,
		precificacao: precificacaoSvc,
	}
}

// CalcularDeclaracao executa o fluxo completo: tributos federais por adição,
// ICMS por dentro sobre a base cheia, rateio hierárquico, cascata de custos e
// custo contábil por item, registrando cada etapa na memória de cálculo.
func (s *service) CalcularDeclaracao(di *domain.Declaracao, cenario domain.Cenario, params domain.ParametrosGerenciais) (*ResultadoCalculo, error) {
	if di == nil {
		return nil, domain.NovoErroCampoAusente("declaracao")
	}
	if di.Importador.UF == "" {
		return nil, domain.NovoErroCampoAusente("importador.uf")
	}
	if di.Importador.CNPJ == "" {
		return nil, domain.NovoErroCampoAusente("importador.cnpj")
	}
	if len(di.Adicoes) == 0 {
		return nil, domain.NovoErroCampoAusente("adicoes")
	}
	if di.ValorAduaneiroTotal <= 0 {
		return nil, domain.NovoErroForaDoIntervalo("valor_aduaneiro_total", "valor aduaneiro deve ser maior que zero")
	}

	var somaAdicoes float64
	for i := range di.Adicoes {
		somaAdicoes += di.Adicoes[i].ValorReais
	}
	if math.Abs(somaAdicoes-di.ValorAduaneiroTotal) > toleranciaConferencia {
		return nil, domain.NovoErroForaDoIntervalo("valor_aduaneiro_total",
			fmt.Sprintf("soma das adições (%.2f) difere do valor aduaneiro declarado (%.2f)", somaAdicoes, di.ValorAduaneiroTotal))
	}

	mem := memoria.Nova()

	// Tributos federais por adição, com alíquotas e bases do documento.
	var federais domain.TributosFederais
	for i := range di.Adicoes {
		adicao := &di.Adicoes[i]
		tributos, err := s.impostos.CalcularTributosFederais(adicao)
		if err != nil {
			return nil, err
		}
		federais.II += tributos.II
		federais.IPI += tributos.IPI
		federais.PIS += tributos.PIS
		federais.COFINS += tributos.COFINS
		mem.Registrar(
			fmt.Sprintf("tributos_federais.adicao_%d", adicao.Numero),
			"valor_devido = base × alíquota/100",
			map[string]float64{
				"ii":     tributos.II,
				"ipi":    tributos.IPI,
				"pis":    tributos.PIS,
				"cofins": tributos.COFINS,
			})
	}

	despesas := di.Despesas.Total()
	aliquota, err := s.rates.AliquotaICMS(di.Importador.UF)
	if err != nil {
		return nil, err
	}

	baseAntes := di.ValorAduaneiroTotal + federais.Soma() + despesas
	icms, err := s.impostos.CalcularICMS(baseAntes, aliquota.AliquotaInterna)
	if err != nil {
		return nil, err
	}
	mem.Registrar("icms_por_dentro",
		"base_final = base_antes / (1 − alíquota/100); devido = base_final − base_antes",
		map[string]float64{
			"base_antes":  icms.BaseAntes,
			"base_final":  icms.BaseFinal,
			"aliquota":    icms.Aliquota,
			"icms_devido": icms.ValorDevido,
		})

	// Rateio sempre do nível da adição para o nível do item.
	if err := s.rateio.RatearDeclaracao(di, icms.ValorDevido); err != nil {
		return nil, err
	}
	for i := range di.Adicoes {
		mem.Registrar(
			fmt.Sprintf("rateio.adicao_%d", di.Adicoes[i].Numero),
			"parcela = valor_compartilhado × (valor_reais / valor_aduaneiro_total)",
			di.Adicoes[i].DespesasRateadas)
	}

	cargaTributaria := federais.Soma() + icms.ValorDevido
	di.Totais = &domain.TotaisDI{
		Federais:         federais,
		ICMS:             icms,
		DespesasTotal:    despesas,
		ValorAduaneiro:   di.ValorAduaneiroTotal,
		CargaTributaria:  cargaTributaria,
		CustoTotalImport: di.ValorAduaneiroTotal + cargaTributaria + despesas,
	}

	regra, err := s.rates.RegraRegime(cenario.Regime)
	if err != nil {
		return nil, err
	}
	cascata, err := s.custos.CalcularCascata(*di.Totais, cenario.Regime, regra, params)
	if err != nil {
		return nil, err
	}
	mem.Registrar("cascata_custos",
		"base → desembolso (−créditos) → contábil (+encargos −recuperáveis) → formação (+indiretos +margem)",
		map[string]float64{
			"custo_base":          cascata.CustoBase,
			"creditos":            cascata.Creditos.Total,
			"custo_desembolso":    cascata.CustoDesembolso,
			"custo_contabil":      cascata.CustoContabil,
			"base_formacao_preco": cascata.BaseFormacaoPreco,
		})

	var custosItens []domain.CustoItem
	for i := range di.Adicoes {
		adicao := &di.Adicoes[i]
		for j := range adicao.Produtos {
			custoItem, err := s.precificacao.CalcularCustosItem(&adicao.Produtos[j], adicao, di)
			if err != nil {
				return nil, err
			}
			custosItens = append(custosItens, custoItem)
			mem.Registrar(
				fmt.Sprintf("custo_item.adicao_%d.seq_%d", adicao.Numero, custoItem.Sequencial),
				"custo_contabil = diretos + federais + icms + despesas_rateadas",
				map[string]float64{
					"custos_diretos":       custoItem.CustosDiretos,
					"tributos_federais":    custoItem.Federais.Soma(),
					"icms_parcela":         custoItem.ICMSParcela,
					"despesas_rateadas":    custoItem.DespesasRateadas,
					"custo_contabil_total": custoItem.CustoContabilTotal,
				})
		}
	}

	return &ResultadoCalculo{
		NumeroDI:    di.NumeroDI,
		Totais:      *di.Totais,
		Cascata:     cascata,
		Adicoes:     di.Adicoes,
		CustosItens: custosItens,
		Memoria:     mem.Registros(),
	}, nil
}

// SalvarResultado grava o resultado na coleção resultados_calculo, chaveado
// pelo número da DI. Reimportações substituem o documento anterior.
func (s *service) SalvarResultado(ctx context.Context, resultado *ResultadoCalculo) error {
	if resultado == nil {
		return domain.NovoErroCampoAusente("resultado")
	}
	if resultado.NumeroDI == "" {
		return domain.NovoErroCampoAusente("resultado.numero_di")
	}
	if s.db == nil {
		return fmt.Errorf("salvar resultado: cliente Firestore não configurado")
	}
	if _, err := s.db.Collection("resultados_calculo").Doc(resultado.NumeroDI).Set(ctx, resultado); err != nil {
		return fmt.Errorf("salvar resultado da DI %s: %w", resultado.NumeroDI, err)
	}
	return nil
}
