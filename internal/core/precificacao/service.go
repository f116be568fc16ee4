// internal/core/precificacao/service.go
package precificacao

import (
	"strings"

	"github.com/LuisEduardoPedra/calculoDI/internal/core/custos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rateio"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rates"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

// Service calcula o custo contábil e o preço de venda por item e implementa os
// quatro métodos independentes de formação de preço.
//
// Convenção de escala dos parâmetros, preservada método a método:
//
//	Margem:        margem e tributos em decimal (0.20 = 20%)
//	Markup:        margem e tributos em percentual inteiro (20.0 = 20%)
//	Divisão:       percentual total em decimal (0 < p < 1)
//	Multiplicação: fator bruto (> 1)
//
// O IPI gruda por fora da base de margem em todos os métodos:
// preco_final = preco_base × (1 + ipi/100).
type Service interface {
	CalcularCustosItem(produto *domain.Produto, adicao *domain.Adicao, di *domain.Declaracao) (domain.CustoItem, error)
	CalcularPrecoMargemZero(custo domain.CustoItem, cenario domain.Cenario) (float64, domain.CreditoTributario, error)
	AplicarMargem(base float64, margem domain.Margem) (float64, error)
	CalcularPrecoComMargem(custo domain.CustoItem, margem domain.Margem, cenario domain.Cenario) (domain.PrecoItem, error)
	DetectarRegimesEspeciais(ncm string) (domain.RegimesEspeciais, error)

	CalcularMetodoMargem(custoContabil, margemDecimal, tributosDecimal, aliquotaIPI float64) (domain.ResultadoMetodo, error)
	CalcularMetodoMarkup(custoContabil, margemPercentual, tributosPercentual, aliquotaIPI float64) (domain.ResultadoMetodo, error)
	CalcularMetodoDivisao(custoContabil, percentualTotalDecimal, aliquotaIPI float64) (domain.ResultadoMetodo, error)
	CalcularMetodoMultiplicacao(custoContabil, fator, aliquotaIPI float64) (domain.ResultadoMetodo, error)
}

type service struct {
	rates  rates.Service
	rateio rateio.Service
	custos custos.Service
}

// NewService cria o calculador de precificação.
func NewService(ratesSvc rates.Service, rateioSvc rateio.Service, custosSvc custos.Service) Service {
	return &service{rates: ratesSvc, rateio: rateioSvc, custos: custosSvc}
}

// CalcularCustosItem soma custos diretos, parcelas de tributos federais,
// parcela de ICMS e despesas rateadas do item. Exige que o rateio da
// declaração já tenha sido executado.
func (s *service) CalcularCustosItem(produto *domain.Produto, adicao *domain.Adicao, di *domain.Declaracao) (domain.CustoItem, error) {
	var zero domain.CustoItem
	if produto == nil {
		return zero, domain.NovoErroCampoAusente("produto")
	}
	if adicao == nil {
		return zero, domain.NovoErroCampoAusente("adicao")
	}
	if di == nil {
		return zero, domain.NovoErroCampoAusente("declaracao")
	}
	if di.Totais == nil {
		return zero, domain.NovoErroCampoAusente("declaracao.totais")
	}
	if adicao.DespesasRateadas == nil {
		return zero, domain.NovoErroCampoAusente("adicao.despesas_rateadas")
	}

	razao, err := s.rateio.RazaoItem(produto, adicao)
	if err != nil {
		return zero, err
	}

	federais := domain.TributosFederais{
		II:     adicao.Tributos.IIValor * razao.Percentual,
		IPI:    adicao.Tributos.IPIValor * razao.Percentual,
		PIS:    adicao.Tributos.PISValor * razao.Percentual,
		COFINS: adicao.Tributos.COFINSValor * razao.Percentual,
	}

	// Dois ramos explícitos para o ICMS do item: pré-calculado ou rateado da
	// parcela da adição.
	var icmsParcela float64
	preCalculado := produto.ICMSValorDevido != nil
	if preCalculado {
		if !domain.NumeroValido(*produto.ICMSValorDevido) {
			return zero, domain.NovoErroCampoAusente("produto.icms_valor_devido")
		}
		icmsParcela = *produto.ICMSValorDevido
	} else {
		icmsParcela = adicao.DespesasRateadas["icms"] * razao.Percentual
	}

	despesasAdicao := adicao.DespesasRateadas[rateio.ChaveTotal] - adicao.DespesasRateadas["icms"]
	despesasItem := despesasAdicao * razao.Percentual

	custo := domain.CustoItem{
		Sequencial:       produto.Sequencial,
		CustosDiretos:    produto.ValorTotalBRL,
		Federais:         federais,
		ICMSParcela:      icmsParcela,
		ICMSPreCalculado: preCalculado,
		DespesasRateadas: despesasItem,
	}
	custo.CustoContabilTotal = custo.CustosDiretos + federais.Soma() + icmsParcela + despesasItem
	return custo, nil
}

// CalcularPrecoMargemZero devolve max(0, custo − créditos), com os créditos
// resolvidos pelo regime do cenário sobre os tributos do próprio item.
func (s *service) CalcularPrecoMargemZero(custo domain.CustoItem, cenario domain.Cenario) (float64, domain.CreditoTributario, error) {
	regra, err := s.rates.RegraRegime(cenario.Regime)
	if err != nil {
		return 0, domain.CreditoTributario{}, err
	}
	creditos, err := s.custos.CalcularCreditos(cenario.Regime, custo.Federais, custo.ICMSParcela, regra)
	if err != nil {
		return 0, domain.CreditoTributario{}, err
	}
	preco := custo.CustoContabilTotal - creditos.Total
	if preco < 0 {
		preco = 0
	}
	return preco, creditos, nil
}

// AplicarMargem aplica uma das três variantes fechadas de margem.
// Variante desconhecida é erro fatal, sem variante padrão.
func (s *service) AplicarMargem(base float64, margem domain.Margem) (float64, error) {
	if !domain.NumeroValido(base) || !domain.NumeroValido(margem.Valor) {
		return 0, domain.NovoErroCampoAusente("margem")
	}

	switch margem.Tipo {
	case domain.MargemPercentual:
		if margem.Valor < 0 || margem.Valor > 99 {
			return 0, domain.NovoErroForaDoIntervalo("margem.valor", "margem percentual deve estar entre 0 e 99")
		}
		return base / (1 - margem.Valor/100), nil
	case domain.MargemMarkupFixo:
		if margem.Valor < 0 {
			return 0, domain.NovoErroForaDoIntervalo("margem.valor", "markup fixo não pode ser negativo")
		}
		return base + margem.Valor, nil
	case domain.MargemPrecoManual:
		if margem.Valor <= 0 {
			return 0, domain.NovoErroForaDoIntervalo("margem.valor", "preço manual deve ser maior que zero")
		}
		return margem.Valor, nil
	default:
		return 0, domain.NovoErroForaDoIntervalo("margem.tipo", "tipo de margem desconhecido: "+string(margem.Tipo))
	}
}

// CalcularPrecoComMargem encadeia preço de margem zero → aplicação da margem →
// tributos de venda calculados pela alíquota interna da UF de destino
// (gross-up por dentro, coerente com a base embutida do ICMS).
func (s *service) CalcularPrecoComMargem(custo domain.CustoItem, margem domain.Margem, cenario domain.Cenario) (domain.PrecoItem, error) {
	var zero domain.PrecoItem

	precoMargemZero, creditos, err := s.CalcularPrecoMargemZero(custo, cenario)
	if err != nil {
		return zero, err
	}

	precoComMargem, err := s.AplicarMargem(precoMargemZero, margem)
	if err != nil {
		return zero, err
	}

	if cenario.UFDestino == "" {
		return zero, domain.NovoErroCampoAusente("cenario.uf_destino")
	}
	aliquota, err := s.rates.AliquotaICMS(cenario.UFDestino)
	if err != nil {
		return zero, err
	}
	if aliquota.AliquotaInterna >= 100 {
		return zero, domain.NovoErroForaDoIntervalo("aliquota_interna", "alíquota deve ser menor que 100%")
	}

	precoFinal := precoComMargem / (1 - aliquota.AliquotaInterna/100)

	return domain.PrecoItem{
		CustoContabil:   custo.CustoContabilTotal,
		Creditos:        creditos.Total,
		PrecoMargemZero: precoMargemZero,
		PrecoComMargem:  precoComMargem,
		ICMSVendaValor:  precoFinal - precoComMargem,
		PrecoVendaFinal: precoFinal,
	}, nil
}

// DetectarRegimesEspeciais varre as tabelas por prefixo de NCM.
// Monofásico é exclusivo: o primeiro prefixo que casa encerra a varredura.
// Incentivos são cumulativos: coleta todos os programas elegíveis, um por UF.
func (s *service) DetectarRegimesEspeciais(ncm string) (domain.RegimesEspeciais, error) {
	var zero domain.RegimesEspeciais
	if ncm == "" {
		return zero, domain.NovoErroCampoAusente("ncm")
	}

	monofasicos, err := s.rates.Monofasicos()
	if err != nil {
		return zero, err
	}
	programas, err := s.rates.Incentivos()
	if err != nil {
		return zero, err
	}

	resultado := domain.RegimesEspeciais{NCM: ncm, Incentivos: []domain.ProgramaIncentivo{}}

varredura:
	for i := range monofasicos {
		for _, prefixo := range monofasicos[i].NCMs {
			if strings.HasPrefix(ncm, prefixo) {
				resultado.Monofasico = &monofasicos[i]
				break varredura
			}
		}
	}

	for _, programa := range programas {
		for _, prefixo := range programa.NCMsContemplados {
			if strings.HasPrefix(ncm, prefixo) {
				resultado.Incentivos = append(resultado.Incentivos, programa)
				break
			}
		}
	}

	return resultado, nil
}

// validarEntradaMetodo confere custo e alíquota de IPI comuns aos quatro métodos.
func validarEntradaMetodo(custoContabil, aliquotaIPI float64) error {
	if !domain.NumeroValido(custoContabil) {
		return domain.NovoErroCampoAusente("custo_contabil")
	}
	if custoContabil < 0 {
		return domain.NovoErroForaDoIntervalo("custo_contabil", "custo não pode ser negativo")
	}
	if !domain.NumeroValido(aliquotaIPI) {
		return domain.NovoErroCampoAusente("aliquota_ipi")
	}
	if aliquotaIPI < 0 {
		return domain.NovoErroForaDoIntervalo("aliquota_ipi", "alíquota de IPI não pode ser negativa")
	}
	return nil
}

// aplicarIPI gruda o IPI por fora da base de margem.
func aplicarIPI(precoBase, aliquotaIPI float64) float64 {
	return precoBase * (1 + aliquotaIPI/100)
}

// CalcularMetodoMargem: preco_base = custo / (1 − margem − tributos), com
// margem e tributos em decimal. Exige margem + tributos < 1; caso contrário o
// erro informa a maior margem viável (diagnóstico, nunca correção).
func (s *service) CalcularMetodoMargem(custoContabil, margemDecimal, tributosDecimal, aliquotaIPI float64) (domain.ResultadoMetodo, error) {
	var zero domain.ResultadoMetodo
	if err := validarEntradaMetodo(custoContabil, aliquotaIPI); err != nil {
		return zero, err
	}
	if !domain.NumeroValido(margemDecimal) || !domain.NumeroValido(tributosDecimal) {
		return zero, domain.NovoErroCampoAusente("margem_decimal")
	}
	if margemDecimal < 0 {
		return zero, domain.NovoErroForaDoIntervalo("margem_decimal", "margem não pode ser negativa")
	}
	if tributosDecimal < 0 || tributosDecimal >= 1 {
		return zero, domain.NovoErroForaDoIntervalo("tributos_decimal", "carga tributária deve estar entre 0 e 1")
	}

	denominador := 1 - margemDecimal - tributosDecimal
	margemMaxima := 1 - tributosDecimal
	if denominador <= 0 {
		return zero, domain.NovoErroInviavel("margem_decimal",
			"margem + tributos deve ser menor que 1", margemMaxima)
	}

	precoBase := custoContabil / denominador
	return domain.ResultadoMetodo{
		Metodo:    "margem",
		CustoBase: custoContabil,
		Parametros: map[string]float64{
			"margem_decimal":   margemDecimal,
			"tributos_decimal": tributosDecimal,
		},
		PrecoBase:   precoBase,
		AliquotaIPI: aliquotaIPI,
		PrecoFinal:  aplicarIPI(precoBase, aliquotaIPI),
		Validacao:   domain.ValidacaoMetodo{Denominador: denominador, ParametroMaximo: margemMaxima},
	}, nil
}

// CalcularMetodoMarkup: preco_base = custo × (100 / (100 − margem% − tributos%)),
// com parâmetros em percentual inteiro. Exige margem% + tributos% < 100.
func (s *service) CalcularMetodoMarkup(custoContabil, margemPercentual, tributosPercentual, aliquotaIPI float64) (domain.ResultadoMetodo, error) {
	var zero domain.ResultadoMetodo
	if err := validarEntradaMetodo(custoContabil, aliquotaIPI); err != nil {
		return zero, err
	}
	if !domain.NumeroValido(margemPercentual) || !domain.NumeroValido(tributosPercentual) {
		return zero, domain.NovoErroCampoAusente("margem_percentual")
	}
	if margemPercentual < 0 {
		return zero, domain.NovoErroForaDoIntervalo("margem_percentual", "margem não pode ser negativa")
	}
	if tributosPercentual < 0 || tributosPercentual >= 100 {
		return zero, domain.NovoErroForaDoIntervalo("tributos_percentual", "carga tributária deve estar entre 0 e 100")
	}

	denominador := 100 - margemPercentual - tributosPercentual
	margemMaxima := 100 - tributosPercentual
	if denominador <= 0 {
		return zero, domain.NovoErroInviavel("margem_percentual",
			"margem% + tributos% deve ser menor que 100", margemMaxima)
	}

	precoBase := custoContabil * (100 / denominador)
	return domain.ResultadoMetodo{
		Metodo:    "markup",
		CustoBase: custoContabil,
		Parametros: map[string]float64{
			"margem_percentual":   margemPercentual,
			"tributos_percentual": tributosPercentual,
		},
		PrecoBase:   precoBase,
		AliquotaIPI: aliquotaIPI,
		PrecoFinal:  aplicarIPI(precoBase, aliquotaIPI),
		Validacao:   domain.ValidacaoMetodo{Denominador: denominador, ParametroMaximo: margemMaxima},
	}, nil
}

// CalcularMetodoDivisao: preco_base = custo / (1 − p), com p decimal e 0 < p < 1.
func (s *service) CalcularMetodoDivisao(custoContabil, percentualTotalDecimal, aliquotaIPI float64) (domain.ResultadoMetodo, error) {
	var zero domain.ResultadoMetodo
	if err := validarEntradaMetodo(custoContabil, aliquotaIPI); err != nil {
		return zero, err
	}
	if !domain.NumeroValido(percentualTotalDecimal) {
		return zero, domain.NovoErroCampoAusente("percentual_total_decimal")
	}
	if percentualTotalDecimal <= 0 {
		return zero, domain.NovoErroForaDoIntervalo("percentual_total_decimal", "percentual total deve ser maior que zero")
	}

	denominador := 1 - percentualTotalDecimal
	if denominador <= 0 {
		return zero, domain.NovoErroInviavel("percentual_total_decimal",
			"percentual total deve ser menor que 1", 1)
	}

	precoBase := custoContabil / denominador
	return domain.ResultadoMetodo{
		Metodo:    "divisao",
		CustoBase: custoContabil,
		Parametros: map[string]float64{
			"percentual_total_decimal": percentualTotalDecimal,
		},
		PrecoBase:   precoBase,
		AliquotaIPI: aliquotaIPI,
		PrecoFinal:  aplicarIPI(precoBase, aliquotaIPI),
		Validacao:   domain.ValidacaoMetodo{Denominador: denominador, ParametroMaximo: 1},
	}, nil
}

// CalcularMetodoMultiplicacao: preco_base = custo × fator, com fator > 1.
func (s *service) CalcularMetodoMultiplicacao(custoContabil, fator, aliquotaIPI float64) (domain.ResultadoMetodo, error) {
	var zero domain.ResultadoMetodo
	if err := validarEntradaMetodo(custoContabil, aliquotaIPI); err != nil {
		return zero, err
	}
	if !domain.NumeroValido(fator) {
		return zero, domain.NovoErroCampoAusente("fator")
	}
	if fator <= 1 {
		return zero, domain.NovoErroForaDoIntervalo("fator", "fator multiplicador deve ser maior que 1")
	}

	precoBase := custoContabil * fator
	return domain.ResultadoMetodo{
		Metodo:    "multiplicacao",
		CustoBase: custoContabil,
		Parametros: map[string]float64{
			"fator": fator,
		},
		PrecoBase:   precoBase,
		AliquotaIPI: aliquotaIPI,
		PrecoFinal:  aplicarIPI(precoBase, aliquotaIPI),
		Validacao:   domain.ValidacaoMetodo{Denominador: 1, ParametroMaximo: 0},
	}, nil
}
