// internal/core/custos/service.go
package custos

import (
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

// Service deriva a estrutura de custos em quatro patamares da declaração,
// dado o regime tributário e os parâmetros gerenciais. A sequência é estrita:
//
//	Custo Base → Custo Desembolso → Custo Contábil → Base de Formação de Preço
//
// e a cascata nunca é atualizada parcialmente: todo recálculo é integral.
type Service interface {
	CalcularCreditos(regime domain.RegimeTributario, federais domain.TributosFederais, icms float64, regra domain.RegraRegime) (domain.CreditoTributario, error)
	CalcularCascata(totais domain.TotaisDI, regime domain.RegimeTributario, regra domain.RegraRegime, params domain.ParametrosGerenciais) (domain.CascataCustos, error)
}

type service struct{}

// NewService cria o calculador de cascata de custos.
func NewService() Service {
	return &service{}
}

// validarPercentual confere que o parâmetro é finito e está no domínio.
// Parâmetro ausente ou fora do domínio é erro fatal de entrada, nunca defaultado.
func validarPercentual(valor float64, campo string, maximo float64) error {
	if !domain.NumeroValido(valor) {
		return domain.NovoErroCampoAusente(campo)
	}
	if valor < 0 || valor > maximo {
		return domain.NovoErroForaDoIntervalo(campo, "percentual fora do domínio permitido")
	}
	return nil
}

// CalcularCreditos resolve os créditos recuperáveis por regime:
//
//	simples_nacional: zero (tributação unificada)
//	lucro_presumido:  IPI + ICMS
//	lucro_real:       PIS + COFINS + IPI + ICMS quando a regra permite crédito
//	                  de importação; sem a permissão, apenas IPI + ICMS
func (s *service) CalcularCreditos(regime domain.RegimeTributario, federais domain.TributosFederais, icms float64, regra domain.RegraRegime) (domain.CreditoTributario, error) {
	var creditos domain.CreditoTributario
	if !domain.NumeroValido(icms) {
		return creditos, domain.NovoErroCampoAusente("icms")
	}

	switch regime {
	case domain.RegimeSimplesNacional:
		// sem créditos
	case domain.RegimeLucroPresumido:
		creditos.IPI = federais.IPI
		creditos.ICMS = icms
	case domain.RegimeLucroReal:
		creditos.IPI = federais.IPI
		creditos.ICMS = icms
		if regra.PermiteCreditoImportacao {
			creditos.PIS = federais.PIS
			creditos.COFINS = federais.COFINS
		}
	default:
		return creditos, domain.NovoErroForaDoIntervalo("regime", "regime tributário desconhecido")
	}

	creditos.Total = creditos.PIS + creditos.COFINS + creditos.IPI + creditos.ICMS
	return creditos, nil
}

// CalcularCascata executa os quatro patamares:
//
//  1. Custo Base = valor aduaneiro + II + IPI + PIS + COFINS + ICMS + despesas
//  2. Custo Desembolso = Custo Base − créditos do regime
//  3. Custo Contábil = Desembolso + Desembolso × encargos% − tributos recuperáveis outros
//  4. Base de Formação de Preço = Contábil + Contábil × indiretos% + Contábil × margem%
func (s *service) CalcularCascata(totais domain.TotaisDI, regime domain.RegimeTributario, regra domain.RegraRegime, params domain.ParametrosGerenciais) (domain.CascataCustos, error) {
	var zero domain.CascataCustos

	if err := validarPercentual(params.EncargosFinanceirosPercentual, "encargos_financeiros_percentual", 100); err != nil {
		return zero, err
	}
	if err := validarPercentual(params.CustosIndiretosPercentual, "custos_indiretos_percentual", 100); err != nil {
		return zero, err
	}
	// A margem operacional admite até 1000%.
	if err := validarPercentual(params.MargemOperacionalPercentual, "margem_operacional_percentual", 1000); err != nil {
		return zero, err
	}
	if !domain.NumeroValido(params.TributosRecuperaveisOutros) {
		return zero, domain.NovoErroCampoAusente("tributos_recuperaveis_outros")
	}
	if params.TributosRecuperaveisOutros < 0 {
		return zero, domain.NovoErroForaDoIntervalo("tributos_recuperaveis_outros", "valor não pode ser negativo")
	}

	creditos, err := s.CalcularCreditos(regime, totais.Federais, totais.ICMS.ValorDevido, regra)
	if err != nil {
		return zero, err
	}

	custoBase := totais.ValorAduaneiro +
		totais.Federais.Soma() +
		totais.ICMS.ValorDevido +
		totais.DespesasTotal

	custoDesembolso := custoBase - creditos.Total

	custoContabil := custoDesembolso +
		custoDesembolso*(params.EncargosFinanceirosPercentual/100) -
		params.TributosRecuperaveisOutros

	baseFormacao := custoContabil +
		custoContabil*(params.CustosIndiretosPercentual/100) +
		custoContabil*(params.MargemOperacionalPercentual/100)

	return domain.CascataCustos{
		Regime:            regime,
		CustoBase:         custoBase,
		Creditos:          creditos,
		CustoDesembolso:   custoDesembolso,
		CustoContabil:     custoContabil,
		BaseFormacaoPreco: baseFormacao,
	}, nil
}
