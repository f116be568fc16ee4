// internal/core/impostos/service.go
package impostos

import (
	"fmt"

	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

// Service calcula os tributos federais de cada adição e o ICMS da declaração
// pelo método "por dentro". Alíquotas em números inteiros (19.0 = 19%).
type Service interface {
	CalcularTributosFederais(adicao *domain.Adicao) (domain.TributosFederais, error)
	CalcularICMS(baseAntes, aliquota float64) (domain.ResultadoICMS, error)
}

type service struct{}

// NewService cria o calculador de tributos.
func NewService() Service {
	return &service{}
}

// campoNumerico valida presença e finitude de um campo obrigatório da adição.
func campoNumerico(v *float64, campo string) (float64, error) {
	if v == nil {
		return 0, domain.NovoErroCampoAusente(campo)
	}
	if !domain.NumeroValido(*v) {
		return 0, domain.NovoErroCampoAusente(campo)
	}
	return *v, nil
}

// CalcularTributosFederais lê as alíquotas ad valorem e bases já presentes na
// adição e calcula II, IPI, PIS e COFINS. Nenhuma alíquota é inventada e campo
// ausente é erro fatal, nunca zero.
func (s *service) CalcularTributosFederais(adicao *domain.Adicao) (domain.TributosFederais, error) {
	var zero domain.TributosFederais
	if adicao == nil {
		return zero, domain.NovoErroCampoAusente("adicao")
	}

	prefixo := fmt.Sprintf("adicao[%d].tributos.", adicao.Numero)
	tipo := []struct {
		nome     string
		aliquota *float64
		base     *float64
		destino  *float64
	}{
		{"ii", adicao.Tributos.IIAliquota, adicao.Tributos.IIBase, &adicao.Tributos.IIValor},
		{"ipi", adicao.Tributos.IPIAliquota, adicao.Tributos.IPIBase, &adicao.Tributos.IPIValor},
		{"pis", adicao.Tributos.PISAliquota, adicao.Tributos.PISBase, &adicao.Tributos.PISValor},
		{"cofins", adicao.Tributos.COFINSAliquota, adicao.Tributos.COFINSBase, &adicao.Tributos.COFINSValor},
	}

	var resultado domain.TributosFederais
	valores := map[string]*float64{
		"ii":     &resultado.II,
		"ipi":    &resultado.IPI,
		"pis":    &resultado.PIS,
		"cofins": &resultado.COFINS,
	}

	for _, t := range tipo {
		aliquota, err := campoNumerico(t.aliquota, prefixo+t.nome+"_aliquota")
		if err != nil {
			return zero, err
		}
		base, err := campoNumerico(t.base, prefixo+t.nome+"_base")
		if err != nil {
			return zero, err
		}
		if aliquota < 0 {
			return zero, domain.NovoErroForaDoIntervalo(prefixo+t.nome+"_aliquota", "alíquota negativa")
		}
		devido := domain.ArredondarMoeda(base * aliquota / 100)
		*t.destino = devido
		*valores[t.nome] = devido
	}

	return resultado, nil
}

// CalcularICMS aplica o gross-up mandatório do ICMS embutido na própria base:
//
//	base_final = base_antes / (1 - aliquota/100)
//	icms_devido = base_final - base_antes
//
// onde base_antes = valor aduaneiro + II + IPI + PIS + COFINS + despesas
// aduaneiras rateadas.
func (s *service) CalcularICMS(baseAntes, aliquota float64) (domain.ResultadoICMS, error) {
	var zero domain.ResultadoICMS
	if !domain.NumeroValido(baseAntes) {
		return zero, domain.NovoErroCampoAusente("base_antes")
	}
	if !domain.NumeroValido(aliquota) {
		return zero, domain.NovoErroCampoAusente("aliquota_icms")
	}
	if baseAntes < 0 {
		return zero, domain.NovoErroForaDoIntervalo("base_antes", "base de cálculo negativa")
	}
	if aliquota < 0 {
		return zero, domain.NovoErroForaDoIntervalo("aliquota_icms", "alíquota negativa")
	}
	if aliquota >= 100 {
		return zero, domain.NovoErroForaDoIntervalo("aliquota_icms", "alíquota deve ser menor que 100%")
	}

	baseFinal := baseAntes / (1 - aliquota/100)
	return domain.ResultadoICMS{
		Aliquota:    aliquota,
		BaseAntes:   baseAntes,
		BaseFinal:   baseFinal,
		ValorDevido: baseFinal - baseAntes,
	}, nil
}
