// internal/core/incentivos/service.go
package incentivos

import (
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

// TipoReducaoBaseICMS é o único tipo de benefício aplicado numericamente pelo
// núcleo. Outros tipos são registrados no comparativo sem aplicação.
const TipoReducaoBaseICMS = "reducao_base_icms"

// Service aplica um incentivo fiscal já resolvido sobre o pacote de
// percentuais tributários antes da formação de preço, produzindo o relatório
// lado a lado para auditoria.
type Service interface {
	Aplicar(percentuais domain.PercentuaisTributos, programa domain.ProgramaIncentivo) (domain.ComparativoIncentivo, error)
}

type service struct{}

// NewService cria a camada de aplicação de incentivos.
func NewService() Service {
	return &service{}
}

// Aplicar multiplica o percentual de ICMS por (1 − reducao/100) quando o
// benefício é de redução de base de ICMS. A economia é a diferença entre as
// cargas percentuais totais, antes e depois.
func (s *service) Aplicar(percentuais domain.PercentuaisTributos, programa domain.ProgramaIncentivo) (domain.ComparativoIncentivo, error) {
	var zero domain.ComparativoIncentivo
	if programa.Tipo == "" {
		return zero, domain.NovoErroCampoAusente("programa.tipo")
	}
	if !domain.NumeroValido(programa.PercentualReducao) {
		return zero, domain.NovoErroCampoAusente("programa.percentual_reducao")
	}
	if programa.PercentualReducao < 0 || programa.PercentualReducao > 100 {
		return zero, domain.NovoErroForaDoIntervalo("programa.percentual_reducao", "redução deve estar entre 0 e 100")
	}

	comparativo := domain.ComparativoIncentivo{
		Programa:                 programa,
		PercentuaisOriginais:     percentuais,
		PercentuaisComIncentivos: percentuais,
	}

	if programa.Tipo == TipoReducaoBaseICMS {
		comparativo.Aplicado = true
		comparativo.PercentuaisComIncentivos.ICMS = percentuais.ICMS * (1 - programa.PercentualReducao/100)
	}

	comparativo.EconomiaTotal = comparativo.PercentuaisOriginais.Soma() - comparativo.PercentuaisComIncentivos.Soma()
	return comparativo, nil
}
