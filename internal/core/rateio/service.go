// internal/core/rateio/service.go
package rateio

import (
	"fmt"

	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
)

// ChaveTotal é a chave agregadora acrescentada a todo mapa rateado.
const ChaveTotal = "total"

// Service distribui totais compartilhados proporcionalmente à participação de
// cada adição ou item no valor total.
//
// A ordem é sempre hierárquica: primeiro o nível da adição (participação sobre
// o valor aduaneiro da declaração), depois o nível do item (participação sobre
// o valor da adição-mãe). Inverter os níveis duplicaria despesas.
type Service interface {
	CalcularRazao(valorItem, valorTotal float64) (domain.Razao, error)
	Ratear(valores map[string]float64, razao domain.Razao) map[string]float64
	RatearDeclaracao(di *domain.Declaracao, icmsTotal float64) error
	RazaoItem(produto *domain.Produto, adicao *domain.Adicao) (domain.Razao, error)
}

type service struct{}

// NewService cria o motor de rateio.
func NewService() Service {
	return &service{}
}

// CalcularRazao devolve a participação valorItem/valorTotal.
// valorTotal <= 0 inviabiliza o denominador e é erro fatal.
func (s *service) CalcularRazao(valorItem, valorTotal float64) (domain.Razao, error) {
	if !domain.NumeroValido(valorItem) || !domain.NumeroValido(valorTotal) {
		return domain.Razao{}, domain.NovoErroCampoAusente("razao")
	}
	if valorTotal <= 0 {
		return domain.Razao{}, domain.NovoErroForaDoIntervalo("valor_total", "denominador do rateio deve ser maior que zero")
	}
	if valorItem < 0 {
		return domain.Razao{}, domain.NovoErroForaDoIntervalo("valor_item", "valor do item não pode ser negativo")
	}
	return domain.Razao{
		Percentual: valorItem / valorTotal,
		ValorItem:  valorItem,
		ValorTotal: valorTotal,
	}, nil
}

// Ratear devolve um novo mapa com cada valor multiplicado pelo percentual da
// razão, mais a chave "total" somando as parcelas. O mapa de origem não é
// alterado. O esquema de despesas garante folhas numéricas, então todo par do
// mapa participa do rateio.
func (s *service) Ratear(valores map[string]float64, razao domain.Razao) map[string]float64 {
	rateado := make(map[string]float64, len(valores)+1)
	var total float64
	for chave, valor := range valores {
		if chave == ChaveTotal {
			continue
		}
		parcela := valor * razao.Percentual
		rateado[chave] = parcela
		total += parcela
	}
	rateado[ChaveTotal] = total
	return rateado
}

// RazaoItem calcula a participação de um produto sobre sua adição-mãe.
func (s *service) RazaoItem(produto *domain.Produto, adicao *domain.Adicao) (domain.Razao, error) {
	if produto == nil {
		return domain.Razao{}, domain.NovoErroCampoAusente("produto")
	}
	if adicao == nil {
		return domain.Razao{}, domain.NovoErroCampoAusente("adicao")
	}
	return s.CalcularRazao(produto.ValorTotalBRL, adicao.ValorReais)
}

// RatearDeclaracao distribui as despesas compartilhadas e o ICMS da declaração
// entre as adições, preenchendo Adicao.DespesasRateadas. Frete e seguro já são
// campos da própria adição e não entram no rateio.
func (s *service) RatearDeclaracao(di *domain.Declaracao, icmsTotal float64) error {
	if di == nil {
		return domain.NovoErroCampoAusente("declaracao")
	}
	if di.ValorAduaneiroTotal <= 0 {
		return domain.NovoErroForaDoIntervalo("valor_aduaneiro_total", "denominador do rateio deve ser maior que zero")
	}

	compartilhados := map[string]float64{
		"siscomex":  di.Despesas.Siscomex,
		"afrmm":     di.Despesas.AFRMM,
		"capatazia": di.Despesas.Capatazia,
		"icms":      icmsTotal,
	}

	for i := range di.Adicoes {
		adicao := &di.Adicoes[i]
		if adicao.ValorReais <= 0 {
			return domain.NovoErroForaDoIntervalo(
				fmt.Sprintf("adicao[%d].valor_reais", adicao.Numero),
				"valor em reais da adição deve ser maior que zero")
		}
		razao, err := s.CalcularRazao(adicao.ValorReais, di.ValorAduaneiroTotal)
		if err != nil {
			return err
		}
		adicao.DespesasRateadas = s.Ratear(compartilhados, razao)
	}
	return nil
}
