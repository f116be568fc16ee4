// internal/api/handlers/precificacao_handler.go
package handlers

import (
	"net/http"

	"github.com/LuisEduardoPedra/calculoDI/internal/api/responses"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/incentivos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/precificacao"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
	"github.com/gin-gonic/gin"
)

// PrecificacaoHandler expõe os métodos de formação de preço, a precificação de
// item, a detecção de regimes especiais e a aplicação de incentivos.
type PrecificacaoHandler struct {
	service    precificacao.Service
	incentivos incentivos.Service
}

func NewPrecificacaoHandler(service precificacao.Service, incentivosSvc incentivos.Service) *PrecificacaoHandler {
	return &PrecificacaoHandler{service: service, incentivos: incentivosSvc}
}

type metodoRequest struct {
	Metodo        string   `json:"metodo" binding:"required"`
	CustoContabil *float64 `json:"custo_contabil" binding:"required"`
	AliquotaIPI   *float64 `json:"aliquota_ipi" binding:"required"`

	// Parâmetros por método, na escala que cada método exige.
	MargemDecimal          *float64 `json:"margem_decimal,omitempty"`
	TributosDecimal        *float64 `json:"tributos_decimal,omitempty"`
	MargemPercentual       *float64 `json:"margem_percentual,omitempty"`
	TributosPercentual     *float64 `json:"tributos_percentual,omitempty"`
	PercentualTotalDecimal *float64 `json:"percentual_total_decimal,omitempty"`
	Fator                  *float64 `json:"fator,omitempty"`
}

// HandleMetodo executa um dos quatro métodos de formação de preço.
func (h *PrecificacaoHandler) HandleMetodo(c *gin.Context) {
	var req metodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	exigir := func(v *float64, campo string) (float64, bool) {
		if v == nil {
			responses.Error(c, http.StatusBadRequest, "Parâmetro obrigatório ausente", campo)
			return 0, false
		}
		return *v, true
	}

	var resultado domain.ResultadoMetodo
	var err error

	switch req.Metodo {
	case "margem":
		margem, ok := exigir(req.MargemDecimal, "margem_decimal")
		if !ok {
			return
		}
		tributos, ok := exigir(req.TributosDecimal, "tributos_decimal")
		if !ok {
			return
		}
		resultado, err = h.service.CalcularMetodoMargem(*req.CustoContabil, margem, tributos, *req.AliquotaIPI)
	case "markup":
		margem, ok := exigir(req.MargemPercentual, "margem_percentual")
		if !ok {
			return
		}
		tributos, ok := exigir(req.TributosPercentual, "tributos_percentual")
		if !ok {
			return
		}
		resultado, err = h.service.CalcularMetodoMarkup(*req.CustoContabil, margem, tributos, *req.AliquotaIPI)
	case "divisao":
		percentual, ok := exigir(req.PercentualTotalDecimal, "percentual_total_decimal")
		if !ok {
			return
		}
		resultado, err = h.service.CalcularMetodoDivisao(*req.CustoContabil, percentual, *req.AliquotaIPI)
	case "multiplicacao":
		fator, ok := exigir(req.Fator, "fator")
		if !ok {
			return
		}
		resultado, err = h.service.CalcularMetodoMultiplicacao(*req.CustoContabil, fator, *req.AliquotaIPI)
	default:
		responses.Error(c, http.StatusBadRequest, "Método de precificação desconhecido", req.Metodo)
		return
	}

	if err != nil {
		responderErro(c, err)
		return
	}
	responses.Success(c, resultado, "Método de precificação calculado")
}

type precoItemRequest struct {
	Custo   domain.CustoItem `json:"custo" binding:"required"`
	Margem  domain.Margem    `json:"margem" binding:"required"`
	Cenario domain.Cenario   `json:"cenario" binding:"required"`
}

// HandlePrecoItem calcula o preço de venda de um item a partir do seu custo
// contábil já detalhado.
func (h *PrecificacaoHandler) HandlePrecoItem(c *gin.Context) {
	var req precoItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	preco, err := h.service.CalcularPrecoComMargem(req.Custo, req.Margem, req.Cenario)
	if err != nil {
		responderErro(c, err)
		return
	}
	responses.Success(c, preco, "Preço do item calculado")
}

// HandleRegimesEspeciais detecta tributação monofásica e incentivos elegíveis
// para um NCM.
func (h *PrecificacaoHandler) HandleRegimesEspeciais(c *gin.Context) {
	ncm := c.Param("ncm")
	resultado, err := h.service.DetectarRegimesEspeciais(ncm)
	if err != nil {
		responderErro(c, err)
		return
	}
	responses.Success(c, resultado, "Detecção de regimes especiais concluída")
}

type aplicarIncentivoRequest struct {
	Percentuais domain.PercentuaisTributos `json:"percentuais" binding:"required"`
	Programa    domain.ProgramaIncentivo   `json:"programa" binding:"required"`
}

// HandleAplicarIncentivo aplica o benefício resolvido e devolve o comparativo.
func (h *PrecificacaoHandler) HandleAplicarIncentivo(c *gin.Context) {
	var req aplicarIncentivoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	comparativo, err := h.incentivos.Aplicar(req.Percentuais, req.Programa)
	if err != nil {
		responderErro(c, err)
		return
	}
	responses.Success(c, comparativo, "Incentivo aplicado ao comparativo")
}
