// internal/api/handlers/calculo_handler.go
package handlers

import (
	"net/http"

	"github.com/LuisEduardoPedra/calculoDI/internal/api/responses"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/calculo"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/memoria"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
	"github.com/gin-gonic/gin"
)

// CalculoHandler expõe o recálculo integral da declaração e a exportação da
// memória de cálculo.
type CalculoHandler struct {
	service calculo.Service
}

func NewCalculoHandler(service calculo.Service) *CalculoHandler {
	return &CalculoHandler{service: service}
}

type calcularRequest struct {
	Declaracao domain.Declaracao           `json:"declaracao" binding:"required"`
	Cenario    domain.Cenario              `json:"cenario" binding:"required"`
	Parametros domain.ParametrosGerenciais `json:"parametros" binding:"required"`
	Persistir  bool                        `json:"persistir"`
}

// HandleCalcular recalcula a declaração inteira e, quando pedido, persiste o
// resultado.
func (h *CalculoHandler) HandleCalcular(c *gin.Context) {
	var req calcularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	resultado, err := h.service.CalcularDeclaracao(&req.Declaracao, req.Cenario, req.Parametros)
	if err != nil {
		responderErro(c, err)
		return
	}

	if req.Persistir {
		if err := h.service.SalvarResultado(c.Request.Context(), resultado); err != nil {
			responderErro(c, err)
			return
		}
	}

	responses.Success(c, resultado, "Cálculo da declaração concluído")
}

// HandleMemoriaCSV recalcula a declaração e devolve a memória de cálculo em
// CSV (Windows-1252, separador ";") para o sistema contábil.
func (h *CalculoHandler) HandleMemoriaCSV(c *gin.Context) {
	var req calcularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
		return
	}

	resultado, err := h.service.CalcularDeclaracao(&req.Declaracao, req.Cenario, req.Parametros)
	if err != nil {
		responderErro(c, err)
		return
	}

	mem := memoria.Nova()
	for _, registro := range resultado.Memoria {
		mem.Registrar(registro.Etapa, registro.Formula, registro.Valores)
	}
	csvBytes, err := mem.ExportarCSV()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Falha ao gerar a memória de cálculo", err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="memoria_calculo_`+resultado.NumeroDI+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=windows-1252", csvBytes)
}
