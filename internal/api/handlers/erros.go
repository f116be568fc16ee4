// internal/api/handlers/erros.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/LuisEduardoPedra/calculoDI/internal/api/responses"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
	"github.com/gin-gonic/gin"
)

// responderErro traduz os erros do núcleo para o envelope HTTP: erro de
// validação vira 400, tabelas não carregadas vira 503, o restante 500.
// O núcleo nunca rebaixa erro para valor padrão; a apresentação é daqui.
func responderErro(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNaoInicializado):
		responses.Error(c, http.StatusServiceUnavailable, "Tabelas de cálculo ainda não carregadas", err.Error())
	case domain.EhErroValidacao(err):
		responses.Error(c, http.StatusBadRequest, "Entrada inválida para o cálculo", err.Error())
	default:
		responses.Error(c, http.StatusInternalServerError, "Falha interna no cálculo", err.Error())
	}
}
