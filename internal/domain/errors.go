// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// ErrNaoInicializado é devolvido quando qualquer cálculo é invocado antes do
// carregamento das tabelas de alíquotas e regras.
var ErrNaoInicializado = errors.New("tabelas de alíquotas e regras ainda não carregadas")

// TipoErro classifica os erros de validação do motor de cálculo.
// O princípio do motor é falhar imediatamente: nenhum erro é rebaixado para um
// valor padrão dentro do núcleo.
type TipoErro int

const (
	ErroCampoAusente    TipoErro = 1 // campo obrigatório ausente, nulo ou não-numérico
	ErroForaDoIntervalo TipoErro = 2 // percentual ou razão fora do domínio válido
	ErroInviavel        TipoErro = 3 // combinação de parâmetros zera ou negativa o denominador
)

// ErroValidacao é o erro tipado do núcleo. MaximoViavel acompanha apenas os
// erros de inviabilidade, informando o maior parâmetro aceitável.
type ErroValidacao struct {
	Tipo         TipoErro
	Campo        string
	Mensagem     string
	MaximoViavel *float64
}

func (e *ErroValidacao) Error() string {
	if e.MaximoViavel != nil {
		return fmt.Sprintf("%s: %s (máximo viável: %.4f)", e.Campo, e.Mensagem, *e.MaximoViavel)
	}
	if e.Campo == "" {
		return e.Mensagem
	}
	return fmt.Sprintf("%s: %s", e.Campo, e.Mensagem)
}

// NovoErroCampoAusente cria um erro de campo obrigatório ausente.
func NovoErroCampoAusente(campo string) *ErroValidacao {
	return &ErroValidacao{
		Tipo:     ErroCampoAusente,
		Campo:    campo,
		Mensagem: "campo obrigatório ausente ou não-numérico",
	}
}

// NovoErroForaDoIntervalo cria um erro de domínio com a mensagem dada.
func NovoErroForaDoIntervalo(campo, mensagem string) *ErroValidacao {
	return &ErroValidacao{
		Tipo:     ErroForaDoIntervalo,
		Campo:    campo,
		Mensagem: mensagem,
	}
}

// NovoErroInviavel cria um erro de inviabilidade carregando o maior parâmetro
// viável para correção pelo usuário.
func NovoErroInviavel(campo, mensagem string, maximoViavel float64) *ErroValidacao {
	return &ErroValidacao{
		Tipo:         ErroInviavel,
		Campo:        campo,
		Mensagem:     mensagem,
		MaximoViavel: &maximoViavel,
	}
}

// EhErroValidacao informa se err (ou algum erro embrulhado) é um ErroValidacao.
func EhErroValidacao(err error) bool {
	var ev *ErroValidacao
	return errors.As(err, &ev)
}
