// internal/core/memoria/service.go
package memoria

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Registro é uma entrada da memória de cálculo: etapa, fórmula aplicada e os
// valores intermediários suficientes para reconstruir o resultado.
type Registro struct {
	Etapa   string             `json:"etapa"`
	Formula string             `json:"formula"`
	Valores map[string]float64 `json:"valores"`
}

// Memoria acumula os registros de uma execução de cálculo, na ordem em que as
// etapas aconteceram. Receptor nil é seguro: chamadas viram no-op, permitindo
// ao chamador desligar o rastreio.
type Memoria struct {
	registros []Registro
}

// Nova cria uma memória de cálculo vazia.
func Nova() *Memoria {
	return &Memoria{}
}

// Registrar acrescenta uma entrada à memória. Os valores são copiados para que
// o mapa do chamador possa ser reutilizado.
func (m *Memoria) Registrar(etapa, formula string, valores map[string]float64) {
	if m == nil {
		return
	}
	copia := make(map[string]float64, len(valores))
	for k, v := range valores {
		copia[k] = v
	}
	m.registros = append(m.registros, Registro{Etapa: etapa, Formula: formula, Valores: copia})
}

// Registros devolve as entradas acumuladas na ordem de execução.
func (m *Memoria) Registros() []Registro {
	if m == nil {
		return nil
	}
	return m.registros
}

// ExportarCSV gera a memória de cálculo em CSV com separador ";" e codificação
// Windows-1252, o formato aceito pelos sistemas contábeis que consomem o
// arquivo. Uma linha por valor intermediário, chaves em ordem alfabética.
func (m *Memoria) ExportarCSV() ([]byte, error) {
	var buffer bytes.Buffer
	// Fórmulas podem conter símbolos fora do Windows-1252; substitui em vez
	// de abortar a exportação.
	encoder := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	writer := csv.NewWriter(transform.NewWriter(&buffer, encoder))
	writer.Comma = ';'

	header := []string{"Etapa", "Fórmula", "Grandeza", "Valor"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, registro := range m.Registros() {
		chaves := make([]string, 0, len(registro.Valores))
		for chave := range registro.Valores {
			chaves = append(chaves, chave)
		}
		sort.Strings(chaves)

		for _, chave := range chaves {
			record := []string{
				registro.Etapa,
				registro.Formula,
				chave,
				domain.FormatarBRL(registro.Valores[chave]),
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	return buffer.Bytes(), writer.Error()
}
