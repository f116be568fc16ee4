// internal/domain/models.go
package domain

// RegimeTributario identifica o regime do importador. Determina quais créditos
// tributários podem ser abatidos no cálculo de custos.
type RegimeTributario string

const (
	RegimeSimplesNacional RegimeTributario = "simples_nacional"
	RegimeLucroPresumido  RegimeTributario = "lucro_presumido"
	RegimeLucroReal       RegimeTributario = "lucro_real"
)

// Valido informa se o regime é um dos três regimes reconhecidos.
func (r RegimeTributario) Valido() bool {
	switch r {
	case RegimeSimplesNacional, RegimeLucroPresumido, RegimeLucroReal:
		return true
	}
	return false
}

// Importador é o destinatário da carga. A UF é obrigatória para toda consulta
// de alíquota estadual.
type Importador struct {
	CNPJ string `json:"cnpj"`
	Nome string `json:"nome"`
	UF   string `json:"uf"`
}

// DespesasAduaneiras agrupa as despesas compartilhadas da declaração.
// Cada valor é monetário e não-negativo.
type DespesasAduaneiras struct {
	Siscomex  float64 `json:"siscomex"`
	AFRMM     float64 `json:"afrmm"`
	Capatazia float64 `json:"capatazia"`
}

// Total soma as despesas aduaneiras da declaração.
func (d DespesasAduaneiras) Total() float64 {
	return d.Siscomex + d.AFRMM + d.Capatazia
}

// TributosAdicao carrega as alíquotas e bases de cálculo presentes na adição
// (vindas do documento) e os valores devidos calculados pelo motor.
//
// Alíquotas e bases são ponteiros: campo ausente no documento é nil e nunca é
// substituído por zero.
type TributosAdicao struct {
	IIAliquota     *float64 `json:"ii_aliquota"`
	IIBase         *float64 `json:"ii_base"`
	IPIAliquota    *float64 `json:"ipi_aliquota"`
	IPIBase        *float64 `json:"ipi_base"`
	PISAliquota    *float64 `json:"pis_aliquota"`
	PISBase        *float64 `json:"pis_base"`
	COFINSAliquota *float64 `json:"cofins_aliquota"`
	COFINSBase     *float64 `json:"cofins_base"`

	IIValor     float64 `json:"ii_valor_devido"`
	IPIValor    float64 `json:"ipi_valor_devido"`
	PISValor    float64 `json:"pis_valor_devido"`
	COFINSValor float64 `json:"cofins_valor_devido"`
}

// Produto é um item de fatura dentro de uma adição.
//
// ICMSValorDevido é opcional: quando presente (pré-calculado pelo colaborador
// de parsing) é usado diretamente; quando nil a parcela é rateada a partir do
// ICMS total da declaração.
type Produto struct {
	Sequencial       int      `json:"sequencial"`
	Descricao        string   `json:"descricao"`
	Quantidade       float64  `json:"quantidade"`
	Unidade          string   `json:"unidade"`
	ValorUnitarioUSD float64  `json:"valor_unitario_usd"`
	ValorTotalUSD    float64  `json:"valor_total_usd"`
	ValorUnitarioBRL float64  `json:"valor_unitario_brl"`
	ValorTotalBRL    float64  `json:"valor_total_brl"`
	ICMSValorDevido  *float64 `json:"icms_valor_devido,omitempty"`
}

// Adicao é uma linha de classificação fiscal da declaração.
type Adicao struct {
	Numero               int            `json:"numero"`
	NCM                  string         `json:"ncm"`
	ValorMoedaNegociacao float64        `json:"valor_moeda_negociacao"`
	ValorReais           float64        `json:"valor_reais"`
	FreteValorReais      float64        `json:"frete_valor_reais"`
	SeguroValorReais     float64        `json:"seguro_valor_reais"`
	Incoterm             string         `json:"incoterm"`
	Fornecedor           string         `json:"fornecedor"`
	Fabricante           string         `json:"fabricante"`
	PesoLiquido          float64        `json:"peso_liquido"`
	Tributos             TributosAdicao `json:"tributos"`
	Produtos             []Produto      `json:"produtos"`

	// Preenchido pelo rateio: parcela da adição em cada despesa compartilhada,
	// mais a chave "total".
	DespesasRateadas map[string]float64 `json:"despesas_rateadas,omitempty"`
}

// ResultadoICMS é a saída do gross-up "por dentro".
type ResultadoICMS struct {
	Aliquota    float64 `json:"aliquota"`
	BaseAntes   float64 `json:"base_antes"`
	BaseFinal   float64 `json:"base_final"`
	ValorDevido float64 `json:"valor_devido"`
}

// TributosFederais agrega os valores devidos de uma adição ou da declaração.
type TributosFederais struct {
	II     float64 `json:"ii"`
	IPI    float64 `json:"ipi"`
	PIS    float64 `json:"pis"`
	COFINS float64 `json:"cofins"`
}

// Soma retorna II + IPI + PIS + COFINS.
func (t TributosFederais) Soma() float64 {
	return t.II + t.IPI + t.PIS + t.COFINS
}

// TotaisDI consolida os tributos e despesas da declaração inteira.
type TotaisDI struct {
	Federais         TributosFederais `json:"federais"`
	ICMS             ResultadoICMS    `json:"icms"`
	DespesasTotal    float64          `json:"despesas_total"`
	ValorAduaneiro   float64          `json:"valor_aduaneiro"`
	CargaTributaria  float64          `json:"carga_tributaria"`
	CustoTotalImport float64          `json:"custo_total_importacao"`
}

// Declaracao é o agregado raiz: uma DI já validada pelo colaborador de parsing.
type Declaracao struct {
	NumeroDI            string             `json:"numero_di"`
	DataRegistro        string             `json:"data_registro"`
	Importador          Importador         `json:"importador"`
	TaxaCambio          float64            `json:"taxa_cambio"`
	Adicoes             []Adicao           `json:"adicoes"`
	Despesas            DespesasAduaneiras `json:"despesas"`
	ValorTotalFOB       float64            `json:"valor_total_fob"`
	ValorAduaneiroTotal float64            `json:"valor_aduaneiro_total"`

	// Preenchido pelo motor de cálculo.
	Totais *TotaisDI `json:"totais,omitempty"`
}

// Razao é a fatia de um item ou adição sobre um total compartilhado.
// Objeto efêmero, calculado sob demanda e nunca persistido.
type Razao struct {
	Percentual float64 `json:"percentual"`
	ValorItem  float64 `json:"valor_item"`
	ValorTotal float64 `json:"valor_total"`
}

// CreditoTributario detalha os créditos recuperáveis por regime.
type CreditoTributario struct {
	PIS    float64 `json:"pis"`
	COFINS float64 `json:"cofins"`
	IPI    float64 `json:"ipi"`
	ICMS   float64 `json:"icms"`
	Total  float64 `json:"total"`
}

// ParametrosGerenciais são os parâmetros informados pelo gestor para a
// cascata de custos. Percentuais em números inteiros (19.0 = 19%).
type ParametrosGerenciais struct {
	EncargosFinanceirosPercentual float64 `json:"encargos_financeiros_percentual"`
	TributosRecuperaveisOutros    float64 `json:"tributos_recuperaveis_outros"`
	CustosIndiretosPercentual     float64 `json:"custos_indiretos_percentual"`
	MargemOperacionalPercentual   float64 `json:"margem_operacional_percentual"`
}

// CascataCustos são os quatro patamares de custo da declaração, sempre
// recalculados por inteiro.
type CascataCustos struct {
	Regime            RegimeTributario  `json:"regime"`
	CustoBase         float64           `json:"custo_base"`
	Creditos          CreditoTributario `json:"creditos"`
	CustoDesembolso   float64           `json:"custo_desembolso"`
	CustoContabil     float64           `json:"custo_contabil"`
	BaseFormacaoPreco float64           `json:"base_formacao_preco"`
}

// TipoMargem é a união fechada de variantes de margem da precificação de item.
// Qualquer outro valor é erro fatal, sem variante padrão.
type TipoMargem string

const (
	MargemPercentual  TipoMargem = "percentual"
	MargemMarkupFixo  TipoMargem = "markup_fixo"
	MargemPrecoManual TipoMargem = "preco_manual"
)

// Margem carrega a variante e seu valor.
type Margem struct {
	Tipo  TipoMargem `json:"tipo"`
	Valor float64    `json:"valor"`
}

// Cenario descreve o contexto comercial de precificação de um item.
type Cenario struct {
	Regime    RegimeTributario `json:"regime"`
	UFDestino string           `json:"uf_destino"`
}

// CustoItem é o detalhamento do custo contábil de um produto.
// ICMSPreCalculado distingue os dois ramos explícitos da parcela de ICMS:
// valor pré-calculado no item ou rateado do total da declaração.
type CustoItem struct {
	Sequencial         int              `json:"sequencial"`
	CustosDiretos      float64          `json:"custos_diretos"`
	Federais           TributosFederais `json:"federais"`
	ICMSParcela        float64          `json:"icms_parcela"`
	ICMSPreCalculado   bool             `json:"icms_pre_calculado"`
	DespesasRateadas   float64          `json:"despesas_rateadas"`
	CustoContabilTotal float64          `json:"custo_contabil_total"`
}

// PrecoItem é o resultado da precificação de um produto.
type PrecoItem struct {
	CustoContabil   float64 `json:"custo_contabil"`
	Creditos        float64 `json:"creditos"`
	PrecoMargemZero float64 `json:"preco_margem_zero"`
	PrecoComMargem  float64 `json:"preco_com_margem"`
	ICMSVendaValor  float64 `json:"icms_venda_valor"`
	PrecoVendaFinal float64 `json:"preco_venda_final"`
}

// ValidacaoMetodo registra o denominador usado por um método de precificação e
// o maior parâmetro viável. Diagnóstico, nunca correção automática.
type ValidacaoMetodo struct {
	Denominador     float64 `json:"denominador"`
	ParametroMaximo float64 `json:"parametro_maximo"`
}

// ResultadoMetodo é a saída de um método de precificação. Independente entre
// métodos, sem estado compartilhado.
type ResultadoMetodo struct {
	Metodo      string             `json:"metodo"`
	CustoBase   float64            `json:"custo_base"`
	Parametros  map[string]float64 `json:"parametros"`
	PrecoBase   float64            `json:"preco_base"`
	AliquotaIPI float64            `json:"aliquota_ipi"`
	PrecoFinal  float64            `json:"preco_final"`
	Validacao   ValidacaoMetodo    `json:"validacao"`
}

// CategoriaMonofasica é uma categoria de tributação monofásica de PIS/COFINS,
// identificada por prefixos de NCM.
type CategoriaMonofasica struct {
	Categoria string   `json:"categoria"`
	NCMs      []string `json:"ncms"`
}

// RegraRegime são as regras de crédito de um regime tributário.
type RegraRegime struct {
	PermiteCreditoImportacao bool   `json:"permite_credito_importacao"`
	Descricao                string `json:"descricao"`
}

// ProgramaIncentivo é a definição de um incentivo fiscal já resolvido.
type ProgramaIncentivo struct {
	Codigo            string   `json:"codigo"`
	Nome              string   `json:"nome"`
	Tipo              string   `json:"tipo"`
	UF                string   `json:"uf"`
	NCMsContemplados  []string `json:"ncms_contemplados"`
	PercentualReducao float64  `json:"percentual_reducao"`
}

// RegimesEspeciais é o resultado da detecção por NCM: monofásico é exclusivo
// (primeiro prefixo que casa), incentivos são cumulativos (um por UF elegível).
type RegimesEspeciais struct {
	NCM        string               `json:"ncm"`
	Monofasico *CategoriaMonofasica `json:"monofasico,omitempty"`
	Incentivos []ProgramaIncentivo  `json:"incentivos"`
}

// AliquotaUF é a alíquota interna de ICMS e o FCP de um estado.
type AliquotaUF struct {
	AliquotaInterna float64 `json:"aliquota_interna"`
	FCP             float64 `json:"fcp"`
}

// PercentuaisTributos é o pacote de percentuais de venda entregue ao motor de
// precificação. Percentuais em números inteiros.
type PercentuaisTributos struct {
	ICMS   float64 `json:"icms"`
	PIS    float64 `json:"pis"`
	COFINS float64 `json:"cofins"`
}

// Soma retorna a carga percentual total.
func (p PercentuaisTributos) Soma() float64 {
	return p.ICMS + p.PIS + p.COFINS
}

// ComparativoIncentivo é o relatório lado a lado de aplicação de incentivo.
type ComparativoIncentivo struct {
	Programa                 ProgramaIncentivo   `json:"programa"`
	Aplicado                 bool                `json:"aplicado"`
	PercentuaisOriginais     PercentuaisTributos `json:"percentuais_originais"`
	PercentuaisComIncentivos PercentuaisTributos `json:"percentuais_com_incentivos"`
	EconomiaTotal            float64             `json:"economia_total"`
}
