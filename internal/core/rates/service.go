// internal/core/rates/service.go
package rates

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/LuisEduardoPedra/calculoDI/internal/domain"
	"google.golang.org/api/iterator"
)

// Tabelas agrupa as tabelas estáticas consumidas pelo motor de cálculo.
// Depois de carregadas são tratadas como imutáveis pela sessão de cálculo.
type Tabelas struct {
	AliquotasICMS map[string]domain.AliquotaUF
	Monofasicos   []domain.CategoriaMonofasica
	RegrasRegime  map[domain.RegimeTributario]domain.RegraRegime
	Incentivos    []domain.ProgramaIncentivo
}

// Service fornece alíquotas e regras ao motor de cálculo. Todo acessor falha
// com domain.ErrNaoInicializado enquanto Carregar não tiver concluído.
type Service interface {
	Carregar(ctx context.Context) error
	AliquotaICMS(uf string) (domain.AliquotaUF, error)
	Monofasicos() ([]domain.CategoriaMonofasica, error)
	RegraRegime(regime domain.RegimeTributario) (domain.RegraRegime, error)
	Incentivos() ([]domain.ProgramaIncentivo, error)
}

type service struct {
	db        *firestore.Client
	carregado bool
	tabelas   Tabelas
}

// NewService cria um provider que carrega as tabelas do Firestore.
func NewService(db *firestore.Client) Service {
	return &service{db: db}
}

// NewServiceComTabelas cria um provider já inicializado com tabelas injetadas.
// Usado em testes e em cálculos offline.
func NewServiceComTabelas(t Tabelas) Service {
	return &service{tabelas: t, carregado: true}
}

// Carregar busca as quatro coleções e marca o provider como pronto.
// É a única etapa elegível a retry: até 3 tentativas com backoff linear.
func (s *service) Carregar(ctx context.Context) error {
	if s.carregado {
		return nil
	}
	if s.db == nil {
		return fmt.Errorf("carregar tabelas: cliente Firestore não configurado")
	}

	var err error
	for tentativa := 1; tentativa <= 3; tentativa++ {
		err = s.carregarColecoes(ctx)
		if err == nil {
			s.carregado = true
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("carregar tabelas: %w", ctx.Err())
		}
		time.Sleep(time.Duration(tentativa) * 500 * time.Millisecond)
	}
	return fmt.Errorf("carregar tabelas após 3 tentativas: %w", err)
}

func (s *service) carregarColecoes(ctx context.Context) error {
	aliquotas := make(map[string]domain.AliquotaUF)
	iter := s.db.Collection("aliquotas_icms").Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("coleção aliquotas_icms: %w", err)
		}
		var a domain.AliquotaUF
		if err := doc.DataTo(&a); err != nil {
			return fmt.Errorf("documento %s de aliquotas_icms: %w", doc.Ref.ID, err)
		}
		aliquotas[doc.Ref.ID] = a
	}

	var monofasicos []domain.CategoriaMonofasica
	iterMono := s.db.Collection("ncm_monofasicos").Documents(ctx)
	defer iterMono.Stop()
	for {
		doc, err := iterMono.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("coleção ncm_monofasicos: %w", err)
		}
		var c domain.CategoriaMonofasica
		if err := doc.DataTo(&c); err != nil {
			return fmt.Errorf("documento %s de ncm_monofasicos: %w", doc.Ref.ID, err)
		}
		if c.Categoria == "" {
			c.Categoria = doc.Ref.ID
		}
		monofasicos = append(monofasicos, c)
	}

	regras := make(map[domain.RegimeTributario]domain.RegraRegime)
	iterRegras := s.db.Collection("regras_regime").Documents(ctx)
	defer iterRegras.Stop()
	for {
		doc, err := iterRegras.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("coleção regras_regime: %w", err)
		}
		var r domain.RegraRegime
		if err := doc.DataTo(&r); err != nil {
			return fmt.Errorf("documento %s de regras_regime: %w", doc.Ref.ID, err)
		}
		regras[domain.RegimeTributario(doc.Ref.ID)] = r
	}

	var incentivos []domain.ProgramaIncentivo
	iterInc := s.db.Collection("incentivos_fiscais").Documents(ctx)
	defer iterInc.Stop()
	for {
		doc, err := iterInc.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("coleção incentivos_fiscais: %w", err)
		}
		var p domain.ProgramaIncentivo
		if err := doc.DataTo(&p); err != nil {
			return fmt.Errorf("documento %s de incentivos_fiscais: %w", doc.Ref.ID, err)
		}
		if p.Codigo == "" {
			p.Codigo = doc.Ref.ID
		}
		incentivos = append(incentivos, p)
	}

	s.tabelas = Tabelas{
		AliquotasICMS: aliquotas,
		Monofasicos:   monofasicos,
		RegrasRegime:  regras,
		Incentivos:    incentivos,
	}
	return nil
}

func (s *service) AliquotaICMS(uf string) (domain.AliquotaUF, error) {
	if !s.carregado {
		return domain.AliquotaUF{}, domain.ErrNaoInicializado
	}
	if uf == "" {
		return domain.AliquotaUF{}, domain.NovoErroCampoAusente("uf")
	}
	a, ok := s.tabelas.AliquotasICMS[uf]
	if !ok {
		return domain.AliquotaUF{}, domain.NovoErroCampoAusente("aliquotas_icms." + uf)
	}
	return a, nil
}

func (s *service) Monofasicos() ([]domain.CategoriaMonofasica, error) {
	if !s.carregado {
		return nil, domain.ErrNaoInicializado
	}
	return s.tabelas.Monofasicos, nil
}

func (s *service) RegraRegime(regime domain.RegimeTributario) (domain.RegraRegime, error) {
	if !s.carregado {
		return domain.RegraRegime{}, domain.ErrNaoInicializado
	}
	if !regime.Valido() {
		return domain.RegraRegime{}, domain.NovoErroForaDoIntervalo("regime", fmt.Sprintf("regime tributário desconhecido: %q", regime))
	}
	r, ok := s.tabelas.RegrasRegime[regime]
	if !ok {
		return domain.RegraRegime{}, domain.NovoErroCampoAusente("regras_regime." + string(regime))
	}
	return r, nil
}

func (s *service) Incentivos() ([]domain.ProgramaIncentivo, error) {
	if !s.carregado {
		return nil, domain.ErrNaoInicializado
	}
	return s.tabelas.Incentivos, nil
}
