package branchservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"filialen/internal/domain"
	apperror "filialen/internal/errors"
	"filialen/internal/pkg/cache"
	"filialen/internal/pkg/logger"
)

// BranchRepository define o contrato que o Serviço espera da camada de Persistência.
type BranchRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Branch, bool, error)
	FindAll(ctx context.Context) ([]domain.Branch, error)
	Save(ctx context.Context, branch domain.Branch) (domain.Branch, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Transactor demarca uma unidade transacional; leituras usam readOnly.
type Transactor interface {
	WithinTx(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) error
}

const (
	branchCacheKey      = "filiaal:%d"
	branchGenerationKey = "filiaal:%d:gen"
)

// cachedBranch guarda o filiaal junto da geração em que foi lido.
// Cada escrita incrementa a geração, invalidando entradas lidas antes dela.
type cachedBranch struct {
	Generation int64         `json:"gen"`
	Branch     domain.Branch `json:"filiaal"`
}

// Service orquestra o repositório de filialen, uma transação por operação.
type Service struct {
	repo     BranchRepository
	tx       Transactor
	cache    cache.Client // opcional
	cacheTTL time.Duration
	logger   logger.Logger
}

// Option configura dependências opcionais do Service.
type Option func(*Service)

// WithCache liga a leitura via cache (cache-aside) para FindByID.
func WithCache(c cache.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewService cria e retorna uma nova instância do Serviço de Filialen.
func NewService(repo BranchRepository, tx Transactor, logger logger.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, tx: tx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID busca um filiaal; found=false quando não existe.
func (s *Service) FindByID(ctx context.Context, id int64) (domain.Branch, bool, error) {
	s.logger.Debug("Iniciando busca de filiaal por ID no serviço.", map[string]interface{}{"id": id})

	// A geração é lida antes do banco: uma escrita concorrente a torna obsoleta.
	gen, cacheable := s.generation(ctx, id)
	if cacheable {
		if branch, ok := s.fromCache(ctx, id, gen); ok {
			return branch, true, nil
		}
	}

	var (
		branch domain.Branch
		found  bool
	)
	err := s.tx.WithinTx(ctx, true, func(ctx context.Context) error {
		var err error
		branch, found, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		s.logger.Error("Falha ao buscar filiaal no repositório.", err)
		return domain.Branch{}, false, err
	}

	if found && cacheable {
		s.toCache(ctx, branch, gen)
	}
	return branch, found, nil
}

// FindAll busca todos os filialen.
func (s *Service) FindAll(ctx context.Context) ([]domain.Branch, error) {
	var branches []domain.Branch
	err := s.tx.WithinTx(ctx, true, func(ctx context.Context) error {
		var err error
		branches, err = s.repo.FindAll(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("Falha ao buscar todos os filialen no repositório.", err)
		return nil, err
	}
	if branches == nil {
		branches = []domain.Branch{}
	}

	s.logger.Debug("Filialen encontrados.", map[string]interface{}{"count": len(branches)})
	return branches, nil
}

// Create persiste um novo filiaal. Qualquer id vindo do chamador é ignorado.
func (s *Service) Create(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	s.logger.Debug("Iniciando criação de filiaal no serviço.", map[string]interface{}{"naam": branch.Name})

	var created domain.Branch
	err := s.tx.WithinTx(ctx, false, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Save(ctx, branch.WithID(0))
		return err
	})
	if err != nil {
		s.logger.Error("Falha ao criar filiaal no repositório.", err)
		return domain.Branch{}, err
	}

	s.logger.Info("Filiaal criado com sucesso.", map[string]interface{}{"id": created.ID, "naam": created.Name})
	return created, nil
}

// Update substitui por completo o filiaal com branch.ID.
// Um id inexistente resulta em NotFoundError; não há upsert.
func (s *Service) Update(ctx context.Context, branch domain.Branch) error {
	s.logger.Debug("Iniciando atualização de filiaal no serviço.", map[string]interface{}{"id": branch.ID})

	if branch.ID <= 0 {
		s.logger.Info("Filiaal não encontrado.", map[string]interface{}{"id": branch.ID})
		return apperror.NewNotFoundError(fmt.Sprintf("Filiaal com ID %d não encontrado para atualização.", branch.ID))
	}

	err := s.tx.WithinTx(ctx, false, func(ctx context.Context) error {
		_, err := s.repo.Save(ctx, branch)
		return err
	})
	if err != nil {
		s.logWriteError("Falha ao atualizar filiaal no repositório.", branch.ID, err)
		return err
	}

	s.evict(ctx, branch.ID)
	s.logger.Info("Filiaal atualizado com sucesso.", map[string]interface{}{"id": branch.ID})
	return nil
}

// Delete remove o filiaal; NotFoundError quando nenhuma linha corresponde.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("Iniciando exclusão de filiaal no serviço.", map[string]interface{}{"id": id})

	err := s.tx.WithinTx(ctx, false, func(ctx context.Context) error {
		return s.repo.DeleteByID(ctx, id)
	})
	if err != nil {
		s.logWriteError("Falha ao deletar filiaal no repositório.", id, err)
		return err
	}

	s.evict(ctx, id)
	s.logger.Info("Filiaal deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func (s *Service) logWriteError(msg string, id int64, err error) {
	if apperror.IsNotFound(err) {
		s.logger.Info("Filiaal não encontrado.", map[string]interface{}{"id": id})
		return
	}
	s.logger.Error(msg, err)
}

// --- Cache-Aside ---

// generation devolve a geração atual do filiaal no cache; ok=false desliga o cache nesta leitura.
func (s *Service) generation(ctx context.Context, id int64) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}

	key := fmt.Sprintf(branchGenerationKey, id)
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		s.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		return 0, false
	}

	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.Warn("Geração de cache inválida.", map[string]interface{}{"key": key, "error": err.Error()})
		return 0, false
	}
	return gen, true
}

func (s *Service) fromCache(ctx context.Context, id, gen int64) (domain.Branch, bool) {
	key := fmt.Sprintf(branchCacheKey, id)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return domain.Branch{}, false
	}

	var entry cachedBranch
	if err := json.Unmarshal([]byte(cached), &entry); err != nil {
		s.logger.Warn("Entrada de cache inválida.", map[string]interface{}{"key": key, "error": err.Error()})
		return domain.Branch{}, false
	}
	if entry.Generation != gen || entry.Branch.ID != id {
		return domain.Branch{}, false
	}
	return entry.Branch, true
}

func (s *Service) toCache(ctx context.Context, branch domain.Branch, gen int64) {
	key := fmt.Sprintf(branchCacheKey, branch.ID)
	raw, err := json.Marshal(cachedBranch{Generation: gen, Branch: branch})
	if err != nil {
		s.logger.Warn("Falha ao serializar filiaal para cache.", map[string]interface{}{"key": key, "error": err.Error()})
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// evict avança a geração e remove a entrada. Uma leitura em andamento que
// grave depois disso grava com a geração antiga e nunca é servida.
func (s *Service) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}

	genKey := fmt.Sprintf(branchGenerationKey, id)
	if _, err := s.cache.Incr(ctx, genKey); err != nil {
		s.logger.Warn("Falha ao avançar a geração do cache.", map[string]interface{}{"key": genKey, "error": err.Error()})
	}

	key := fmt.Sprintf(branchCacheKey, id)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Falha ao invalidar cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
