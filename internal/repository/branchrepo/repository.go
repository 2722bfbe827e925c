package branchrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"filialen/internal/domain"
	apperror "filialen/internal/errors"
	"filialen/internal/pkg/database"
	"filialen/internal/pkg/logger"
)

// Códigos SQLSTATE do PostgreSQL traduzidos para erros de validação.
const (
	pgNotNullViolation pq.ErrorCode = "23502"
	pgCheckViolation   pq.ErrorCode = "23514"

	revenueCheckConstraint = "filialen_omzet_check"
)

// BranchRepository implementa as operações CRUD de filialen sobre o PostgreSQL.
// As queries usam a transação presente no contexto, quando houver.
type BranchRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewBranchRepository cria e retorna uma nova instância do Repositório de Filialen.
func NewBranchRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *BranchRepository {
	return &BranchRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindByID busca um filiaal pelo id. Ausência não é erro: found vem false.
func (r *BranchRepository) FindByID(ctx context.Context, id int64) (domain.Branch, bool, error) {
	r.logger.Debug("Iniciando FindByID no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, naam, gemeente, omzet
        FROM filialen
        WHERE id = $1`

	var branch domain.Branch
	err := database.Conn(ctx, r.DB).QueryRowContext(ctxTimeout, query, id).Scan(
		&branch.ID, &branch.Name, &branch.Municipality, &branch.Revenue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug("Filiaal não encontrado.", map[string]interface{}{"id": id})
		return domain.Branch{}, false, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar filiaal no DB.", err)
		return domain.Branch{}, false, apperror.NewDBError("Falha ao buscar filiaal", err)
	}

	return branch, true, nil
}

// FindAll busca todos os filialen, sem filtro.
func (r *BranchRepository) FindAll(ctx context.Context) ([]domain.Branch, error) {
	r.logger.Debug("Iniciando FindAll no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, naam, gemeente, omzet
        FROM filialen
        ORDER BY id`

	rows, err := database.Conn(ctx, r.DB).QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll query.", err)
		return nil, apperror.NewDBError("Falha ao buscar todos os filialen", err)
	}
	defer rows.Close()

	branches := []domain.Branch{}
	for rows.Next() {
		var branch domain.Branch
		if err := rows.Scan(&branch.ID, &branch.Name, &branch.Municipality, &branch.Revenue); err != nil {
			r.logger.Error("Falha ao mapear filiaal na iteração de FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear filialen do DB", err)
		}
		branches = append(branches, branch)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de filialen.", err)
		return nil, apperror.NewDBError("Erro após iteração de filialen", err)
	}

	r.logger.Debug("FindAll concluído.", map[string]interface{}{"total": len(branches)})
	return branches, nil
}

// Save insere o filiaal quando o id é zero (o banco atribui o id) e, caso contrário,
// substitui a linha existente. Atualizar um id inexistente retorna NotFoundError.
func (r *BranchRepository) Save(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	if branch.ID == 0 {
		return r.insert(ctx, branch)
	}
	return r.update(ctx, branch)
}

func (r *BranchRepository) insert(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	r.logger.Debug("Iniciando insert de filiaal no repositório.", map[string]interface{}{"naam": branch.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO filialen (naam, gemeente, omzet)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := database.Conn(ctx, r.DB).QueryRowContext(ctxTimeout, query,
		branch.Name, branch.Municipality, branch.Revenue,
	).Scan(&branch.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir filiaal no DB.", err)
		return domain.Branch{}, translate("Falha ao criar filiaal", err)
	}

	r.logger.Info("Filiaal criado.", map[string]interface{}{"id": branch.ID, "naam": branch.Name})
	return branch, nil
}

func (r *BranchRepository) update(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	r.logger.Debug("Iniciando update de filiaal no repositório.", map[string]interface{}{"id": branch.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE filialen
        SET naam = $1, gemeente = $2, omzet = $3
        WHERE id = $4`

	result, err := database.Conn(ctx, r.DB).ExecContext(ctxTimeout, query,
		branch.Name, branch.Municipality, branch.Revenue, branch.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar filiaal no DB.", err)
		return domain.Branch{}, translate("Falha ao atualizar filiaal", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após update.", err)
		return domain.Branch{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Branch{}, apperror.NewNotFoundError(fmt.Sprintf("Filiaal com ID %d não encontrado para atualização.", branch.ID))
	}

	r.logger.Info("Filiaal atualizado.", map[string]interface{}{"id": branch.ID})
	return branch, nil
}

// DeleteByID remove um filiaal pelo id; NotFoundError quando nenhuma linha foi afetada.
func (r *BranchRepository) DeleteByID(ctx context.Context, id int64) error {
	r.logger.Debug("Iniciando DeleteByID no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        DELETE FROM filialen
        WHERE id = $1`

	result, err := database.Conn(ctx, r.DB).ExecContext(ctxTimeout, query, id)
	if err != nil {
		r.logger.Error("Falha ao deletar filiaal do DB.", err)
		return apperror.NewDBError("Falha ao deletar filiaal", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após DeleteByID.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Filiaal com ID %d não encontrado para exclusão.", id))
	}

	r.logger.Info("Filiaal deletado.", map[string]interface{}{"id": id})
	return nil
}

// translate converte violações de constraint em ValidationError; o resto vira DBError.
func translate(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgCheckViolation:
			if pqErr.Constraint == revenueCheckConstraint {
				return apperror.NewFieldValidationError(map[string]string{"omzet": "must be greater than or equal to 0"})
			}
			return apperror.NewValidationError(pqErr.Message)
		case pgNotNullViolation:
			return apperror.NewFieldValidationError(map[string]string{pqErr.Column: "must not be null"})
		}
	}
	return apperror.NewDBError(msg, err)
}
