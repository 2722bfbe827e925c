package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier é o subconjunto comum de *sql.DB e *sql.Tx usado pelos repositórios.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// Conn devolve a transação ativa no contexto ou, na falta dela, o próprio pool.
func Conn(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TxManager demarca unidades transacionais sobre um *sql.DB.
type TxManager struct {
	db *sql.DB
}

// NewTxManager cria um TxManager para o pool dado.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx executa fn dentro de uma transação, disponível para os repositórios via Conn.
// Faz commit se fn retornar nil e rollback caso contrário (ou em panic).
// Chamadas aninhadas reutilizam a transação externa.
func (m *TxManager) WithinTx(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}
	return nil
}
