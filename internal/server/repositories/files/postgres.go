// Package files keeps metadata for blobs uploaded through /arquivos.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/server/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/pgsql"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the metadata row and fills CreatedAt. An OwnerID of zero is
// stored as NULL.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `INSERT INTO arquivos (chave, nome, tamanho, tipo, usuario_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING criado_em`

	owner := sql.NullInt64{Int64: file.OwnerID, Valid: file.OwnerID != 0}
	err := r.db.QueryRowContext(ctx, query, file.Key, file.Name, file.Size, file.ContentType, owner).
		Scan(&file.CreatedAt)
	if err != nil {
		if pgsql.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.File, error) {
	query := `SELECT chave, nome, tamanho, tipo, usuario_id, criado_em FROM arquivos WHERE chave = $1`

	var (
		f     models.File
		owner sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, key).
		Scan(&f.Key, &f.Name, &f.Size, &f.ContentType, &owner, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	f.OwnerID = owner.Int64
	return &f, nil
}
