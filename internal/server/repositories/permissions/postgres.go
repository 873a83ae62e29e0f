// Package permissions stores the permission catalogue in PostgreSQL.
package permissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/pgsql"
)

const columns = `id, nome, descricao, recurso, acao, numeric_value, string_value, criado_em, atualizado_em`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Permission, error) {
	var (
		p                models.Permission
		created, updated time.Time
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Resource, &p.Action,
		&p.NumericValue, &p.StringValue, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = &created, &updated
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Permission) (*models.Permission, error) {
	query := `INSERT INTO permissoes (nome, descricao, recurso, acao, numeric_value, string_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, criado_em, atualizado_em`

	var created, updated time.Time
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Resource, p.Action, p.NumericValue, p.StringValue).
		Scan(&p.ID, &created, &updated)
	if err != nil {
		if pgsql.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.CreatedAt, p.UpdatedAt = &created, &updated
	return p, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Permission, error) {
	p, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM permissoes WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Permission, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	return r.getOne(ctx, `nome = $1`, name)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select permissions: %w", err)
	}
	defer rows.Close()

	result := []models.Permission{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Permission, error) {
	return r.query(ctx, `SELECT `+columns+` FROM permissoes ORDER BY nome`)
}

// SearchByName matches name as a case-insensitive substring.
func (r *PostgresRepository) SearchByName(ctx context.Context, name string) ([]models.Permission, error) {
	return r.query(ctx, `SELECT `+columns+` FROM permissoes WHERE nome ILIKE $1 ORDER BY nome`, pgsql.Contains(name))
}

func (r *PostgresRepository) ForProfile(ctx context.Context, profileID int64) ([]models.Permission, error) {
	return r.query(ctx, `SELECT `+columns+` FROM permissoes
		WHERE id IN (SELECT permissao_id FROM perfil_permissoes WHERE perfil_id = $1)
		ORDER BY nome`, profileID)
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Permission) error {
	query := `UPDATE permissoes
		SET nome = $2, descricao = $3, recurso = $4, acao = $5, numeric_value = $6, string_value = $7, atualizado_em = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Resource, p.Action, p.NumericValue, p.StringValue)
	if err != nil {
		if pgsql.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM permissoes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}
