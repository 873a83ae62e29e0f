// Package profiles stores profiles and their permission assignments in
// PostgreSQL. Returned profiles carry no permissions; callers hydrate them.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/pgsql"
)

const columns = `id, nome, ativo, criado_em, atualizado_em`

var orderColumns = map[string]string{
	"id":           "id",
	"nome":         "nome",
	"ativo":        "ativo",
	"criadoEm":     "criado_em",
	"atualizadoEm": "atualizado_em",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Profile, error) {
	var (
		p                models.Profile
		created, updated time.Time
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Active, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = &created, &updated
	p.Permissions = []models.Permission{}
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `INSERT INTO perfis (nome, ativo) VALUES ($1, $2)
		RETURNING id, criado_em, atualizado_em`

	var created, updated time.Time
	if err := r.db.QueryRowContext(ctx, query, p.Name, p.Active).Scan(&p.ID, &created, &updated); err != nil {
		if pgsql.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.CreatedAt, p.UpdatedAt = &created, &updated
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	p, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM perfis WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()

	result := []models.Profile{}
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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Profile, error) {
	return r.query(ctx, `SELECT `+columns+` FROM perfis ORDER BY nome`)
}

func where(f models.ProfileFilter) *pgsql.Where {
	w := &pgsql.Where{}
	if f.Name != "" {
		w.Add("nome ILIKE $%d", pgsql.Contains(f.Name))
	}
	if f.Active != nil {
		w.Add("ativo = $%d", *f.Active)
	}
	return w
}

func (r *PostgresRepository) Count(ctx context.Context, f models.ProfileFilter) (int, error) {
	w := where(f)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM perfis`+w.SQL(), w.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Search(ctx context.Context, f models.ProfileFilter, order pagination.OrderBy, skip, limit int) ([]models.Profile, error) {
	w := where(f)
	n := w.Next()
	query := fmt.Sprintf(`SELECT %s FROM perfis%s%s LIMIT $%d OFFSET $%d`,
		columns, w.SQL(), pgsql.Order(order, orderColumns), n, n+1)
	return r.query(ctx, query, w.Args(limit, skip)...)
}

func (r *PostgresRepository) ForUser(ctx context.Context, userID int64) ([]models.Profile, error) {
	return r.query(ctx, `SELECT `+columns+` FROM perfis
		WHERE id IN (SELECT perfil_id FROM usuario_perfis WHERE usuario_id = $1)
		ORDER BY nome`, userID)
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE perfis SET nome = $2, ativo = $3, atualizado_em = now() WHERE id = $1`,
		p.ID, p.Name, p.Active)
	if err != nil {
		if pgsql.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM perfis WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}

// SetPermissions replaces the profile's permission set. Run it inside a
// transaction together with the profile write.
func (r *PostgresRepository) SetPermissions(ctx context.Context, profileID int64, permissionIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM perfil_permissoes WHERE perfil_id = $1`, profileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for _, id := range permissionIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO perfil_permissoes (perfil_id, permissao_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			profileID, id)
		if err != nil {
			if pgsql.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: permission %d does not exist", common.ErrorValidation, id)
			}
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
