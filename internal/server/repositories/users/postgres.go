// Package users stores console users in PostgreSQL. The person record is
// kept as JSONB; profiles are linked through usuario_perfis.
package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	srvmodels "github.com/dmitrijs2005/gophadmin/internal/server/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/pgsql"
)

const columns = `id, login, ativo, pessoa, criado_em, atualizado_em`

var orderColumns = map[string]string{
	"id":           "id",
	"login":        "login",
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

func scan(s scanner) (*models.User, error) {
	var (
		u                models.User
		person           []byte
		created, updated time.Time
	)
	if err := s.Scan(&u.ID, &u.Login, &u.Active, &person, &created, &updated); err != nil {
		return nil, err
	}
	if len(person) > 0 {
		u.Person = &models.Person{}
		if err := json.Unmarshal(person, u.Person); err != nil {
			return nil, fmt.Errorf("decode pessoa of user %d: %w", u.ID, err)
		}
	}
	u.CreatedAt, u.UpdatedAt = &created, &updated
	u.Profiles = []models.Profile{}
	return &u, nil
}

func encodePerson(p *models.Person) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode pessoa: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User, passwordHash []byte) (*models.User, error) {
	person, err := encodePerson(user.Person)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO usuarios (login, senha_hash, ativo, pessoa)
		VALUES ($1, $2, $3, $4)
		RETURNING id, criado_em, atualizado_em`

	var created, updated time.Time
	err = r.db.QueryRowContext(ctx, query, user.Login, passwordHash, user.Active, person).
		Scan(&user.ID, &created, &updated)
	if err != nil {
		if pgsql.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.CreatedAt, user.UpdatedAt = &created, &updated
	return user, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM usuarios WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) credentials(ctx context.Context, where string, arg any) (*srvmodels.Credentials, error) {
	c := &srvmodels.Credentials{}
	err := r.db.QueryRowContext(ctx, `SELECT id, login, senha_hash, ativo FROM usuarios WHERE `+where, arg).
		Scan(&c.ID, &c.Login, &c.PasswordHash, &c.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetCredentials(ctx context.Context, login string) (*srvmodels.Credentials, error) {
	return r.credentials(ctx, `login = $1`, login)
}

func (r *PostgresRepository) GetCredentialsByID(ctx context.Context, id int64) (*srvmodels.Credentials, error) {
	return r.credentials(ctx, `id = $1`, id)
}

func where(f models.UserFilter) *pgsql.Where {
	w := &pgsql.Where{}
	if f.Login != "" {
		w.Add("login ILIKE $%d", pgsql.Contains(f.Login))
	}
	if f.Active != nil {
		w.Add("ativo = $%d", *f.Active)
	}
	return w
}

func (r *PostgresRepository) Count(ctx context.Context, f models.UserFilter) (int, error) {
	w := where(f)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM usuarios`+w.SQL(), w.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Search(ctx context.Context, f models.UserFilter, order pagination.OrderBy, skip, limit int) ([]models.User, error) {
	w := where(f)
	n := w.Next()
	query := fmt.Sprintf(`SELECT %s FROM usuarios%s%s LIMIT $%d OFFSET $%d`,
		columns, w.SQL(), pgsql.Order(order, orderColumns), n, n+1)

	rows, err := r.db.QueryContext(ctx, query, w.Args(limit, skip)...)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	person, err := encodePerson(user.Person)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET login = $2, ativo = $3, pessoa = $4, atualizado_em = now() WHERE id = $1`,
		user.ID, user.Login, user.Active, person)
	if err != nil {
		if pgsql.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}

func (r *PostgresRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET ativo = $2, atualizado_em = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}

func (r *PostgresRepository) SetPassword(ctx context.Context, id int64, passwordHash []byte) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET senha_hash = $2, atualizado_em = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}

// SetProfiles replaces the user's profile links. Run it inside a transaction
// together with the user write.
func (r *PostgresRepository) SetProfiles(ctx context.Context, userID int64, profileIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM usuario_perfis WHERE usuario_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for _, id := range profileIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO usuario_perfis (usuario_id, perfil_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, id)
		if err != nil {
			if pgsql.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: profile %d does not exist", common.ErrorValidation, id)
			}
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return pgsql.ExpectOne(res)
}
