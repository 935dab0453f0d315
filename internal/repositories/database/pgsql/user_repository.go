package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	"github.com/prestaflow/lending_backend/internal/core/domain"
	portsrepo "github.com/prestaflow/lending_backend/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates the repository for stored identities.
func newPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// The role and permission sets are aggregated in one query so identity
// resolution is a single round trip.
const userQuery = `
	SELECT u.user_id, u.username, u.display_name, u.email, u.password_hash, u.status, u.created_at,
	       COALESCE(array_agg(DISTINCT r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles,
	       COALESCE(array_agg(DISTINCT p.name) FILTER (WHERE p.name IS NOT NULL), '{}') AS permissions
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.user_id
	LEFT JOIN roles r ON r.role_id = ur.role_id
	LEFT JOIN role_permissions rp ON rp.role_id = r.role_id
	LEFT JOIN permissions p ON p.permission_id = rp.permission_id
`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID, &u.Username, &u.DisplayName, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt,
		&u.Roles, &u.Permissions,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := userQuery + ` WHERE u.username = $1 GROUP BY u.user_id;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, username)
		}
		return nil, fmt.Errorf("failed to query user %q: %w", username, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := userQuery + ` WHERE u.user_id = $1 GROUP BY u.user_id;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to query user %d: %w", userID, err)
	}
	return user, nil
}
