// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/toolauth/internal/platform/apperr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByID retrieves an account by its unique ID.

Description: Soft-deleted accounts are treated as missing. A NULL card serial
is scanned as an empty string.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Member: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Member, error) {
	const query = `
		SELECT id, username, email, role, COALESCE(cardserial, ''), isactive, createdat, updatedat
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	member := &Member{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&member.ID,
		&member.Username,
		&member.Email,
		&member.Role,
		&member.CardSerial,
		&member.IsActive,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Member")
		}
		return nil, fmt.Errorf("postgres_member_repo_find_by_id_failed: %w", err)
	}

	return member, nil
}

/*
FindProfiles retrieves the profiles of a given type for a user.

Description: Ordered by creation time then ID.

Parameters:
  - context: context.Context
  - userID: string
  - profileType: string

Returns:
  - []*Profile: Matching profiles (possibly empty)
  - error: Database errors
*/
func (repository *PostgresRepository) FindProfiles(context context.Context, userID, profileType string) ([]*Profile, error) {
	const query = `
		SELECT id, userid, type, COALESCE(cardserial, ''), createdat
		FROM users.profile
		WHERE userid = $1 AND type = $2
		ORDER BY createdat ASC, id ASC`

	rows, err := repository.pool.Query(context, query, userID, profileType)
	if err != nil {
		return nil, fmt.Errorf("postgres_member_repo_find_profiles_failed: %w", err)
	}
	defer rows.Close()

	profiles := make([]*Profile, 0, 1)
	for rows.Next() {
		profile := &Profile{}
		if err := rows.Scan(&profile.ID, &profile.UserID, &profile.Type, &profile.CardSerial, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_member_repo_scan_profile_failed: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_member_repo_iterate_profiles_failed: %w", err)
	}

	return profiles, nil
}

/*
Attributes retrieves every named flag stored for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - map[string]string: Flag name to raw value
  - error: Database errors
*/
func (repository *PostgresRepository) Attributes(context context.Context, userID string) (map[string]string, error) {
	const query = `
		SELECT name, value
		FROM users.attribute
		WHERE userid = $1`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_member_repo_attributes_failed: %w", err)
	}
	defer rows.Close()

	attributes := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("postgres_member_repo_scan_attribute_failed: %w", err)
		}
		attributes[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_member_repo_iterate_attributes_failed: %w", err)
	}

	return attributes, nil
}

/*
Roles retrieves the account role and any additional roles of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []string: Deduplicated role names
  - error: Database errors
*/
func (repository *PostgresRepository) Roles(context context.Context, userID string) ([]string, error) {
	const query = `
		SELECT role FROM users.account WHERE id = $1 AND deletedat IS NULL
		UNION
		SELECT role FROM users.role WHERE userid = $1`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_member_repo_roles_failed: %w", err)
	}

	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres_member_repo_collect_roles_failed: %w", err)
	}

	return roles, nil
}
