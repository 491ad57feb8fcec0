// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/toolauth/internal/platform/constants"
	"github.com/taibuivan/toolauth/internal/platform/database/schema"
	"github.com/taibuivan/toolauth/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get implements Repository.
func (repository *PostgresRepository) Get(context context.Context) (Settings, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SystemSetting.Value, schema.SystemSetting.Table, schema.SystemSetting.Key)

	var raw []byte
	err := repository.pool.QueryRow(context, query, constants.SettingAccessRequest).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, false, nil
		}
		return Settings{}, false, dberr.Wrap(err, "settings_get")
	}

	var settings Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return Settings{}, false, fmt.Errorf("settings_decode_failed: %w", err)
	}

	return settings, true, nil
}

// Put implements Repository with an upsert on the setting key.
func (repository *PostgresRepository) Put(context context.Context, settings Settings) (bool, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return false, fmt.Errorf("settings_encode_failed: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s)
		VALUES ($1, $2, 'Access request flow configuration')
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[5]s = now()
		RETURNING (xmax = 0)`,
		schema.SystemSetting.Table,
		schema.SystemSetting.Key,
		schema.SystemSetting.Value,
		schema.SystemSetting.Description,
		schema.SystemSetting.UpdatedAt,
	)

	// xmax is zero only for a freshly inserted row
	var inserted bool
	if err := repository.pool.QueryRow(context, query, constants.SettingAccessRequest, raw).Scan(&inserted); err != nil {
		return false, dberr.Wrap(err, "settings_put")
	}

	return inserted, nil
}
