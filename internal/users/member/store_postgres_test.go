// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/toolauth/internal/platform/apperr"
	"github.com/taibuivan/toolauth/internal/platform/postgres/pgtest"
	"github.com/taibuivan/toolauth/internal/users/member"
)

func exec(t *testing.T, pool *pgxpool.Pool, query string, args ...any) {
	t.Helper()
	_, err := pool.Exec(context.Background(), query, args...)
	require.NoError(t, err)
}

/*
TestPostgresRepository_FindByID scans NULL serials and hides deleted accounts.
*/
func TestPostgresRepository_FindByID(t *testing.T) {
	pool := pgtest.Open(t, "users.account")
	repository := member.NewRepository(pool)
	ctx := context.Background()

	exec(t, pool, `INSERT INTO users.account (id, username, email, role) VALUES ('u1', 'ada', 'ada@example.org', 'member')`)
	exec(t, pool, `INSERT INTO users.account (id, username, cardserial, deletedat) VALUES ('u2', 'gone', 'CARD9', now())`)

	found, err := repository.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", found.Email)
	assert.Equal(t, "", found.CardSerial)
	assert.True(t, found.IsActive)

	_, err = repository.FindByID(ctx, "u2")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestPostgresRepository_FindProfiles orders by creation time, then id.
*/
func TestPostgresRepository_FindProfiles(t *testing.T) {
	pool := pgtest.Open(t, "users.account")
	repository := member.NewRepository(pool)

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	exec(t, pool, `INSERT INTO users.account (id, username) VALUES ('u1', 'ada')`)
	exec(t, pool, `INSERT INTO users.profile (id, userid, type, cardserial, createdat) VALUES ('p-b', 'u1', 'main', 'CARD-B', $1)`, created)
	exec(t, pool, `INSERT INTO users.profile (id, userid, type, cardserial, createdat) VALUES ('p-a', 'u1', 'main', NULL, $1)`, created)
	exec(t, pool, `INSERT INTO users.profile (id, userid, type, cardserial, createdat) VALUES ('p-c', 'u1', 'main', 'CARD-C', $1)`, created.Add(-time.Hour))
	exec(t, pool, `INSERT INTO users.profile (id, userid, type, cardserial, createdat) VALUES ('p-x', 'u1', 'billing', 'CARD-X', $1)`, created.Add(-2*time.Hour))

	profiles, err := repository.FindProfiles(context.Background(), "u1", "main")
	require.NoError(t, err)

	ids := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.ID)
	}
	assert.Equal(t, []string{"p-c", "p-a", "p-b"}, ids)
	assert.Equal(t, "CARD-C", profiles[0].CardSerial)
	assert.Equal(t, "", profiles[1].CardSerial)
}

/*
TestPostgresRepository_Attributes returns every flag of the user.
*/
func TestPostgresRepository_Attributes(t *testing.T) {
	pool := pgtest.Open(t, "users.account")
	repository := member.NewRepository(pool)

	exec(t, pool, `INSERT INTO users.account (id, username) VALUES ('u1', 'ada'), ('u2', 'bob')`)
	exec(t, pool, `INSERT INTO users.attribute (userid, name, value) VALUES ('u1', $1, 'true'), ('u1', $2, ''), ('u2', $1, 'true')`,
		member.AttrAccessOverride, "manual_pause")

	attributes, err := repository.Attributes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{member.AttrAccessOverride: "true", "manual_pause": ""}, attributes)
}

/*
TestPostgresRepository_Roles merges the account role with extra grants.
*/
func TestPostgresRepository_Roles(t *testing.T) {
	pool := pgtest.Open(t, "users.account")
	repository := member.NewRepository(pool)

	exec(t, pool, `INSERT INTO users.account (id, username, role) VALUES ('u1', 'ada', 'member')`)
	exec(t, pool, `INSERT INTO users.role (userid, role) VALUES ('u1', 'member'), ('u1', 'staff')`)

	roles, err := repository.Roles(context.Background(), "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"member", "staff"}, roles)
}
