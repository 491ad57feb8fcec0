// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package credential finds the access card serial of a member.

Resolution order is fixed:

 1. The card serial on the member account.
 2. The card serial on the member's first "main" profile.
 3. Absent.

Absence is a normal result, not an error; the request flow stops before any
gateway call when no card is on file.
*/
package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/toolauth/internal/platform/apperr"
	"github.com/taibuivan/toolauth/internal/platform/constants"
	"github.com/taibuivan/toolauth/internal/users/member"
)

// Source says where a card serial was found.
type Source string

const (
	SourceAccount Source = "account"
	SourceProfile Source = "profile"
)

// Credential is a resolved, non-empty card serial.
type Credential struct {
	CardID string
	Source Source
}

// Resolver looks up card serials through the member store.
type Resolver struct {
	members member.Repository
}

// NewResolver constructs a [Resolver].
func NewResolver(members member.Repository) *Resolver {
	return &Resolver{members: members}
}

/*
Resolve returns the member's card serial.

Description: A missing account is not fatal; the profile lookup still runs so
that profile-only members resolve. Whitespace-only serials count as empty.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - Credential: the card, only meaningful when found is true
  - bool: found
  - error: store failures only
*/
func (resolver *Resolver) Resolve(context context.Context, userID string) (Credential, bool, error) {

	// 1. Account record
	account, err := resolver.members.FindByID(context, userID)
	switch {
	case err == nil:
		if cardID := clean(account.CardSerial); cardID != "" {
			return Credential{CardID: cardID, Source: SourceAccount}, true, nil
		}
	case isNotFound(err):
	default:
		return Credential{}, false, fmt.Errorf("credential_resolve_account_failed: %w", err)
	}

	// 2. First main profile
	profiles, err := resolver.members.FindProfiles(context, userID, constants.MainProfileType)
	if err != nil {
		return Credential{}, false, fmt.Errorf("credential_resolve_profile_failed: %w", err)
	}
	if len(profiles) > 0 {
		if cardID := clean(profiles[0].CardSerial); cardID != "" {
			return Credential{CardID: cardID, Source: SourceProfile}, true, nil
		}
	}

	// 3. Absent
	return Credential{}, false, nil
}

// clean blanks whitespace-only serials and otherwise keeps the stored bytes.
func clean(serial string) string {
	if strings.TrimSpace(serial) == "" {
		return ""
	}
	return serial
}

func isNotFound(err error) bool {
	return apperr.IsCode(err, apperr.CodeNotFound)
}
