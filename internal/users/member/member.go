// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package member is the read model of the membership site's accounts.

Accounts, profiles, attributes and roles are synced from the membership site;
this service never writes them. The access flow reads three things here: the
card serial (account first, then the 'main' profile), the named account flags
that drive the denial policy, and the roles used for the membership check.
*/
package member

import (
	"time"
)

// # Domain Entities

// Member is a membership account.
type Member struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CardSerial string    `json:"-"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Profile is a typed bundle of member data. Only the 'main' type is used here.
type Profile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	CardSerial string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Attribute Names

// Names of the account flags synced into users.attribute.
const (
	AttrAccessOverride = "access_override"
	AttrManualPause    = "manual_pause"
	AttrPaymentFailed  = "payment_failed"
	AttrPaymentPause   = "payment_pause"
)
