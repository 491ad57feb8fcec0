// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/taibuivan/toolauth/internal/access/denial"
)

// StandingRules carries the settings that shape how raw flags are interpreted.
type StandingRules struct {
	// MemberRole is the role a member must hold to pass the membership check.
	MemberRole string

	// BlockAttribute names the flag that blocks a member outright. Empty disables the check.
	BlockAttribute string
}

// StandingLoader builds typed [denial.Attributes] from the member store.
type StandingLoader struct {
	repository Repository
}

// NewStandingLoader constructs a [StandingLoader].
func NewStandingLoader(repository Repository) *StandingLoader {
	return &StandingLoader{repository: repository}
}

// Load reads the flags and roles of one member and folds them into [denial.Attributes].
func (loader *StandingLoader) Load(ctx context.Context, userID string, rules StandingRules) (denial.Attributes, error) {
	attributes, err := loader.repository.Attributes(ctx, userID)
	if err != nil {
		return denial.Attributes{}, fmt.Errorf("member_standing_attributes_failed: %w", err)
	}

	roles, err := loader.repository.Roles(ctx, userID)
	if err != nil {
		return denial.Attributes{}, fmt.Errorf("member_standing_roles_failed: %w", err)
	}

	return Standing(attributes, roles, rules), nil
}

// Standing is the pure mapping from raw flags and roles to [denial.Attributes].
func Standing(attributes map[string]string, roles []string, rules StandingRules) denial.Attributes {
	standing := denial.Attributes{
		Override:      denial.Override(strings.ToLower(strings.TrimSpace(attributes[AttrAccessOverride]))),
		ManualPause:   truthy(attributes[AttrManualPause]),
		PaymentFailed: truthy(attributes[AttrPaymentFailed]),
		PaymentPause:  truthy(attributes[AttrPaymentPause]),
		HasMemberRole: rules.MemberRole == "" || slices.Contains(roles, rules.MemberRole),
	}

	if rules.BlockAttribute != "" {
		standing.Blocked = truthy(attributes[rules.BlockAttribute])
	}

	return standing
}

// truthy accepts the boolean spellings the membership site exports.
func truthy(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "yes", "on", "y":
		return true
	}
	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}
