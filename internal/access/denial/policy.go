// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package denial turns a gateway rejection into the message a member sees.

The gateway only says "no". The member's account standing usually says why:
an admin override, a manual pause, a failed or paused payment, or a missing
membership role. Rules are walked in a fixed priority order and the first match
wins; when nothing matches the configured default message is used, and when
that is empty a templated excerpt of the gateway response is shown.

Transport failures (status 0) never reach the account rules. They get a fixed
"temporary error" message; the raw error text only goes to the log.
*/
package denial

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/toolauth/internal/platform/constants"
)

// # Actor Attributes

// Override is the admin override set on a member account.
type Override string

const (
	OverrideNone  Override = ""
	OverrideDeny  Override = "deny"
	OverrideAllow Override = "allow"
)

// Attributes is the typed account standing of the requesting member.
//
// It is populated once by the member store before the policy runs.
type Attributes struct {
	Override      Override
	ManualPause   bool
	PaymentFailed bool
	PaymentPause  bool
	HasMemberRole bool

	// Blocked is set when the configured user-block attribute is present.
	// The request flow checks it before the gateway is contacted.
	Blocked bool
}

// # Reasons

// Reason names the rule that produced a denial message.
type Reason string

const (
	ReasonOverride     Reason = "override"
	ReasonManualPause  Reason = "manual_pause"
	ReasonUnpaid       Reason = "unpaid"
	ReasonPaymentPause Reason = "payment_pause"
	ReasonNoMemberRole Reason = "no_member_role"
	ReasonDefault      Reason = "default"
	ReasonFallback     Reason = "fallback"
	ReasonTransport    Reason = "transport"
)

// TemporaryErrorMessage is shown when the gateway could not be reached.
const TemporaryErrorMessage = "A temporary error occurred while contacting the access system. Please try again."

// Messages holds the configurable templates, one per rule plus the default.
type Messages struct {
	Override     string `json:"override"`
	ManualPause  string `json:"manual_pause"`
	Unpaid       string `json:"unpaid"`
	PaymentPause string `json:"payment_pause"`
	NoMemberRole string `json:"no_member_role"`
	Default      string `json:"default"`
}

// Denial is the outcome of one evaluation.
type Denial struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// rule is one entry of the priority chain.
type rule struct {
	reason   Reason
	matches  func(Attributes) bool
	template func(Messages) string
}

// rules is ordered by priority; the first match terminates the walk.
var rules = []rule{
	{
		reason:   ReasonOverride,
		matches:  func(a Attributes) bool { return a.Override == OverrideDeny },
		template: func(m Messages) string { return m.Override },
	},
	{
		reason:   ReasonManualPause,
		matches:  func(a Attributes) bool { return a.ManualPause },
		template: func(m Messages) string { return m.ManualPause },
	},
	{
		reason:   ReasonUnpaid,
		matches:  func(a Attributes) bool { return a.PaymentFailed },
		template: func(m Messages) string { return m.Unpaid },
	},
	{
		reason:   ReasonPaymentPause,
		matches:  func(a Attributes) bool { return a.PaymentPause },
		template: func(m Messages) string { return m.PaymentPause },
	},
	{
		reason:   ReasonNoMemberRole,
		matches:  func(a Attributes) bool { return !a.HasMemberRole },
		template: func(m Messages) string { return m.NoMemberRole },
	},
}

// # Policy

// Policy evaluates denials against a fixed set of message templates.
type Policy struct {
	Messages   Messages
	PaymentURL string
}

// NewPolicy constructs a [Policy].
func NewPolicy(messages Messages, paymentURL string) Policy {
	return Policy{Messages: messages, PaymentURL: paymentURL}
}

/*
Evaluate picks the member-facing message for a non-201 gateway response.

Parameters:
  - attributes: Attributes (account standing of the actor)
  - httpStatus: int (0 means the gateway was never reached)
  - body: string (raw gateway response body or transport error text)

Returns:
  - Denial: the applied reason and the rendered message
*/
func (policy Policy) Evaluate(attributes Attributes, httpStatus int, body string) Denial {

	// 1. Transport failures are not policy decisions
	if httpStatus == 0 {
		return Denial{Reason: ReasonTransport, Message: TemporaryErrorMessage}
	}

	// 2. Walk the priority chain
	for _, candidate := range rules {
		if !candidate.matches(attributes) {
			continue
		}
		if message := policy.render(candidate.template(policy.Messages)); message != "" {
			return Denial{Reason: candidate.reason, Message: message}
		}
		// A matched rule without a template still reports its reason
		return Denial{Reason: candidate.reason, Message: policy.defaultOrFallback(httpStatus, body)}
	}

	// 3. Nothing matched
	if message := policy.render(policy.Messages.Default); message != "" {
		return Denial{Reason: ReasonDefault, Message: message}
	}
	return Denial{Reason: ReasonFallback, Message: FallbackMessage(httpStatus, body)}
}

func (policy Policy) defaultOrFallback(httpStatus int, body string) string {
	if message := policy.render(policy.Messages.Default); message != "" {
		return message
	}
	return FallbackMessage(httpStatus, body)
}

func (policy Policy) render(template string) string {
	return Render(template, map[string]string{PaymentLinkSlot: PaymentLink(policy.PaymentURL)})
}

// FallbackMessage embeds the raw status and a bounded excerpt of the body.
func FallbackMessage(httpStatus int, body string) string {
	return fmt.Sprintf("Access was denied (HTTP %d): %s", httpStatus, Excerpt(body, constants.ReasonExcerptLimit))
}

// Excerpt truncates s to at most limit characters (runes, not bytes).
func Excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
