// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package denial_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/toolauth/internal/access/denial"
)

var messages = denial.Messages{
	Override:     "Your access has been revoked by staff.",
	ManualPause:  "Your membership is paused.",
	Unpaid:       "Your last payment failed. Please {payment_link}.",
	PaymentPause: "Your payments are paused.",
	NoMemberRole: "You need an active membership.",
	Default:      "Access denied.",
}

// member returns attributes that match no rule.
func member() denial.Attributes {
	return denial.Attributes{HasMemberRole: true}
}

/*
TestEvaluate_Priority walks every rule of the chain.
*/
func TestEvaluate_Priority(t *testing.T) {
	policy := denial.NewPolicy(messages, "")

	tests := []struct {
		name   string
		attrs  func() denial.Attributes
		reason denial.Reason
	}{
		{"override_deny", func() denial.Attributes { a := member(); a.Override = denial.OverrideDeny; return a }, denial.ReasonOverride},
		{"override_allow_ignored", func() denial.Attributes { a := member(); a.Override = denial.OverrideAllow; return a }, denial.ReasonDefault},
		{"manual_pause", func() denial.Attributes { a := member(); a.ManualPause = true; return a }, denial.ReasonManualPause},
		{"payment_failed", func() denial.Attributes { a := member(); a.PaymentFailed = true; return a }, denial.ReasonUnpaid},
		{"payment_pause", func() denial.Attributes { a := member(); a.PaymentPause = true; return a }, denial.ReasonPaymentPause},
		{"no_member_role", func() denial.Attributes { return denial.Attributes{} }, denial.ReasonNoMemberRole},
		{"nothing_matches", member, denial.ReasonDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := policy.Evaluate(tt.attrs(), 403, "Card denied")
			assert.Equal(t, tt.reason, result.Reason)
			assert.NotEmpty(t, result.Message)
		})
	}
}

/*
TestEvaluate_OverrideBeatsPaymentFailed checks that priority 1 wins over priority 3.
*/
func TestEvaluate_OverrideBeatsPaymentFailed(t *testing.T) {
	policy := denial.NewPolicy(messages, "https://pay.example.org")

	attrs := denial.Attributes{Override: denial.OverrideDeny, PaymentFailed: true, HasMemberRole: true}
	result := policy.Evaluate(attrs, 403, "")

	assert.Equal(t, denial.ReasonOverride, result.Reason)
	assert.Equal(t, messages.Override, result.Message)
}

/*
TestEvaluate_PaymentLink renders or strips the payment slot.
*/
func TestEvaluate_PaymentLink(t *testing.T) {
	attrs := member()
	attrs.PaymentFailed = true

	withPortal := denial.NewPolicy(messages, "https://pay.example.org/portal?a=1&b=2")
	result := withPortal.Evaluate(attrs, 403, "")
	assert.Equal(t,
		`Your last payment failed. Please <a href="https://pay.example.org/portal?a=1&amp;b=2">update your payment details</a>.`,
		result.Message)

	withoutPortal := denial.NewPolicy(messages, "")
	result = withoutPortal.Evaluate(attrs, 403, "")
	assert.Equal(t, "Your last payment failed. Please.", result.Message)
	assert.NotContains(t, result.Message, "{payment_link}")
}

/*
TestEvaluate_Fallback checks the generic template when no default is configured.
*/
func TestEvaluate_Fallback(t *testing.T) {
	policy := denial.NewPolicy(denial.Messages{}, "")
	body := strings.Repeat("é", 500)

	result := policy.Evaluate(member(), 401, body)

	assert.Equal(t, denial.ReasonFallback, result.Reason)
	assert.Contains(t, result.Message, "401")

	excerpt := strings.TrimPrefix(result.Message, "Access was denied (HTTP 401): ")
	assert.Equal(t, 300, utf8.RuneCountInString(excerpt))
}

/*
TestEvaluate_MatchedRuleWithoutTemplate keeps the reason but uses the default message.
*/
func TestEvaluate_MatchedRuleWithoutTemplate(t *testing.T) {
	policy := denial.NewPolicy(denial.Messages{Default: "Access denied."}, "")

	attrs := member()
	attrs.ManualPause = true
	result := policy.Evaluate(attrs, 403, "nope")

	assert.Equal(t, denial.ReasonManualPause, result.Reason)
	assert.Equal(t, "Access denied.", result.Message)
}

/*
TestEvaluate_Transport never exposes the raw transport error.
*/
func TestEvaluate_Transport(t *testing.T) {
	policy := denial.NewPolicy(messages, "")
	attrs := denial.Attributes{Override: denial.OverrideDeny}

	result := policy.Evaluate(attrs, 0, "dial tcp 10.0.0.5:443: connect: connection refused")

	assert.Equal(t, denial.ReasonTransport, result.Reason)
	assert.Equal(t, denial.TemporaryErrorMessage, result.Message)
	assert.NotContains(t, result.Message, "10.0.0.5")
}

/*
TestRender covers slot substitution edge cases.
*/
func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		slots    map[string]string
		want     string
	}{
		{"empty_template", "", nil, ""},
		{"no_slots", "Plain text", nil, "Plain text"},
		{"known_slot", "Go {payment_link} now", map[string]string{"payment_link": "here"}, "Go here now"},
		{"empty_slot_collapses_space", "Go {payment_link} now", map[string]string{"payment_link": ""}, "Go now"},
		{"unknown_slot_kept", "Hello {name}", map[string]string{"payment_link": "x"}, "Hello {name}"},
		{"empty_slot_at_end", "Pay here: {payment_link}", map[string]string{"payment_link": ""}, "Pay here:"},
		{"empty_slot_at_start", "{payment_link} then retry", map[string]string{"payment_link": ""}, "then retry"},
		{"author_spacing_kept", "Payment failed.\n\n  Please {payment_link}   today.", map[string]string{"payment_link": ""}, "Payment failed.\n\n  Please today."},
		{"author_spacing_kept_with_link", "Payment  failed.  Please {payment_link}.", map[string]string{"payment_link": "<a>pay</a>"}, "Payment  failed.  Please <a>pay</a>."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, denial.Render(tt.template, tt.slots))
		})
	}
}

/*
TestExcerpt checks truncation boundaries.
*/
func TestExcerpt(t *testing.T) {
	assert.Equal(t, "abc", denial.Excerpt("  abc  ", 300))
	assert.Equal(t, "ab", denial.Excerpt("abc", 2))
	assert.Equal(t, "", denial.Excerpt("", 10))
}
