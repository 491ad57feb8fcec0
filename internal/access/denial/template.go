// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package denial

import (
	"fmt"
	"html"
	"regexp"
)

// PaymentLinkSlot is the only slot a denial template may reference, as {payment_link}.
const PaymentLinkSlot = "payment_link"

// PaymentLinkLabel is the visible text of the rendered payment link.
const PaymentLinkLabel = "update your payment details"

// slotPattern captures a slot with the blanks on either side of it.
var slotPattern = regexp.MustCompile(`([ \t]*)\{([a-z_]+)\}([ \t]*)`)

// Render replaces {name} slots with their values.
//
// A known but empty slot is removed with the blanks around it. When blanks sit
// on both sides, one run is kept to separate the neighbouring words. Unknown
// slots are left as-is and the rest of the template is untouched.
// The function is pure and performs no HTML escaping of the template itself.
func Render(template string, slots map[string]string) string {
	if template == "" {
		return ""
	}

	return slotPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := slotPattern.FindStringSubmatch(match)
		before, name, after := parts[1], parts[2], parts[3]

		value, ok := slots[name]
		switch {
		case !ok:
			return match
		case value != "":
			return before + value + after
		case before != "" && after != "":
			return before
		default:
			return ""
		}
	})
}

// PaymentLink renders the payment portal action, or "" when no portal is configured.
func PaymentLink(portalURL string) string {
	if portalURL == "" {
		return ""
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(portalURL), PaymentLinkLabel)
}
