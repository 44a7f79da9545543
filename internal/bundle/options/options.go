// Package options exposes the fixed display choices offered by the
// bundle editor UI.
package options

import (
	"fmt"
	"html"

	"github.com/waslahq/wasla/internal/bundle/domain"
)

// Option is a value/label pair rendered as a select entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Logos returns the available bundle badge choices.
func Logos() []Option {
	return []Option{
		{Value: string(domain.LogoSilver), Label: "Silver Medal"},
		{Value: string(domain.LogoGold), Label: "Gold Crown"},
		{Value: string(domain.LogoDiamond), Label: "Diamond Premium"},
	}
}

// Descriptions returns the predefined feature-list choices.
func Descriptions() []Option {
	return []Option{
		{Value: "basic-silver", Label: "Basic Silver Features"},
		{Value: "upper-gold", Label: "Upper Gold Features"},
		{Value: "advanced-diamond", Label: "Advanced Diamond Features"},
	}
}

var descriptionHTML = map[string]string{
	"basic-silver": "<ul>" +
		"<li>Sales overview dashboard</li>" +
		"<li>Monthly performance reports</li>" +
		"<li>Email support</li>" +
		"</ul>",
	"upper-gold": "<ul>" +
		"<li>Everything in Basic</li>" +
		"<li>Multi-location breakdowns</li>" +
		"<li>Weekly performance reports</li>" +
		"<li>Priority email support</li>" +
		"</ul>",
	"advanced-diamond": "<ul>" +
		"<li>Everything in Pro</li>" +
		"<li>Custom report requests</li>" +
		"<li>Daily data refresh</li>" +
		"<li>Dedicated account contact</li>" +
		"</ul>",
}

// BadgeHTML returns the storefront wrapper for a bundle badge. The
// artwork itself ships with the frontend assets; the wrapper names the
// badge so the client injects the right one.
func BadgeHTML(logo domain.LogoType) string {
	if !logo.Valid() {
		logo = domain.LogoSilver
	}
	return fmt.Sprintf(`<div class="card-icon-wrapper" data-badge="%s"></div>`, logo)
}

// DescriptionHTML expands a predefined description key into its
// feature-list markup. Free-form text becomes a single escaped item;
// empty input yields empty output.
func DescriptionHTML(desc string) string {
	if desc == "" {
		return ""
	}
	if markup, ok := descriptionHTML[desc]; ok {
		return markup
	}
	return "<ul><li>" + html.EscapeString(desc) + "</li></ul>"
}
