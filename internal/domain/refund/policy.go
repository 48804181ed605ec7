// Package refund maps time-to-service onto refund tiers.
//
// Tables are ordered data: the first tier whose lead time is met wins and
// anything below the last tier refunds nothing. Preview and execution share
// the same computation so a quoted refund is always applicable.
package refund

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// Tier refunds Percent of the total when at least MinLead remains before service.
type Tier struct {
	Name    string
	MinLead time.Duration
	Percent decimal.Decimal
}

// Table is an ordered list of tiers, longest lead first.
type Table []Tier

// NewTable validates ordering and bounds of tiers.
func NewTable(tiers ...Tier) (Table, error) {
	for i, tier := range tiers {
		if tier.Name == "" {
			return nil, fmt.Errorf("tier %d: name is required", i)
		}
		if tier.MinLead < 0 {
			return nil, fmt.Errorf("tier %q: lead must not be negative", tier.Name)
		}
		if tier.Percent.IsNegative() || tier.Percent.GreaterThan(hundred) {
			return nil, fmt.Errorf("tier %q: percent must be within [0, 100]", tier.Name)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if tier.MinLead >= prev.MinLead {
			return nil, fmt.Errorf("tier %q: lead must be shorter than %q", tier.Name, prev.Name)
		}
		if tier.Percent.GreaterThan(prev.Percent) {
			return nil, fmt.Errorf("tier %q: percent must not exceed %q", tier.Name, prev.Name)
		}
	}
	return append(Table(nil), tiers...), nil
}

// ParseTable reads "name:lead:percent" entries separated by commas, e.g. "full:168h:100,half:48h:50".
func ParseTable(raw string) (Table, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty refund tier table")
	}
	var tiers []Tier
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed tier %q", entry)
		}
		lead, err := time.ParseDuration(parts[1])
		if err != nil {
			return nil, fmt.Errorf("tier %q lead: %w", parts[0], err)
		}
		pct, err := decimal.NewFromString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("tier %q percent: %w", parts[0], err)
		}
		tiers = append(tiers, Tier{Name: parts[0], MinLead: lead, Percent: pct})
	}
	return NewTable(tiers...)
}

// String renders the table in ParseTable format.
func (t Table) String() string {
	parts := make([]string, 0, len(t))
	for _, tier := range t {
		parts = append(parts, fmt.Sprintf("%s:%s:%s", tier.Name, formatLead(tier.MinLead), tier.Percent))
	}
	return strings.Join(parts, ",")
}

func formatLead(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	return d.String()
}

// Lookup returns the first tier whose lead time is satisfied.
func (t Table) Lookup(lead time.Duration) (Tier, bool) {
	for _, tier := range t {
		if lead >= tier.MinLead {
			return tier, true
		}
	}
	return Tier{}, false
}

// Quote is the result of a refund computation.
type Quote struct {
	Amount            decimal.Decimal
	Percent           decimal.Decimal
	Tier              string
	HoursUntilService float64
}

// Compute quotes the refund of total for a service at serviceAt as seen at now.
func (t Table) Compute(total decimal.Decimal, serviceAt, now time.Time, precision int32) Quote {
	lead := serviceAt.Sub(now)
	quote := Quote{Amount: decimal.Zero.Round(precision), Percent: decimal.Zero, HoursUntilService: lead.Hours()}
	if !total.IsPositive() {
		return quote
	}
	tier, ok := t.Lookup(lead)
	if !ok {
		return quote
	}

	amount := total.Mul(tier.Percent).Div(hundred).Round(precision)
	if amount.GreaterThan(total) {
		amount = total
	}
	quote.Amount = amount
	quote.Percent = tier.Percent
	quote.Tier = tier.Name
	return quote
}

// Policies holds the tier table of every cancellation policy variant.
type Policies map[model.CancellationPolicy]Table

// StandardTable refunds 100% a week ahead and 50% two days ahead.
func StandardTable() Table {
	return Table{
		{Name: "full", MinLead: 168 * time.Hour, Percent: hundred},
		{Name: "half", MinLead: 48 * time.Hour, Percent: decimal.NewFromInt(50)},
	}
}

// DefaultPolicies returns built-in tables, using standard for the standard variant.
func DefaultPolicies(standard Table) Policies {
	if len(standard) == 0 {
		standard = StandardTable()
	}
	return Policies{
		model.CancellationPolicyFlexible: {
			{Name: "full", MinLead: 24 * time.Hour, Percent: hundred},
		},
		model.CancellationPolicyStandard: standard,
		model.CancellationPolicyStrict: {
			{Name: "full", MinLead: 336 * time.Hour, Percent: hundred},
			{Name: "half", MinLead: 168 * time.Hour, Percent: decimal.NewFromInt(50)},
		},
	}
}

// For returns the table of a variant, falling back to standard.
func (p Policies) For(policy model.CancellationPolicy) Table {
	if table, ok := p[policy]; ok {
		return table
	}
	if table, ok := p[model.CancellationPolicyStandard]; ok {
		return table
	}
	return StandardTable()
}
