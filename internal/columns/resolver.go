// Package columns maps the header names observed in an upload to the
// semantic roles the aggregator needs. Matching is heuristic: exported files
// vary in naming ("Kontant", "Total Kontant Beløp", "kontant_belop"), so each
// role carries an ordered rule of exact names, substring conjunctions and
// exclusions, evaluated deterministically over the column set.
package columns

import "strings"

// Role is a semantic quantity a report needs from the uploaded data.
type Role string

const (
	RoleKontant    Role = "kontant"     // cash
	RoleKreditt    Role = "kreditt"     // credit
	RoleBomtur     Role = "bomtur"      // no-show toll
	RoleLonn       Role = "lonn"        // gross pay
	RoleSkatt      Role = "skatt"       // tax
	RoleNetto      Role = "netto"       // net amount / net salary
	RoleBrutto     Role = "brutto"      // gross transaction amount
	RoleAvgifter   Role = "avgifter"    // fees
	RoleSubtotal   Role = "subtotal"    // shift subtotal
	RoleTips       Role = "tips"        //
	RoleTotal      Role = "total"       // grand total column
	RoleLoyve      Role = "loyve"       // taxi licence number
	RoleCardType   Role = "cardtype"    //
	RolePayoutDate Role = "payoutdate"  // settlement day, grouping key
	RoleFra        Role = "fra"         // period start timestamp
	RoleTil        Role = "til"         // period end timestamp
	RoleDato       Role = "dato"        // generic date, fallback for fra
)

// Rule describes how one role finds its column. Exact names are tried first
// against the trimmed lower-cased header; then each Contains entry, where
// every substring in the entry must occur. A column containing any Exclude
// substring never matches, regardless of the other rules.
type Rule struct {
	Role     Role
	Exact    []string
	Contains [][]string
	Exclude  []string
}

// Rules is the resolution table, evaluated top to bottom. The kreditt
// exclusion keeps the "Kreditt Utlegg" reimbursement sub-column from being
// mistaken for the credit total.
var Rules = []Rule{
	{Role: RoleKontant, Exact: []string{"kontant"}, Contains: [][]string{{"kontant"}}},
	{Role: RoleKreditt, Contains: [][]string{{"kreditt"}}, Exclude: []string{"utlegg"}},
	{Role: RoleBomtur, Contains: [][]string{{"bomtur"}}},
	{Role: RoleLonn, Contains: [][]string{{"lønn"}, {"lonn"}}},
	{Role: RoleSkatt, Contains: [][]string{{"skatt"}}},
	{Role: RoleNetto, Contains: [][]string{{"netto"}, {"net"}}},
	{Role: RoleBrutto, Contains: [][]string{{"brutto"}, {"gross"}}},
	{Role: RoleAvgifter, Contains: [][]string{{"avgifter"}, {"fees"}}},
	{Role: RoleSubtotal, Contains: [][]string{{"sub_total"}, {"subtotal"}}},
	{Role: RoleTips, Contains: [][]string{{"kreditt_tips"}, {"tips"}}},
	{Role: RoleTotal, Contains: [][]string{{"total", "kroner"}}},
	{Role: RoleLoyve, Exact: []string{"løyve", "loyve"}},
	{Role: RoleCardType, Contains: [][]string{{"kort type"}, {"korttype"}, {"cardtype"}, {"card_type"}}},
	{Role: RolePayoutDate, Contains: [][]string{{"payout"}, {"utbetalingsdato"}}},
	{Role: RoleFra, Exact: []string{"fra", "from"}},
	{Role: RoleTil, Exact: []string{"til", "to"}},
	{Role: RoleDato, Exact: []string{"dato", "date"}},
}

// Resolved is the sparse role → column mapping for one upload batch. A
// missing role is not an error: its total simply stays zero.
type Resolved map[Role]string

// Column returns the column name resolved for role, or "" when absent.
func (r Resolved) Column(role Role) string {
	return r[role]
}

// Resolve runs the rule table against the observed column names, in their
// first-seen order. The result is computed once per batch and never mutated.
func Resolve(cols []string) Resolved {
	lowered := make([]string, len(cols))
	for i, c := range cols {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}

	out := make(Resolved, len(Rules))
	for _, rule := range Rules {
		if col := resolveRule(rule, cols, lowered); col != "" {
			out[rule.Role] = col
		}
	}
	return out
}

func resolveRule(rule Rule, cols, lowered []string) string {
	for _, want := range rule.Exact {
		for i, lc := range lowered {
			if lc == want && !excluded(lc, rule.Exclude) {
				return cols[i]
			}
		}
	}
	for _, conj := range rule.Contains {
		for i, lc := range lowered {
			if containsAll(lc, conj) && !excluded(lc, rule.Exclude) {
				return cols[i]
			}
		}
	}
	return ""
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func excluded(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
