// Package billing composes human-readable cost reports from the
// independently-shaped pieces the remote service returns: session
// timing, rule-attributed billing segments, discounts and wallet
// snapshots.
package billing

import (
	"strings"
	"time"

	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/format"
)

// SectionDivider separates report sections.
const SectionDivider = "---"

// ChargedCost resolves the amount actually billed. An admin override on
// the session wins over a discounted total, which wins over the raw
// segment total.
func ChargedCost(s api.Session, discount *api.Discount, total float64) float64 {
	if s.CostOverwrite != nil {
		return *s.CostOverwrite
	}
	if discount != nil {
		return discount.FinalCost
	}
	return total
}

// receiptCost resolves the charged amount of a finalized session, which
// carries its final cost on the session itself rather than a discount.
func receiptCost(s api.Session, total float64) float64 {
	if s.CostOverwrite != nil {
		return *s.CostOverwrite
	}
	if s.FinalCost != nil {
		return *s.FinalCost
	}
	return total
}

// visibleSegments drops negative-cost segments; they are accounting
// adjustments, not billable time.
func visibleSegments(segments []api.BillingSegment) []api.BillingSegment {
	out := make([]api.BillingSegment, 0, len(segments))
	for _, seg := range segments {
		if seg.Cost < 0 {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// segmentLine renders one billing segment.
func segmentLine(seg api.BillingSegment) string {
	line := seg.RuleName + " " + format.TimeRange(seg.StartTime, seg.EndTime) + " " + format.Money(seg.Cost)
	if seg.IsCapped {
		line += " (capped)"
	}
	return line
}

// activePassExpiry finds the expiry of the first available pass that
// has one, or nil when the user holds no expiring pass.
func activePassExpiry(w *api.Wallet) *int64 {
	if w == nil {
		return nil
	}
	for _, pass := range w.Passes.AvailableAssets {
		if pass.ExpireAt != nil {
			return pass.ExpireAt
		}
	}
	return nil
}

// RenderPreview renders the live billing snapshot of an open session:
// timing, costs before and after discounts, wallet impact, the billable
// segment breakdown and any active pass. now supplies the projected
// close time when the snapshot carries no segments.
func RenderPreview(p *api.BillingPreview, now time.Time) string {
	projectedClose := now.UnixMilli()
	segments := visibleSegments(p.Billing.Segments)
	if n := len(p.Billing.Segments); n > 0 {
		projectedClose = p.Billing.Segments[n-1].EndTime
	}

	lines := []string{
		"Open since: " + format.Timestamp(p.Session.CreatedAt),
		"Projected close: " + format.Timestamp(projectedClose),
		SectionDivider,
	}

	preDiscount := p.Billing.TotalCost
	if p.Discount != nil {
		preDiscount = p.Discount.OriginalCost
	}
	lines = append(lines, "Cost: "+format.Money(preDiscount))

	if p.Discount != nil {
		for _, log := range p.Discount.AppliedLogs {
			name := "discount"
			if log.Asset != nil {
				name = log.Asset.Name
			}
			lines = append(lines, "  -"+format.Money(log.Saved)+" ("+name+")")
		}
	}

	final := ChargedCost(p.Session, p.Discount, p.Billing.TotalCost)
	lines = append(lines, "Final cost: "+format.Money(final))

	if p.Wallet != nil {
		lines = append(lines,
			SectionDivider,
			"Balance: "+format.Money(p.Wallet.Total.Available),
			"Balance after checkout: "+format.Money(p.Wallet.Total.Available-final),
		)
	}

	if len(segments) > 0 {
		lines = append(lines, SectionDivider)
		for _, seg := range segments {
			lines = append(lines, segmentLine(seg))
		}
	}

	if expiry := activePassExpiry(p.Wallet); expiry != nil {
		lines = append(lines, SectionDivider, "Pass active until "+format.Timestamp(*expiry))
	}

	return strings.Join(lines, "\n")
}

// RenderReceipt renders the outcome of a finalized checkout. A
// finalize call returns no segment or discount detail, so the receipt
// carries only timing and the charged amount.
func RenderReceipt(r *api.LogoutResult) string {
	closedAt := "-"
	if r.Session.ClosedAt != nil {
		closedAt = format.Timestamp(*r.Session.ClosedAt)
	}

	lines := []string{
		"Checked out.",
		"Open since: " + format.Timestamp(r.Session.CreatedAt),
		"Closed at: " + closedAt,
		"Charged: " + format.Money(receiptCost(r.Session, r.Billing.TotalCost)),
	}
	return strings.Join(lines, "\n")
}
