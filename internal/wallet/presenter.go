// Package wallet renders wallet snapshots and asset holdings into
// structured chat replies.
package wallet

import (
	"fmt"
	"strings"

	"github.com/nerimoe/prismbot/internal/api"
	"github.com/nerimoe/prismbot/internal/format"
)

// NoItemsMessage is the fixed reply for an empty holding set.
const NoItemsMessage = "No items."

func assetName(a api.UserAsset) string {
	if a.Asset != nil {
		return a.Asset.Name
	}
	return "(unknown)"
}

// soonestExpiring picks the asset with the minimum non-nil expiry,
// ties broken by original order. Returns nil when no asset expires.
func soonestExpiring(assets []api.UserAsset) *api.UserAsset {
	var soonest *api.UserAsset
	for i := range assets {
		a := &assets[i]
		if a.ExpireAt == nil {
			continue
		}
		if soonest == nil || *a.ExpireAt < *soonest.ExpireAt {
			soonest = a
		}
	}
	return soonest
}

// RenderSummary renders a wallet snapshot: balances, the locked
// portion when one exists, the soonest-expiring free grant, and the
// held passes and tickets.
func RenderSummary(w *api.Wallet) string {
	lines := []string{
		"Balance: " + format.Money(w.Total.Available) + " / " + format.Money(w.Total.All),
		"Paid: " + format.Money(w.Paid.Available),
		"Free: " + format.Money(w.Free.Available),
	}

	if locked := w.Total.All - w.Total.Available; locked > 0 {
		lines = append(lines, "Locked (not yet active): "+format.Money(locked))
	}

	if soonest := soonestExpiring(w.Free.AvailableAssets); soonest != nil {
		lines = append(lines, fmt.Sprintf("Expiring soon: %d × %s, expires %s",
			soonest.Count, assetName(*soonest), format.Timestamp(*soonest.ExpireAt)))
	}

	if len(w.Passes.AvailableAssets) > 0 {
		lines = append(lines, "Passes:")
		for _, pass := range w.Passes.AvailableAssets {
			lines = append(lines, "  "+assetName(pass))
		}
	}

	if len(w.Tickets.AvailableAssets) > 0 {
		lines = append(lines, "Tickets:")
		for _, ticket := range w.Tickets.AvailableAssets {
			lines = append(lines, fmt.Sprintf("  %s ×%d", assetName(ticket), ticket.Count))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderItems lists every held asset with its count and, when set, its
// expiry. An empty holding set renders a fixed message instead of an
// empty list.
func RenderItems(assets []api.UserAsset) string {
	if len(assets) == 0 {
		return NoItemsMessage
	}

	lines := make([]string, 0, len(assets))
	for _, a := range assets {
		line := fmt.Sprintf("%s ×%d", assetName(a), a.Count)
		if a.ExpireAt != nil {
			line += ", expires " + format.Timestamp(*a.ExpireAt)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
