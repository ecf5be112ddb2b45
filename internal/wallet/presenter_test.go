package wallet

import (
	"strings"
	"testing"
	"time"

	"github.com/nerimoe/prismbot/internal/api"
)

func expiryAt(year, month, day int) *int64 {
	ms := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local).UnixMilli()
	return &ms
}

func TestRenderSummary_Balances(t *testing.T) {
	w := &api.Wallet{
		Total: api.Balance{Available: 85, All: 100},
		Paid:  api.Balance{Available: 60, All: 60},
		Free:  api.Balance{Available: 25, All: 40},
	}

	out := RenderSummary(w)

	for _, want := range []string{
		"Balance: ¥85 / ¥100",
		"Paid: ¥60",
		"Free: ¥25",
		"Locked (not yet active): ¥15",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary_NoLockedLineWhenFullyAvailable(t *testing.T) {
	w := &api.Wallet{
		Total: api.Balance{Available: 100, All: 100},
	}

	if out := RenderSummary(w); strings.Contains(out, "Locked") {
		t.Errorf("summary has a locked line with nothing locked:\n%s", out)
	}
}

func TestRenderSummary_SoonestExpiry(t *testing.T) {
	w := &api.Wallet{
		Total: api.Balance{Available: 50, All: 50},
		Free: api.Balance{
			Available: 50,
			All:       50,
			AvailableAssets: []api.UserAsset{
				{Asset: &api.AssetDef{Name: "March grant"}, Count: 10, ExpireAt: expiryAt(2025, 3, 1)},
				{Asset: &api.AssetDef{Name: "January grant"}, Count: 5, ExpireAt: expiryAt(2025, 1, 15)},
				{Asset: &api.AssetDef{Name: "February grant"}, Count: 8, ExpireAt: expiryAt(2025, 2, 10)},
			},
		},
	}

	out := RenderSummary(w)
	want := "Expiring soon: 5 × January grant, expires 2025/01/15 00:00:00"
	if !strings.Contains(out, want) {
		t.Errorf("summary missing %q:\n%s", want, out)
	}
}

func TestRenderSummary_TieKeepsOriginalOrder(t *testing.T) {
	same := expiryAt(2025, 1, 15)
	w := &api.Wallet{
		Free: api.Balance{
			AvailableAssets: []api.UserAsset{
				{Asset: &api.AssetDef{Name: "First"}, Count: 1, ExpireAt: same},
				{Asset: &api.AssetDef{Name: "Second"}, Count: 2, ExpireAt: same},
			},
		},
	}

	if out := RenderSummary(w); !strings.Contains(out, "1 × First") {
		t.Errorf("tie not broken by original order:\n%s", out)
	}
}

func TestRenderSummary_NoExpiryLineWithoutExpiringAssets(t *testing.T) {
	w := &api.Wallet{
		Free: api.Balance{
			Available: 10,
			All:       10,
			AvailableAssets: []api.UserAsset{
				{Asset: &api.AssetDef{Name: "Permanent grant"}, Count: 10},
			},
		},
	}

	if out := RenderSummary(w); strings.Contains(out, "Expiring soon") {
		t.Errorf("summary has an expiry line with no expiring assets:\n%s", out)
	}
}

func TestRenderSummary_PassesAndTickets(t *testing.T) {
	w := &api.Wallet{
		Passes: api.Balance{
			AvailableAssets: []api.UserAsset{
				{Asset: &api.AssetDef{Name: "Monthly pass", Type: "pass"}, Count: 1},
			},
		},
		Tickets: api.Balance{
			AvailableAssets: []api.UserAsset{
				{Asset: &api.AssetDef{Name: "Laser cutter ticket", Type: "ticket"}, Count: 3},
			},
		},
	}

	out := RenderSummary(w)
	if !strings.Contains(out, "Passes:\n  Monthly pass") {
		t.Errorf("summary missing pass section:\n%s", out)
	}
	if !strings.Contains(out, "Tickets:\n  Laser cutter ticket ×3") {
		t.Errorf("summary missing ticket section:\n%s", out)
	}
}

func TestRenderSummary_EmptyGroupsOmitted(t *testing.T) {
	out := RenderSummary(&api.Wallet{})
	if strings.Contains(out, "Passes:") || strings.Contains(out, "Tickets:") {
		t.Errorf("summary renders empty sections:\n%s", out)
	}
}

func TestRenderItems(t *testing.T) {
	assets := []api.UserAsset{
		{Asset: &api.AssetDef{Name: "Monthly pass"}, Count: 1, ExpireAt: expiryAt(2025, 4, 1)},
		{Asset: &api.AssetDef{Name: "Free credit"}, Count: 5},
	}

	out := RenderItems(assets)
	if !strings.Contains(out, "Monthly pass ×1, expires 2025/04/01 00:00:00") {
		t.Errorf("items missing expiring asset line:\n%s", out)
	}
	if !strings.Contains(out, "Free credit ×5") || strings.Contains(out, "Free credit ×5, expires") {
		t.Errorf("non-expiring asset rendered wrong:\n%s", out)
	}
}

func TestRenderItems_Empty(t *testing.T) {
	if got := RenderItems(nil); got != NoItemsMessage {
		t.Errorf("RenderItems(nil) = %q, want %q", got, NoItemsMessage)
	}
}
