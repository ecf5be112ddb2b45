package api

// Session is one open-to-close occupancy interval for a user. All
// timestamps are epoch milliseconds as returned by the remote service.
type Session struct {
	CreatedAt     int64    `json:"createdAt"`
	ClosedAt      *int64   `json:"closedAt,omitempty"`
	CostOverwrite *float64 `json:"costOverwrite,omitempty"`
	FinalCost     *float64 `json:"finalCost,omitempty"`
}

// BillingSegment is one rule-attributed cost interval inside a session.
// Segments with negative cost are accounting adjustments, not billable
// time, and are excluded from display.
type BillingSegment struct {
	RuleID          string  `json:"ruleId"`
	RuleName        string  `json:"ruleName"`
	StartTime       int64   `json:"startTime"`
	EndTime         int64   `json:"endTime"`
	DurationMinutes float64 `json:"durationMinutes"`
	Cost            float64 `json:"cost"`
	IsCapped        bool    `json:"isCapped"`
}

// Billing is the rule-evaluated cost breakdown of a session.
type Billing struct {
	TotalCost float64          `json:"totalCost"`
	Segments  []BillingSegment `json:"segments"`
}

// AssetDef is the definition of a named grant.
type AssetDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DiscountLog records one held asset's contribution to a discount.
type DiscountLog struct {
	Asset *AssetDef `json:"asset"`
	Saved float64   `json:"saved"`
}

// Discount is an optional reduction applied to the raw segment total.
type Discount struct {
	OriginalCost float64       `json:"originalCost"`
	FinalCost    float64       `json:"finalCost"`
	AppliedLogs  []DiscountLog `json:"appliedLogs"`
}

// UserAsset is a holding of a named grant (free credit, pass, ticket).
type UserAsset struct {
	Asset    *AssetDef `json:"asset"`
	Count    int       `json:"count"`
	ExpireAt *int64    `json:"expireAt,omitempty"`
	ActiveAt *int64    `json:"activeAt,omitempty"`
}

// Balance is one wallet partition. The asset detail lists are present
// only when the wallet was fetched with details enabled.
type Balance struct {
	Available         float64     `json:"available"`
	All               float64     `json:"all"`
	AvailableAssets   []UserAsset `json:"availableAssets,omitempty"`
	UnavailableAssets []UserAsset `json:"unavailableAssets,omitempty"`
}

// Wallet is a user's partitioned stored-value balances.
// Total.All - Total.Available is the currently-locked balance.
type Wallet struct {
	Total   Balance `json:"total"`
	Paid    Balance `json:"paid"`
	Free    Balance `json:"free"`
	Tickets Balance `json:"tickets"`
	Passes  Balance `json:"passes"`
}

// BillingPreview is the live billing snapshot for an open session.
type BillingPreview struct {
	Session  Session   `json:"session"`
	Billing  Billing   `json:"billing"`
	Discount *Discount `json:"discount,omitempty"`
	Wallet   *Wallet   `json:"wallet,omitempty"`
}

// LogoutResult is the finalized outcome of closing a session. It
// carries no segment or discount detail.
type LogoutResult struct {
	Session Session `json:"session"`
	Billing Billing `json:"billing"`
}

// Bind associates a chat identity with a service user.
type Bind struct {
	Type string `json:"type"`
	BID  string `json:"bid"`
}

// ActiveUser is one currently checked-in user.
type ActiveUser struct {
	Binds    []Bind    `json:"binds"`
	Sessions []Session `json:"sessions"`
}

// MachineState reports one machine's power state.
type MachineState struct {
	Machine string `json:"machine"`
	State   bool   `json:"state"`
}

// WalletAdjustment is the result of a wallet credit or debit.
type WalletAdjustment struct {
	OriginalBalance float64 `json:"originalBalance"`
	FinalBalance    float64 `json:"finalBalance"`
}

// RedeemedItem is one grant produced by redeeming a code.
type RedeemedItem struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	AssetType  string `json:"assetType"`
	DurationMS *int64 `json:"durationMs,omitempty"`
}
