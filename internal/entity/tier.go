package entity

// Tier is the ordered access level shared by plans and content: free < basic < premium < pro.
type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
	TierPro     Tier = "pro"
)

var tierRank = map[Tier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
	TierPro:     3,
}

// Rank returns -1 for unknown tiers.
func (t Tier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return -1
}

func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Covers reports whether holding t grants access to a resource that requires required.
func (t Tier) Covers(required Tier) bool {
	if !t.Valid() || !required.Valid() {
		return false
	}
	return required.Rank() <= t.Rank()
}

func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Valid()
}
