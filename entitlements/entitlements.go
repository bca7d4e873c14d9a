// Package entitlements maps a user's tier to the feature access and
// quotas that tier is granted. Keep this small and stable: handlers rely
// on these decisions to enforce behavior.
package entitlements

type Role string

const (
	RoleFree    Role = "FREE"
	RolePremium Role = "PREMIUM"
)

// ParseRole normalizes a role string. Anything unrecognized is treated
// as FREE so an unknown or missing role never unlocks features.
func ParseRole(s string) Role {
	if s == string(RolePremium) {
		return RolePremium
	}
	return RoleFree
}

type Action string

const (
	CreateTransaction Action = "create_transaction"
	ListTransactions  Action = "list_transactions"
	CreateCategory    Action = "create_category"
	UpdateCategory    Action = "update_category"
	DeleteCategory    Action = "delete_category"
)

const (
	ReasonPremiumRequired = "premium-required"
	ReasonQuotaExceeded   = "quota-exceeded"

	// QuotaUnlimited marks a quota that is never exhausted.
	QuotaUnlimited = -1

	freeHistoryDays    = 30
	premiumHistoryDays = 365
	freeMonthlyQuota   = 50
)

// Decision is the outcome of a policy check. For ListTransactions the
// HistoryDays field bounds how far back the caller may query; for
// CreateTransaction the MonthlyQuota field caps how many transactions
// the caller may have created this calendar month.
type Decision struct {
	Allowed      bool
	Reason       string
	HistoryDays  int
	MonthlyQuota int
}

// Decide computes the policy decision for an action performed by a user
// of the given role. It performs no I/O; counting transactions against
// the returned quota is the caller's job.
func Decide(action Action, role Role) Decision {
	premium := ParseRole(string(role)) == RolePremium

	switch action {
	case CreateCategory, UpdateCategory, DeleteCategory:
		if !premium {
			return Decision{Allowed: false, Reason: ReasonPremiumRequired}
		}
		return Decision{Allowed: true}

	case ListTransactions:
		days := freeHistoryDays
		if premium {
			days = premiumHistoryDays
		}
		return Decision{Allowed: true, HistoryDays: days}

	case CreateTransaction:
		quota := freeMonthlyQuota
		if premium {
			quota = QuotaUnlimited
		}
		return Decision{Allowed: true, MonthlyQuota: quota}
	}

	return Decision{Allowed: false}
}

// QuotaExceeded reports whether a user who already created count
// transactions this month is at or above the decision's quota.
func (d Decision) QuotaExceeded(count int) bool {
	return d.MonthlyQuota != QuotaUnlimited && count >= d.MonthlyQuota
}
