package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMutationsRequirePremium(t *testing.T) {
	for _, action := range []Action{CreateCategory, UpdateCategory, DeleteCategory} {
		free := Decide(action, RoleFree)
		assert.False(t, free.Allowed, "%s should be denied for FREE", action)
		assert.Equal(t, ReasonPremiumRequired, free.Reason)

		premium := Decide(action, RolePremium)
		assert.True(t, premium.Allowed, "%s should be allowed for PREMIUM", action)
		assert.Empty(t, premium.Reason)
	}
}

func TestHistoryWindow(t *testing.T) {
	assert.Equal(t, 30, Decide(ListTransactions, RoleFree).HistoryDays)
	assert.Equal(t, 365, Decide(ListTransactions, RolePremium).HistoryDays)
}

func TestTransactionQuota(t *testing.T) {
	free := Decide(CreateTransaction, RoleFree)
	assert.True(t, free.Allowed)
	assert.Equal(t, 50, free.MonthlyQuota)

	assert.False(t, free.QuotaExceeded(49), "under quota should be allowed")
	assert.True(t, free.QuotaExceeded(50), "a 51st transaction should be denied")
	assert.True(t, free.QuotaExceeded(51))

	premium := Decide(CreateTransaction, RolePremium)
	assert.Equal(t, QuotaUnlimited, premium.MonthlyQuota)
	assert.False(t, premium.QuotaExceeded(1000), "premium quota is unbounded")
}

func TestUnknownRoleTreatedAsFree(t *testing.T) {
	d := Decide(CreateCategory, Role("TRIAL"))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonPremiumRequired, d.Reason)

	assert.Equal(t, 30, Decide(ListTransactions, Role("")).HistoryDays)
	assert.Equal(t, 50, Decide(CreateTransaction, Role("gold")).MonthlyQuota)
}

func TestUnknownActionDenied(t *testing.T) {
	assert.False(t, Decide(Action("export_csv"), RolePremium).Allowed)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RolePremium, ParseRole("PREMIUM"))
	assert.Equal(t, RoleFree, ParseRole("FREE"))
	assert.Equal(t, RoleFree, ParseRole("premium"))
	assert.Equal(t, RoleFree, ParseRole(""))
}
