package craftsman_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vasilestie-backend/internal/domains/craftsman"
)

func TestEffectiveSubscriptionStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("active within window", func(t *testing.T) {
		c := &craftsman.Craftsman{
			SubscriptionStatus:  craftsman.SubscriptionActive,
			SubscriptionEndDate: &future,
		}
		assert.Equal(t, craftsman.SubscriptionActive, c.EffectiveSubscriptionStatus(now))
	})

	t.Run("active past end date reads expired", func(t *testing.T) {
		c := &craftsman.Craftsman{
			SubscriptionStatus:  craftsman.SubscriptionActive,
			SubscriptionEndDate: &past,
		}
		assert.Equal(t, craftsman.SubscriptionExpired, c.EffectiveSubscriptionStatus(now))
	})

	t.Run("inactive never expires", func(t *testing.T) {
		c := &craftsman.Craftsman{
			SubscriptionStatus: craftsman.SubscriptionInactive,
		}
		assert.Equal(t, craftsman.SubscriptionInactive, c.EffectiveSubscriptionStatus(now))
	})

	t.Run("active without end date stays active", func(t *testing.T) {
		c := &craftsman.Craftsman{
			SubscriptionStatus: craftsman.SubscriptionActive,
		}
		assert.Equal(t, craftsman.SubscriptionActive, c.EffectiveSubscriptionStatus(now))
	})
}

func TestIsPubliclyVisible(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	visible := &craftsman.Craftsman{
		Verified:            true,
		SubscriptionStatus:  craftsman.SubscriptionActive,
		SubscriptionEndDate: &future,
	}
	assert.True(t, visible.IsPubliclyVisible(now))

	lapsed := &craftsman.Craftsman{
		Verified:            true,
		SubscriptionStatus:  craftsman.SubscriptionActive,
		SubscriptionEndDate: &past,
	}
	assert.False(t, lapsed.IsPubliclyVisible(now))

	unverified := &craftsman.Craftsman{
		Verified:            false,
		SubscriptionStatus:  craftsman.SubscriptionActive,
		SubscriptionEndDate: &future,
	}
	assert.False(t, unverified.IsPubliclyVisible(now))
}

func TestPlanPrice(t *testing.T) {
	assert.Equal(t, "49", craftsman.PlanPrice(craftsman.PlanBasic).String())
	assert.Equal(t, "99", craftsman.PlanPrice(craftsman.PlanPremium).String())
}
