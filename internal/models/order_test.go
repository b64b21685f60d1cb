package models_test

import (
	"testing"

	"boutique/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func settings(threshold, percentage float64) models.DeliverySettings {
	return models.DeliverySettings{
		FreeDeliveryThreshold: decimal.NewFromFloat(threshold),
		DeliveryPercentage:    decimal.NewFromFloat(percentage),
	}
}

func TestDeliveryCostUnderThreshold(t *testing.T) {
	s := settings(50, 10)
	cost := s.DeliveryCost(decimal.NewFromFloat(40))
	assert.True(t, cost.Equal(decimal.NewFromFloat(4.00)), "got %s", cost)
}

func TestDeliveryCostAtAndAboveThreshold(t *testing.T) {
	s := settings(50, 10)
	assert.True(t, s.DeliveryCost(decimal.NewFromFloat(50)).IsZero())
	assert.True(t, s.DeliveryCost(decimal.NewFromFloat(60)).IsZero())
}

func TestDeliveryCostRounding(t *testing.T) {
	s := settings(50, 10)
	// 33.33 * 10% = 3.333 -> 3.33
	cost := s.DeliveryCost(decimal.NewFromFloat(33.33))
	assert.Equal(t, "3.33", cost.StringFixed(2))
	// 33.35 * 10% = 3.335 -> rounds half-up to 3.34
	cost = s.DeliveryCost(decimal.NewFromFloat(33.35))
	assert.Equal(t, "3.34", cost.StringFixed(2))
}

func TestDeliveryNoPolicyConfigured(t *testing.T) {
	// Absent settings behave as zeros and never fail: zero percentage
	// yields a zero fee regardless of total.
	s := models.DeliverySettings{}
	assert.True(t, s.DeliveryCost(decimal.NewFromFloat(10)).IsZero())
	assert.True(t, s.FreeDeliveryDelta(decimal.NewFromFloat(10)).IsZero())
}

func TestFreeDeliveryDelta(t *testing.T) {
	s := settings(50, 10)
	delta := s.FreeDeliveryDelta(decimal.NewFromFloat(40))
	assert.Equal(t, "10.00", delta.StringFixed(2))
	assert.True(t, s.FreeDeliveryDelta(decimal.NewFromFloat(50)).IsZero())
}

func TestNewOrderNumber(t *testing.T) {
	first := models.NewOrderNumber()
	second := models.NewOrderNumber()
	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "-")
}
