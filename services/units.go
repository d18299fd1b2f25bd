package services

import (
	"errors"
	"fmt"

	"calorie-assistant/entity"
)

// AmountToMultiplier converts amount of unit into a multiplier of p's base
// quantity. An empty unit means "in the food's base unit". Servings-based
// foods take the amount as the multiplier directly.
func AmountToMultiplier(amount float64, unit entity.Unit, p entity.Portion) (float64, error) {
	if amount <= 0 {
		return 0, invalid("amount must be > 0, got %v", amount)
	}
	if unit != "" && unit != p.BaseUnit {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnitMismatch, unit, p.BaseUnit)
	}
	if p.BaseUnit == entity.UnitServings {
		return amount, nil
	}
	if p.BaseAmount <= 0 {
		return 0, fmt.Errorf("%w: base amount %v %s", ErrInvalidUnit, p.BaseAmount, p.BaseUnit)
	}
	return amount / p.BaseAmount, nil
}

// MultiplierToAmount is the inverse of AmountToMultiplier in the food's base unit.
func MultiplierToAmount(multiplier float64, p entity.Portion) float64 {
	if p.BaseUnit == entity.UnitServings {
		return multiplier
	}
	return multiplier * p.BaseAmount
}

// ResolveMultiplier is AmountToMultiplier with the mismatch fallback: when
// there is no conversion between unit and the base unit the result is one
// base quantity.
func ResolveMultiplier(amount float64, unit entity.Unit, p entity.Portion) (float64, error) {
	m, err := AmountToMultiplier(amount, unit, p)
	if err == nil {
		return m, nil
	}
	if errors.Is(err, ErrUnitMismatch) {
		return 1, nil
	}
	return 0, err
}

// IntentMultiplier applies the voice rules on top of ResolveMultiplier: an
// explicit servings count is the multiplier whatever the food's base unit.
func IntentMultiplier(amount float64, unit entity.Unit, p entity.Portion) float64 {
	if unit == entity.UnitServings && amount > 0 {
		return amount
	}
	m, err := ResolveMultiplier(amount, unit, p)
	if err != nil {
		return 1
	}
	return m
}
