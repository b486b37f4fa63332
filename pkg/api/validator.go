package api

import "errors"

// Validator - интерфейс, который реализуют DTO с нагрузкой
type Validator interface {
	Validate() error
}

func (p CreatePayload) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return errors.New("grid dimensions must be positive")
	}
	return nil
}

func (p TerrainPayload) Validate() error {
	if p.Kind == "" {
		return errors.New("terrain kind is required")
	}
	return nil
}

func (p PlacePayload) Validate() error {
	if p.CombatantID == "" {
		return errors.New("combatantId is required")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if p.CombatantID == "" {
		return errors.New("combatantId is required")
	}
	if p.BudgetFeet < 0 {
		return errors.New("budgetFeet cannot be negative")
	}
	return nil
}

func (p CombatantPayload) Validate() error {
	if p.CombatantID == "" {
		return errors.New("combatantId is required")
	}
	return nil
}

func (p BudgetPayload) Validate() error {
	if p.CombatantID == "" {
		return errors.New("combatantId is required")
	}
	if p.BudgetFeet < 0 {
		return errors.New("budgetFeet cannot be negative")
	}
	return nil
}

func (p RangePayload) Validate() error {
	if p.CombatantID == "" {
		return errors.New("combatantId is required")
	}
	if p.RangeFeet <= 0 {
		return errors.New("rangeFeet must be positive")
	}
	return nil
}

func (p CoverPayload) Validate() error {
	if p.AttackerID == "" || p.TargetID == "" {
		return errors.New("attackerId and targetId are required")
	}
	return nil
}

func (p VisionPayload) Validate() error {
	if p.CombatantID == "" {
		return errors.New("combatantId is required")
	}
	if p.RadiusFeet <= 0 {
		return errors.New("radiusFeet must be positive")
	}
	return nil
}
