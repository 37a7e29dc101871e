package valueobject

import "errors"

// GuardrailType где срабатывает guardrail
type GuardrailType string

const (
	GuardrailInput  GuardrailType = "input"
	GuardrailOutput GuardrailType = "output"
	GuardrailBoth   GuardrailType = "both"
)

// Validate проверяет валидность типа guardrail
func (t GuardrailType) Validate() error {
	switch t {
	case GuardrailInput, GuardrailOutput, GuardrailBoth:
		return nil
	default:
		return errors.New("invalid guardrail type")
	}
}

// GuardrailStatus состояние guardrail
type GuardrailStatus string

const (
	GuardrailActive   GuardrailStatus = "active"
	GuardrailInactive GuardrailStatus = "inactive"
	GuardrailPending  GuardrailStatus = "pending"
)

// Validate проверяет валидность статуса guardrail
func (s GuardrailStatus) Validate() error {
	switch s {
	case GuardrailActive, GuardrailInactive, GuardrailPending:
		return nil
	default:
		return errors.New("invalid guardrail status")
	}
}

// EventType исход проверки в ленте событий
type EventType string

const (
	EventBlocked   EventType = "blocked"
	EventTriggered EventType = "triggered"
	EventPassed    EventType = "passed"
)
