package valueobject

import "errors"

// ESGCategory ось ESG-оценки
type ESGCategory string

const (
	ESGEnvironmental ESGCategory = "Environmental"
	ESGSocial        ESGCategory = "Social"
	ESGGovernance    ESGCategory = "Governance"
)

// Validate проверяет валидность категории
func (c ESGCategory) Validate() error {
	switch c {
	case ESGEnvironmental, ESGSocial, ESGGovernance:
		return nil
	default:
		return errors.New("invalid ESG category")
	}
}

// ESGStatus статус категории ESG
type ESGStatus string

const (
	ESGExcellent ESGStatus = "excellent"
	ESGGood      ESGStatus = "good"
	ESGAttention ESGStatus = "attention"
	ESGRisk      ESGStatus = "risk"
)

// Validate проверяет валидность статуса
func (s ESGStatus) Validate() error {
	switch s {
	case ESGExcellent, ESGGood, ESGAttention, ESGRisk:
		return nil
	default:
		return errors.New("invalid ESG status")
	}
}
