package entity

import "github.com/dreschagin/rai-dashboard/internal/domain/valueobject"

// Policy карточка внутренней или регуляторной политики
type Policy struct {
	ID           string
	Title        string
	Organization string
	Kind         string
	PolicyType   valueobject.PolicyType
	Region       valueobject.Region
	Updated      string
	Requirements string
	Description  string
}
