package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// FormatCurrency форматирует сумму: меньше 0.01 с пятью знаками, от 0.01 с четырьмя.
// Отрицательные суммы выводятся со знаком минус перед символом валюты.
func FormatCurrency(amount float64) string {
	if amount < 0 {
		m, _ := valueobject.NewMoney(-amount)
		return "-" + m.String()
	}
	m, _ := valueobject.NewMoney(amount)
	return m.String()
}

// CostTrendView отображение тренда расходов
type CostTrendView struct {
	Percent float64
	// Favorable true, когда расходы снизились
	Favorable bool
	Tone      valueobject.Tone
	Direction valueobject.Trend
	Label     string
}

// CostTrend инвертирует полярность: снижение расходов хорошо, рост плохо
func CostTrend(percent float64) CostTrendView {
	view := CostTrendView{
		Percent: percent,
		Label:   fmt.Sprintf("%.1f%%", math.Abs(percent)),
	}

	switch {
	case percent < 0:
		view.Favorable = true
		view.Tone = valueobject.ToneSuccess
		view.Direction = valueobject.TrendDown
	case percent > 0:
		view.Tone = valueobject.ToneDestructive
		view.Direction = valueobject.TrendUp
	default:
		view.Tone = valueobject.ToneMuted
		view.Direction = valueobject.TrendStable
	}
	return view
}

// CostPer1KTokens стоимость тысячи токенов
func CostPer1KTokens(costPerToken float64) float64 {
	return costPerToken * 1000
}
