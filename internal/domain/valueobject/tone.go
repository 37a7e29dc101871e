package valueobject

// Tone цветовой класс, в который классифицируется значение.
// Конкретный цвет выбирает слой отображения.
type Tone string

const (
	ToneSuccess     Tone = "success"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
	ToneAccent      Tone = "accent"
	ToneMuted       Tone = "muted"
)

// String возвращает строковое представление
func (t Tone) String() string {
	return string(t)
}
