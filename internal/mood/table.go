package mood

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Label string

const (
	Happy   Label = "happy"
	Sad     Label = "sad"
	Evil    Label = "evil"
	Neutral Label = "neutral"
)

// Labels is the enumeration order; ties in scoring resolve to the earliest label.
var Labels = []Label{Happy, Sad, Evil, Neutral}

func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Labels {
		if l == known {
			return l, true
		}
	}
	return Neutral, false
}

// Profile is the static configuration of one mood.
type Profile struct {
	Temperature float64  `yaml:"temperature"`
	Emoji       string   `yaml:"emoji"`
	Keywords    []string `yaml:"keywords"`
	Patterns    []string `yaml:"patterns"`
	Lines       []string `yaml:"lines"`

	compiled []*regexp.Regexp
}

type Table map[Label]*Profile

// DefaultTable returns a fresh copy of the built-in mood table.
func DefaultTable() Table {
	t := Table{
		Happy: {
			Temperature: 0.85,
			Emoji:       "😎",
			Keywords:    []string{"лол", "lol", "хаха", "haha", "😂", "😄", "😆", "🤣", "весело", "прикольно", "круто", "супер", "топ", "нічого собі"},
			Patterns:    []string{`[😀-😊😋-😎🤗🤩🥳]`, `ха+`, `лол+`, `хех+`},
			Lines: []string{
				"Успіх! Як Геральт, що нарешті знайшов Цірі після тисячі годин пошуків.",
				"Твій код працює як меч із сріблом проти вовкулак. Рідкість неймовірна.",
				"Achievement unlocked: 'Tarnished Developer' — код не розвалився при першому запуску.",
				"Ця радість як знайти легендарний лут у Bloodborne — неможливо, але сталося.",
				"Код виконався успішно, мов асасин, що прокрався непоміченим крізь всі тести.",
			},
		},
		Sad: {
			Temperature: 0.25,
			Emoji:       "😔",
			Keywords:    []string{"чорт", "блін", "не можу", "все пропало", "помилка", "не працює", "не виходить", "складно", "важко", "проблема"},
			Patterns:    []string{`[😢😭😞😔😟🙁☹]`, `ох+`, `ай+`, `ну+`},
			Lines: []string{
				"Твій код плаче гірше, ніж V у фіналі Cyberpunk 2077.",
				"Це смутніше за долю Солейра з Dark Souls — навіть сонце не світить.",
				"Stack trace довший за список вбивств Езіо Аудіторе.",
				"Ці баги множаться як монстри в Bloodborne під час кривавого місяця.",
				"Код розсипається, мов Night City після корпоративних воєн.",
			},
		},
		Evil: {
			Temperature: 0.65,
			Emoji:       "😈",
			Keywords:    []string{"дурний", "тупий", "ідіот", "фігня", "лайно", "треш", "жах", "кошмар", "сарказм", "іронія"},
			Patterns:    []string{`[😈👿😡🤬😠]`, `бл+я+`, `пі+ц+`, `сука+`},
			Lines: []string{
				"Цей код проклятий сильніше за Каер Морхен після нападу Дикого Полювання.",
				"Зло цього рівня навіть у The Witcher не показували. Респект.",
				"Розгортання цього коду — як випустити Aldrich на волю. Хаос гарантований.",
				"Рівень зла: Мікалаш з Bloodborne, але для кодерів.",
				"Ця архітектура темніша за найглибші підземелля Елден Рінг.",
			},
		},
		Neutral: {
			Temperature: 0.55,
			Emoji:       "🤖",
			Keywords:    []string{"функція", "клас", "метод", "API", "база даних", "код", "програма", "алгоритм", "система"},
			Lines: []string{
				"Поки що нічого не зламалося... як затишшя перед бурею в The Witcher.",
				"Стандартна операція. Нудно, як збирати ресурси в Assassin's Creed.",
				"Все виглядає нормально. Занадто нормально для світу кіберпанку.",
				"Статус: як NPC у Skyrim — функціонує, але без особливого запалу.",
				"Черговий день, черговий коміт. Принаймні не як перший день в Dark Souls.",
			},
		},
	}
	if err := t.compile(); err != nil {
		panic(err)
	}
	return t
}

// LoadTable reads a YAML mood table. An empty path yields the default table.
// Moods missing from the file keep their default profile.
func LoadTable(path string) (Table, error) {
	t := DefaultTable()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mood: read table: %w", err)
	}
	return ParseTable(data)
}

func ParseTable(data []byte) (Table, error) {
	var raw map[string]*Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("mood: parse table: %w", err)
	}
	t := DefaultTable()
	for name, p := range raw {
		label, ok := ParseLabel(name)
		if !ok {
			return nil, fmt.Errorf("mood: unknown mood %q", name)
		}
		if p == nil {
			continue
		}
		if p.Temperature < 0 || p.Temperature > 1 {
			return nil, fmt.Errorf("mood: %s temperature %.2f out of [0,1]", label, p.Temperature)
		}
		t[label] = p
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t Table) compile() error {
	for _, label := range Labels {
		p, ok := t[label]
		if !ok || p == nil {
			return fmt.Errorf("mood: missing profile for %s", label)
		}
		p.compiled = p.compiled[:0]
		for _, expr := range p.Patterns {
			re, err := regexp.Compile(`(?i)` + expr)
			if err != nil {
				return fmt.Errorf("mood: %s pattern %q: %w", label, expr, err)
			}
			p.compiled = append(p.compiled, re)
		}
	}
	return nil
}
