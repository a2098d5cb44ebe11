package domain

import "math"

// Macros holds calories (kcal) and macronutrient grams.
type Macros struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// DefaultMacroTargets is used when a user asks for a plan without saved goals.
var DefaultMacroTargets = Macros{Calories: 2000, Protein: 150, Carbs: 200, Fat: 67}

// Add returns the element-wise sum.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// Sub returns the element-wise difference. Results may be negative.
func (m Macros) Sub(o Macros) Macros {
	return m.Add(o.Scale(-1))
}

// Scale multiplies every field by factor.
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// Rounded rounds every field to one decimal place.
func (m Macros) Rounded() Macros {
	return Macros{
		Calories: round1(m.Calories),
		Protein:  round1(m.Protein),
		Carbs:    round1(m.Carbs),
		Fat:      round1(m.Fat),
	}
}

// IsZero reports whether every field is zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}

func (m Macros) validate(prefix string) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return invalid(prefix+f.name, "must be a non-negative number")
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
