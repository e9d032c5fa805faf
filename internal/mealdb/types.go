package mealdb

import (
	"fmt"
	"strings"
)

// MaxIngredients is the number of ingredient/measure slots in a meal record.
const MaxIngredients = 20

// Meal is a recipe as returned by the API. It is replaced wholesale on every
// fetch and never mutated.
type Meal struct {
	ID           string
	Title        string
	Category     string
	Area         string // empty when the API omits it
	Instructions string
	Thumbnail    string
	Source       string
	YouTube      string
	Tags         []string

	// Ingredients keeps all slots in index order, blanks included.
	Ingredients [MaxIngredients]Ingredient
}

// Ingredient is one strIngredientN/strMeasureN slot.
type Ingredient struct {
	Name    string
	Measure string
}

// Blank reports whether the slot carries no ingredient.
func (i Ingredient) Blank() bool {
	return strings.TrimSpace(i.Name) == ""
}

// Record mirrors a single element of the API's "meals" array. Values are
// strings or null.
type Record map[string]any

// mealsResponse mirrors random.php and lookup.php payloads.
type mealsResponse struct {
	Meals []Record `json:"meals"`
}

func (r Record) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Meal projects the record into a Meal.
func (r Record) Meal() Meal {
	m := Meal{
		ID:           strings.TrimSpace(r.str("idMeal")),
		Title:        r.str("strMeal"),
		Category:     r.str("strCategory"),
		Area:         strings.TrimSpace(r.str("strArea")),
		Instructions: r.str("strInstructions"),
		Thumbnail:    r.str("strMealThumb"),
		Source:       strings.TrimSpace(r.str("strSource")),
		YouTube:      strings.TrimSpace(r.str("strYoutube")),
		Tags:         splitTags(r.str("strTags")),
	}
	for i := range MaxIngredients {
		m.Ingredients[i] = Ingredient{
			Name:    r.str(fmt.Sprintf("strIngredient%d", i+1)),
			Measure: r.str(fmt.Sprintf("strMeasure%d", i+1)),
		}
	}
	return m
}

func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
