package search

import (
	"testing"

	"github.com/rogersnm/smoothies/internal/model"
	"github.com/stretchr/testify/assert"
)

var fixtures = []model.Smoothie{
	{
		ID:   "1",
		Name: "Strawberry Blast",
		Ingredients: []model.Ingredient{
			{Name: "Strawberries", Quantity: "200g"},
			{Name: "Banana", Quantity: "1 medium"},
			{Name: "Yogurt", Quantity: "150ml"},
		},
		Tags: []string{"Fruit", "Summer"},
	},
	{
		ID:   "2",
		Name: "Mango Mania",
		Ingredients: []model.Ingredient{
			{Name: "Mango", Quantity: "2 cups"},
			{Name: "Pineapple", Quantity: "1 cup"},
			{Name: "Coconut Milk", Quantity: "250ml"},
		},
		IsPublished: true,
		Tags:        []string{"Tropical", "Refreshing"},
	},
	{
		ID:   "3",
		Name: "Green Goddess",
		Ingredients: []model.Ingredient{
			{Name: "Spinach", Quantity: "100g"},
			{Name: "Kale", Quantity: "50g"},
			{Name: "Apple", Quantity: "1 large"},
		},
		IsPublished: true,
		Tags:        []string{"Healthy", "Vegan"},
	},
	{
		ID:   "4",
		Name: "Berry Blast",
		Ingredients: []model.Ingredient{
			{Name: "Blueberries", Quantity: "150g"},
			{Name: "Raspberries", Quantity: "100g"},
			{Name: "Almond Milk", Quantity: "200ml"},
		},
		Tags: []string{"Fruit", "Antioxidants"},
	},
	{
		ID:   "5",
		Name: "Chocolate Delight",
		Ingredients: []model.Ingredient{
			{Name: "Cocoa Powder", Quantity: "2 tbsp"},
			{Name: "Banana", Quantity: "1 medium"},
			{Name: "Milk", Quantity: "200ml"},
		},
		IsPublished: true,
	},
	{
		ID:          "6",
		Name:        "Sunday Surprise",
		Ingredients: []model.Ingredient{{Name: "Mystery Ingredient", Quantity: "1 unit"}},
		Tags:        []string{""},
	},
	{
		ID:          "7",
		Name:        "Milk",
		Ingredients: []model.Ingredient{},
		Tags:        []string{"No Ingredients"},
	},
}

func ids(smoothies []model.Smoothie) []string {
	out := make([]string, 0, len(smoothies))
	for _, s := range smoothies {
		out = append(out, s.ID)
	}
	return out
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "helloworld12345", Normalize("Hello, World! 12345"))
	assert.Equal(t, "fruit", Normalize("Fruit-"))
	assert.Equal(t, "", Normalize("  -!? "))
	assert.Equal(t, "açaí", Normalize("Açaí!"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "Hello, World! 12345", "Strawberry Blast", "  Tabs\tand\nnewlines ",
		"ÀÉÎÕÜ", "İstanbul", "ǅemal", "emoji 🍓 berry", "100% juice", "x_y-z.w",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	assert.Equal(t, fixtures, Filter("", fixtures))
	assert.Equal(t, fixtures, Filter("   \t ", fixtures))
}

func TestFilter_EmptyQueryDoesNotAlias(t *testing.T) {
	got := Filter("", fixtures)
	got[0].Name = "changed"
	assert.Equal(t, "Strawberry Blast", fixtures[0].Name)
}

func TestFilter_NoMatch(t *testing.T) {
	assert.Empty(t, Filter("nonexistent", fixtures))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"full name", "Sunday Surprise", []string{"6"}},
		{"partial name, mixed case", "BlAsT", []string{"1", "4"}},
		{"partial ingredient", "ystery", []string{"6"}},
		{"ingredient case insensitive", "mILk", []string{"2", "4", "5", "7"}},
		{"multiple ingredients", "raspberries blueberries", []string{"4"}},
		{"partial tag", "tRoPiCa", []string{"2"}},
		{"tag on smoothie without ingredients", "No Ingredients", []string{"7"}},
		{"punctuation ignored", "Fruit-", []string{"1", "4"}},
		{"punctuation-only token ignored", "Fruit -", []string{"1", "4"}},
		{"multiple tags", "Summer Fruit", []string{"1"}},
		{"tokens across fields", "goddess kale vegan", []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tt.query, fixtures)))
		})
	}
}

func TestFilter_SingleTokenProperty(t *testing.T) {
	for _, q := range []string{"a", "an", "berr", "milk", "fruit", "1", "cup", "tropical", "ma"} {
		got := map[string]bool{}
		for _, s := range Filter(q, fixtures) {
			got[s.ID] = true
		}
		n := Normalize(q)
		for _, s := range fixtures {
			want := contains(Normalize(s.Name), n)
			for _, tag := range s.Tags {
				want = want || contains(Normalize(tag), n)
			}
			for _, ing := range s.Ingredients {
				want = want || contains(Normalize(ing.Name), n)
			}
			assert.Equal(t, want, got[s.ID], "query %q smoothie %s", q, s.ID)
		}
	}
}

func TestFilter_NilTags(t *testing.T) {
	in := []model.Smoothie{{ID: "x", Name: "Plain", Ingredients: nil, Tags: nil}}
	assert.Equal(t, []string{"x"}, ids(Filter("plain", in)))
	assert.Empty(t, Filter("fruit", in))
}

func contains(field, tok string) bool {
	for i := 0; i+len(tok) <= len(field); i++ {
		if field[i:i+len(tok)] == tok {
			return true
		}
	}
	return false
}
