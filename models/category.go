package models

// Category is one entry of the crop category table.
type Category struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

const (
	DefaultCategory = "grains"
	UnknownCropIcon = "❓"
)

// DefaultCategories is the built-in table. The first entry is the "all" filter
// sentinel, not a real category.
var DefaultCategories = []Category{
	{Value: CategoryAll, Label: "All Crops", Icon: "🌾"},
	{Value: "grains", Label: "Grains", Icon: "🌾"},
	{Value: "vegetables", Label: "Vegetables", Icon: "🥬"},
	{Value: "fruits", Label: "Fruits", Icon: "🍎"},
	{Value: "pulses", Label: "Pulses", Icon: "🫘"},
	{Value: "spices", Label: "Spices", Icon: "🌶️"},
	{Value: "fibers", Label: "Fibers", Icon: "🌱"},
}
