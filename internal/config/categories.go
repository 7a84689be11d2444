package config

// CategoryWeights orders command categories in help output. Unknown
// categories sort last.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"📢 Utilities":    10,
	"🛟 Support":      20,
	"💬 Community":    30,
	"⚙️ Settings":    50,
	"🛠️ Maintenance": 60,
}

// CategoryWeight returns the sort weight of category.
func CategoryWeight(category string) int {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return 1000
}
