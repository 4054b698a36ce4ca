package usecase

import "github.com/dealscope/backend/internal/domain"

// CategoryKeyword maps a search keyword to a catalog category.
// Keywords are matched case-insensitively with an optional plural suffix.
type CategoryKeyword struct {
	Keyword  string
	Category string
}

// DefaultCategoryKeywords is the production keyword table. Multi-word
// keywords come before the single words they contain.
var DefaultCategoryKeywords = []CategoryKeyword{
	// Electronics
	{"headphone", domain.CategoryElectronics},
	{"earbud", domain.CategoryElectronics},
	{"earphone", domain.CategoryElectronics},
	{"bluetooth speaker", domain.CategoryElectronics},
	{"speaker", domain.CategoryElectronics},
	{"laptop", domain.CategoryElectronics},
	{"tablet", domain.CategoryElectronics},
	{"charger", domain.CategoryElectronics},
	{"power bank", domain.CategoryElectronics},
	{"usb cable", domain.CategoryElectronics},
	{"cable", domain.CategoryElectronics},
	{"monitor", domain.CategoryElectronics},
	{"keyboard", domain.CategoryElectronics},
	{"smartwatch", domain.CategoryElectronics},
	{"tv", domain.CategoryElectronics},
	{"electronic", domain.CategoryElectronics},

	// Grocery
	{"protein powder", domain.CategoryGrocery},
	{"protein bar", domain.CategoryGrocery},
	{"protein", domain.CategoryGrocery},
	{"coffee bean", domain.CategoryGrocery},
	{"coffee", domain.CategoryGrocery},
	{"tea", domain.CategoryGrocery},
	{"snack", domain.CategoryGrocery},
	{"cereal", domain.CategoryGrocery},
	{"pasta", domain.CategoryGrocery},
	{"nut", domain.CategoryGrocery},
	{"olive oil", domain.CategoryGrocery},
	{"grocery", domain.CategoryGrocery},
	{"groceries", domain.CategoryGrocery},

	// Health & Personal Care
	{"multivitamin", domain.CategoryHealth},
	{"vitamin", domain.CategoryHealth},
	{"supplement", domain.CategoryHealth},
	{"probiotic", domain.CategoryHealth},
	{"fish oil", domain.CategoryHealth},
	{"melatonin", domain.CategoryHealth},
	{"collagen", domain.CategoryHealth},
	{"first aid", domain.CategoryHealth},
	{"pain relief", domain.CategoryHealth},

	// Home & Kitchen
	{"air fryer", domain.CategoryHomeKitchen},
	{"coffee maker", domain.CategoryHomeKitchen},
	{"blender", domain.CategoryHomeKitchen},
	{"cookware", domain.CategoryHomeKitchen},
	{"knife set", domain.CategoryHomeKitchen},
	{"pressure cooker", domain.CategoryHomeKitchen},
	{"kitchen", domain.CategoryHomeKitchen},

	// Beauty & Personal Care
	{"shampoo", domain.CategoryBeauty},
	{"conditioner", domain.CategoryBeauty},
	{"moisturizer", domain.CategoryBeauty},
	{"sunscreen", domain.CategoryBeauty},
	{"lotion", domain.CategoryBeauty},
	{"skincare", domain.CategoryBeauty},
	{"makeup", domain.CategoryBeauty},
	{"razor", domain.CategoryBeauty},

	// Sports & Outdoors
	{"yoga mat", domain.CategorySports},
	{"dumbbell", domain.CategorySports},
	{"resistance band", domain.CategorySports},
	{"water bottle", domain.CategorySports},
	{"camping", domain.CategorySports},
	{"fitness", domain.CategorySports},

	// Pet Supplies
	{"dog food", domain.CategoryPetSupplies},
	{"cat food", domain.CategoryPetSupplies},
	{"cat litter", domain.CategoryPetSupplies},
	{"litter", domain.CategoryPetSupplies},
	{"dog treat", domain.CategoryPetSupplies},
	{"pet", domain.CategoryPetSupplies},

	// Baby
	{"diaper", domain.CategoryBaby},
	{"baby wipe", domain.CategoryBaby},
	{"baby formula", domain.CategoryBaby},
	{"baby", domain.CategoryBaby},

	// Household Supplies
	{"paper towel", domain.CategoryHousehold},
	{"toilet paper", domain.CategoryHousehold},
	{"laundry detergent", domain.CategoryHousehold},
	{"detergent", domain.CategoryHousehold},
	{"trash bag", domain.CategoryHousehold},
	{"dish soap", domain.CategoryHousehold},
	{"cleaner", domain.CategoryHousehold},

	// Office Products
	{"printer paper", domain.CategoryOfficeProducts},
	{"notebook", domain.CategoryOfficeProducts},
	{"stapler", domain.CategoryOfficeProducts},
	{"pen", domain.CategoryOfficeProducts},
	{"marker", domain.CategoryOfficeProducts},
}

// DefaultBrands is the known brand list. When a query names several brands
// the one declared first here wins.
var DefaultBrands = []string{
	"Amazon Basics",
	"Sony",
	"Apple",
	"Samsung",
	"Bose",
	"Anker",
	"JBL",
	"Logitech",
	"Optimum Nutrition",
	"Nature Made",
	"Garden of Life",
	"Vital Proteins",
	"Orgain",
	"Quest",
	"KIND",
	"CeraVe",
	"Cetaphil",
	"Neutrogena",
	"Olay",
	"Ninja",
	"Instant Pot",
	"KitchenAid",
	"Cuisinart",
	"Pampers",
	"Huggies",
	"Purina",
	"Blue Buffalo",
	"Tide",
	"Bounty",
	"Charmin",
	"Clorox",
	"Hydro Flask",
	"Yeti",
	"Coleman",
	"Sharpie",
	"BIC",
}

// Phrase sets for the deal intent and filter detectors
var (
	topDealPhrases      = []string{"top deals?", "hot deals?", "hottest deals?", "fire deals?"}
	hiddenGemPhrases    = []string{"hidden gems?", "underrated", "under the radar", "sleeper hits?"}
	goodValuePhrases    = []string{"good value", "value for money", "bang for (?:the|your) buck"}
	highestRatedPhrases = []string{"highest rated", "top rated", "best rated", "highly rated", "best reviewed", "top reviewed"}
	cheapestPhrases     = []string{"cheapest", "cheap", "lowest prices?", "lowest cost", "budget", "affordable", "inexpensive"}
	preferDealPhrases   = []string{"best deals?", "great deals?", "good deals?", "best", "deals?", "bargains?", "discounted", "on sale"}
	noSponsoredPhrases  = []string{"no sponsored", "not sponsored", "non-sponsored", "without sponsored", "exclude sponsored", "hide sponsored", "no ads"}
	primePhrases        = []string{"prime only", "prime eligible", "with prime", "prime shipping", "prime"}
	bulkPhrases         = []string{"bulk savings", "bulk deals?", "bulk", "multi-?packs?", "value packs?", "family size"}
	highRatingPhrases   = []string{"high ratings?"}
)

// queryStopWords are dropped from the residual search term
var queryStopWords = map[string]bool{
	"and":  true,
	"with": true,
	"for":  true,
	"the":  true,
	"a":    true,
	"an":   true,
}
