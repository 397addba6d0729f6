package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceBand is the inclusive range prices are drawn from, in dollars with two decimals.
type PriceBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether price falls inside the band.
func (b PriceBand) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(b.Min) && price.LessThanOrEqual(b.Max)
}

func band(min, max string) PriceBand {
	return PriceBand{Min: decimal.RequireFromString(min), Max: decimal.RequireFromString(max)}
}

// Subcategory is a pool of item names that share a price band.
type Subcategory struct {
	Name  string
	Band  PriceBand
	Items []string
}

// Department groups the subcategories, barcode prefixes and brands of one category.
type Department struct {
	Category        Category
	Subcategories   []Subcategory
	BarcodePrefixes []string
	Brands          []string
	describe        string
}

// Describe renders the marketing line for an item of this department.
func (d Department) Describe(name string) string {
	return fmt.Sprintf(d.describe, strings.ToLower(name))
}

// Subcategory finds the pool that lists name.
func (d Department) Subcategory(name string) (Subcategory, bool) {
	for _, sub := range d.Subcategories {
		for _, item := range sub.Items {
			if item == name {
				return sub, true
			}
		}
	}
	return Subcategory{}, false
}

// Assortment is the full set of departments the generator draws from, in face-assignment order.
type Assortment []Department

// Department returns the entry for a category.
func (a Assortment) Department(c Category) (Department, bool) {
	for _, d := range a {
		if d.Category == c {
			return d, true
		}
	}
	return Department{}, false
}

// DefaultAssortment is the grocery store stock used by the generator.
var DefaultAssortment = Assortment{
	{
		Category: CategoryProduce,
		Subcategories: []Subcategory{
			{Name: "fruits", Band: band("0.50", "4.99"), Items: []string{
				"Gala Apples", "Red Delicious Apples", "Granny Smith Apples", "Fuji Apples",
				"Bananas", "Organic Bananas", "Plantains", "Cavendish Bananas",
				"Navel Oranges", "Valencia Oranges", "Blood Oranges", "Clementines",
				"Red Grapes", "Green Grapes", "Black Grapes", "Cotton Candy Grapes",
				"Strawberries", "Blueberries", "Raspberries", "Blackberries",
				"Pineapple", "Mango", "Papaya", "Kiwi", "Dragon Fruit",
			}},
			{Name: "vegetables", Band: band("0.30", "3.99"), Items: []string{
				"Roma Tomatoes", "Beefsteak Tomatoes", "Cherry Tomatoes", "Grape Tomatoes",
				"Baby Carrots", "Regular Carrots", "Purple Carrots", "Rainbow Carrots",
				"Iceberg Lettuce", "Romaine Lettuce", "Butter Lettuce", "Red Leaf Lettuce",
				"English Cucumbers", "Persian Cucumbers", "Pickling Cucumbers", "Armenian Cucumbers",
				"Russet Potatoes", "Red Potatoes", "Yukon Gold Potatoes", "Sweet Potatoes",
				"Yellow Onions", "Red Onions", "White Onions", "Shallots", "Garlic",
			}},
			{Name: "leafy_greens", Band: band("0.99", "4.99"), Items: []string{
				"Baby Spinach", "Kale", "Arugula", "Swiss Chard", "Collard Greens",
				"Mustard Greens", "Bok Choy", "Napa Cabbage", "Green Cabbage", "Red Cabbage",
				"Fresh Cilantro", "Fresh Parsley", "Fresh Basil", "Fresh Mint", "Fresh Rosemary",
				"Fresh Thyme", "Fresh Sage", "Fresh Oregano", "Fresh Dill", "Fresh Chives",
			}},
		},
		BarcodePrefixes: []string{"4", "5", "6", "7", "8", "9"},
		Brands:          []string{"Fresh Harvest", "Local Farm", "Organic Valley", "Earthbound Farm", "Driscoll's", "Chiquita", "Dole", "Del Monte"},
		describe:        "Fresh %s, premium quality",
	},
	{
		Category: CategoryDairy,
		Subcategories: []Subcategory{
			{Name: "milk", Band: band("2.99", "5.99"), Items: []string{
				"Whole Milk", "2% Reduced Fat Milk", "1% Low Fat Milk", "Skim Milk",
				"Organic Whole Milk", "Organic 2% Milk", "Lactose Free Milk", "Almond Milk",
				"Soy Milk", "Oat Milk", "Coconut Milk", "Cashew Milk", "Hemp Milk",
			}},
			{Name: "cheese", Band: band("2.99", "8.99"), Items: []string{
				"Sharp Cheddar Cheese", "Mild Cheddar Cheese", "White Cheddar Cheese",
				"Mozzarella Cheese", "Provolone Cheese", "Swiss Cheese", "Gouda Cheese",
				"Brie Cheese", "Blue Cheese", "Feta Cheese", "Parmesan Cheese", "Ricotta Cheese",
				"Cottage Cheese", "Cream Cheese", "String Cheese", "Colby Jack Cheese",
			}},
			{Name: "yogurt", Band: band("3.99", "6.99"), Items: []string{
				"Plain Greek Yogurt", "Vanilla Greek Yogurt", "Strawberry Greek Yogurt",
				"Blueberry Greek Yogurt", "Honey Greek Yogurt", "Coconut Greek Yogurt",
				"Regular Plain Yogurt", "Regular Vanilla Yogurt", "Regular Strawberry Yogurt",
				"Kids Yogurt Tubes", "Yogurt Cups", "Yogurt Drinks",
			}},
			{Name: "eggs_cream", Band: band("1.99", "4.99"), Items: []string{
				"Large Eggs", "Extra Large Eggs", "Jumbo Eggs", "Organic Eggs",
				"Cage Free Eggs", "Free Range Eggs", "Egg Whites", "Liquid Eggs",
				"Heavy Cream", "Light Cream", "Half and Half", "Whipping Cream",
				"Sour Cream", "Buttermilk", "Evaporated Milk", "Condensed Milk",
			}},
		},
		BarcodePrefixes: []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"},
		Brands:          []string{"Great Value", "Horizon Organic", "Organic Valley", "Tillamook", "Land O'Lakes", "Kraft", "Philadelphia", "Daisy", "Fage", "Chobani"},
		describe:        "Premium %s, great taste and quality",
	},
	{
		Category: CategoryMeat,
		Subcategories: []Subcategory{
			{Name: "chicken", Band: band("2.99", "8.99"), Items: []string{
				"Boneless Chicken Breast", "Bone-in Chicken Breast", "Chicken Thighs",
				"Chicken Drumsticks", "Chicken Wings", "Ground Chicken", "Chicken Tenders",
				"Chicken Cutlets", "Whole Chicken", "Rotisserie Chicken", "Chicken Sausage",
				"Chicken Hot Dogs", "Chicken Nuggets", "Chicken Patties",
			}},
			{Name: "beef", Band: band("4.99", "19.99"), Items: []string{
				"Ground Beef 80/20", "Ground Beef 90/10", "Ground Beef 93/7",
				"Ground Beef 95/5", "Ribeye Steak", "T-Bone Steak", "Porterhouse Steak",
				"Filet Mignon", "Strip Steak", "Flank Steak", "Skirt Steak", "Brisket",
				"Chuck Roast", "Round Roast", "Beef Short Ribs", "Beef Stew Meat",
			}},
			{Name: "pork", Band: band("3.99", "12.99"), Items: []string{
				"Pork Chops", "Pork Tenderloin", "Pork Loin", "Pork Shoulder",
				"Pork Belly", "Bacon", "Ham", "Pork Sausage", "Italian Sausage",
				"Bratwurst", "Kielbasa", "Andouille Sausage", "Ground Pork",
			}},
			{Name: "seafood", Band: band("8.99", "24.99"), Items: []string{
				"Atlantic Salmon", "Pacific Salmon", "Wild Salmon", "Farmed Salmon",
				"Cod Fillets", "Haddock Fillets", "Tilapia Fillets", "Mahi Mahi",
				"Tuna Steaks", "Swordfish", "Halibut", "Sea Bass", "Red Snapper",
				"Large Shrimp", "Medium Shrimp", "Small Shrimp", "Scallops", "Mussels",
			}},
		},
		BarcodePrefixes: []string{"20", "21", "22", "23", "24", "25", "26", "27", "28", "29"},
		Brands:          []string{"Tyson", "Perdue", "Butterball", "Smithfield", "Johnsonville", "Oscar Mayer", "Hillshire Farm", "Boar's Head", "Fresh Market"},
		describe:        "Fresh %s, USDA inspected",
	},
	{
		Category: CategoryBakery,
		Subcategories: []Subcategory{
			{Name: "bread", Band: band("1.99", "4.99"), Items: []string{
				"Whole Wheat Bread", "White Bread", "Multigrain Bread", "Sourdough Bread",
				"Rye Bread", "Pumpernickel Bread", "Italian Bread", "French Bread",
				"Brioche Bread", "Challah Bread", "Pita Bread", "Naan Bread",
				"Tortillas", "Flatbread", "Bagels", "English Muffins", "Hamburger Buns",
				"Hot Dog Buns", "Dinner Rolls", "Croissants", "Danish Pastries",
			}},
			{Name: "desserts", Band: band("2.99", "8.99"), Items: []string{
				"Chocolate Chip Cookies", "Sugar Cookies", "Oatmeal Cookies", "Peanut Butter Cookies",
				"Brownies", "Cupcakes", "Muffins", "Donuts", "Cakes", "Pies",
				"Cheesecake", "Tiramisu", "Cannoli", "Eclairs", "Macarons",
			}},
		},
		BarcodePrefixes: []string{"07", "08", "09", "10", "11", "12", "13", "14", "15", "16"},
		Brands:          []string{"Sara Lee", "Thomas'", "King's Hawaiian", "Pepperidge Farm", "La Brea", "Bakery Fresh", "Bakery Select", "Wonder Bread"},
		describe:        "Fresh baked %s, made daily",
	},
	{
		Category: CategoryPantry,
		Subcategories: []Subcategory{
			{Name: "canned_goods", Band: band("0.99", "3.99"), Items: []string{
				"Canned Tomatoes", "Canned Beans", "Canned Corn", "Canned Peas",
				"Canned Carrots", "Canned Green Beans", "Canned Mushrooms", "Canned Tuna",
				"Canned Salmon", "Canned Chicken", "Canned Soup", "Canned Vegetables",
			}},
			{Name: "dry_goods", Band: band("1.99", "6.99"), Items: []string{
				"White Rice", "Brown Rice", "Basmati Rice", "Jasmine Rice",
				"Quinoa", "Couscous", "Pasta", "Spaghetti", "Penne", "Rigatoni",
				"Lentils", "Chickpeas", "Black Beans", "Kidney Beans", "Pinto Beans",
			}},
			{Name: "condiments", Band: band("1.99", "5.99"), Items: []string{
				"Ketchup", "Mustard", "Mayonnaise", "Hot Sauce", "Soy Sauce",
				"Worcestershire Sauce", "Vinegar", "Olive Oil", "Vegetable Oil",
				"Honey", "Maple Syrup", "Jam", "Jelly", "Peanut Butter",
			}},
		},
		BarcodePrefixes: []string{"30", "31", "32", "33", "34", "35", "36", "37", "38", "39"},
		Brands:          []string{"Great Value", "Kraft", "Heinz", "Hunt's", "Del Monte", "Campbell's", "Progresso", "Bush's", "Goya", "Uncle Ben's"},
		describe:        "High quality %s, long shelf life",
	},
}

// emojiKeyword pairs a name fragment with the icon shown for it. Order matters: first hit wins.
type emojiKeyword struct {
	keyword string
	emoji   string
}

var emojiKeywords = []emojiKeyword{
	{"Apple", "🍎"}, {"Banana", "🍌"}, {"Orange", "🍊"}, {"Grape", "🍇"},
	{"Tomato", "🍅"}, {"Carrot", "🥕"}, {"Lettuce", "🥬"}, {"Cucumber", "🥒"},
	{"Potato", "🥔"}, {"Onion", "🧅"}, {"Bell Pepper", "🫑"}, {"Broccoli", "🥦"},
	{"Spinach", "🥬"}, {"Cilantro", "🌿"}, {"Parsley", "🌿"}, {"Basil", "🌿"},
	{"Milk", "🥛"}, {"Cheese", "🧀"}, {"Butter", "🧈"}, {"Egg", "🥚"},
	{"Chicken", "🍗"}, {"Beef", "🥩"}, {"Pork", "🥓"}, {"Salmon", "🐟"},
	{"Shrimp", "🦐"}, {"Bread", "🍞"}, {"Muffin", "🧁"}, {"Cookie", "🍪"},
	{"Rice", "🍚"}, {"Pasta", "🍝"}, {"Bean", "🫘"}, {"Soup", "🥣"},
}

const (
	defaultEmoji     = "🛒"
	placeholderImage = "https://via.placeholder.com/60x60/F8F9FA/333?text="
)

// ImageURL builds the placeholder image reference for an item name.
func ImageURL(name string) string {
	lower := strings.ToLower(name)
	for _, k := range emojiKeywords {
		if strings.Contains(lower, strings.ToLower(k.keyword)) {
			return placeholderImage + k.emoji
		}
	}
	return placeholderImage + defaultEmoji
}
