package bill

// Category represents a bill's procedural class. The category restricts
// which transitions and constitutional deadlines apply.
type Category string

// Canonical bill categories.
const (
	CategoryGovernment     Category = "GOVERNMENT"
	CategoryPrivate        Category = "PRIVATE"
	CategoryMoney          Category = "MONEY"
	CategoryConstitutional Category = "CONSTITUTIONAL_AMENDMENT"
	CategoryOrdinance      Category = "ORDINANCE_REPLACEMENT"
)

var categoryLabels = map[Category]string{
	CategoryGovernment:     "Government Bill",
	CategoryPrivate:        "Private Member Bill",
	CategoryMoney:          "Money Bill",
	CategoryConstitutional: "Constitutional Amendment",
	CategoryOrdinance:      "Ordinance Replacement",
}

// Label returns the display label for the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsValid returns true if the category is a recognized canonical category.
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// IsMoney returns true for money bills, which carry special constitutional
// handling: the President cannot return them and the National Assembly must
// act within 15 days.
func (c Category) IsMoney() bool {
	return c == CategoryMoney
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// AllCategories returns every canonical category.
func AllCategories() []Category {
	return []Category{
		CategoryGovernment,
		CategoryPrivate,
		CategoryMoney,
		CategoryConstitutional,
		CategoryOrdinance,
	}
}

// House represents a chamber of the federal parliament.
type House string

// The two houses.
const (
	HouseOfRepresentatives House = "HOR"
	NationalAssembly       House = "NA"
)

var houseLabels = map[House]string{
	HouseOfRepresentatives: "House of Representatives",
	NationalAssembly:       "National Assembly",
}

// Label returns the display label for the house.
func (h House) Label() string {
	if l, ok := houseLabels[h]; ok {
		return l
	}
	return string(h)
}

// IsValid returns true if the house is one of the two chambers.
func (h House) IsValid() bool {
	_, ok := houseLabels[h]
	return ok
}

// String returns the string representation of the house.
func (h House) String() string {
	return string(h)
}
