package generate

// Seed data for synthetic record generation. The weighted distributions
// are fixed policy constants; do not reorder entries, downstream
// determinism tests depend on the order.

// Categories is the fixed product category list
var Categories = []string{
	"Electronics", "Clothing", "Books", "Home & Garden",
	"Sports", "Beauty", "Toys", "Food",
	"Health", "Tools",
}

// PaymentMethods is the fixed payment method list
var PaymentMethods = []string{
	"Credit Card", "Bank Slip", "Instant Transfer", "PayPal",
	"Apple Pay", "Google Pay", "Debit Card",
}

// States is the fixed state-code enumeration sales are drawn from
var States = []string{
	"SP", "RJ", "MG", "RS", "PR", "SC", "BA", "PE", "CE", "GO",
	"DF", "PA", "AM", "MA", "ES", "PB", "RN", "MT", "MS", "AL",
}

// MacroRegionByState maps every state code to one of five macro-regions
var MacroRegionByState = map[string]string{
	"AC": "North", "AM": "North", "AP": "North", "PA": "North",
	"RO": "North", "RR": "North", "TO": "North",
	"AL": "Northeast", "BA": "Northeast", "CE": "Northeast",
	"MA": "Northeast", "PB": "Northeast", "PE": "Northeast",
	"PI": "Northeast", "RN": "Northeast", "SE": "Northeast",
	"DF": "Central-West", "GO": "Central-West", "MS": "Central-West", "MT": "Central-West",
	"ES": "Southeast", "MG": "Southeast", "RJ": "Southeast", "SP": "Southeast",
	"PR": "South", "RS": "South", "SC": "South",
}

// OrderStatuses with their fixed weighted distribution:
// delivered 70%, processing 10%, shipped 15%, cancelled 5%
var OrderStatuses = []Weighted{
	{Value: "delivered", Weight: 0.70},
	{Value: "processing", Weight: 0.10},
	{Value: "shipped", Weight: 0.15},
	{Value: "cancelled", Weight: 0.05},
}

// CustomerSegments with their fixed 3-tier weighted distribution
var CustomerSegments = []Weighted{
	{Value: "Regular", Weight: 0.70},
	{Value: "Premium", Weight: 0.20},
	{Value: "VIP", Weight: 0.10},
}

// FirstNames feeds the customer generator
var FirstNames = []string{
	"John", "Mary", "Peter", "Anna", "Carl", "Fern", "Joseph",
	"Marian", "Paul", "Julia", "Lucas", "Amanda", "Richard",
	"Patricia", "Michael", "Camila", "Fernando", "Louise", "Gabriel",
}

// LastNames feeds the customer generator
var LastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Rodrigues", "Ferreira",
	"Alves", "Pereira", "Lima", "Gomes", "Costa", "Ribeiro", "Martins",
}

// Weighted pairs a value with its selection probability
type Weighted struct {
	Value  string
	Weight float64
}
