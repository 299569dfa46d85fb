package core

// Currency is a display currency. Amounts are never converted between them.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

const DefaultCurrency = "EUR"

var Currencies = []Currency{
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
}

func IsSupportedCurrency(code string) bool {
	for _, c := range Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// DefaultAccounts returns the accounts a fresh ledger starts with.
func DefaultAccounts() []Account {
	return []Account{
		{ID: "default-checking", Name: "Main Checking", Type: Checking, Currency: DefaultCurrency, Color: "#6366F1", IsDefault: true},
		{ID: "default-cash", Name: "Cash / Wallet", Type: Cash, Currency: DefaultCurrency, Color: "#10B981"},
	}
}

func types(t ...TransactionType) []TransactionType { return t }

// DefaultCategories returns the built-in category set. The ID doubles as the
// reference stored on transactions.
func DefaultCategories() []Category {
	return []Category{
		{ID: "Salary", Name: "Salary", Icon: "Briefcase", Types: types(Income), SubCategories: []string{"Base Salary", "Bonus", "Overtime", "Commission"}},
		{ID: "Business", Name: "Business & Freelance", Icon: "Laptop", Types: types(Income), SubCategories: []string{"Freelance", "Consulting", "Sales", "Side Hustle"}},
		{ID: "Passive", Name: "Passive Income", Icon: "TrendingUp", Types: types(Income), SubCategories: []string{"Dividends", "Interest", "Rental Income", "Crypto"}},
		{ID: "GiftsInc", Name: "Gifts & Refunds", Icon: "Gift", Types: types(Income), SubCategories: []string{"Tax Refund", "Gift Received", "Sold Items"}},
		{ID: "Rollover", Name: "Rollover", Icon: "CircleDollarSign", Types: types(Income), SubCategories: []string{"Previous Month"}},
		{ID: "Housing", Name: "Housing", Icon: "Home", Types: types(FixedExpense, Expense), SubCategories: []string{"Rent", "Mortgage", "Property Tax", "Condo Fees", "Home Insurance"}},
		{ID: "Utilities", Name: "Utilities", Icon: "Zap", Types: types(FixedExpense, Expense), SubCategories: []string{"Electricity", "Water", "Heating", "Garbage", "Gas"}},
		{ID: "Digital", Name: "Digital Services", Icon: "Wifi", Types: types(FixedExpense), SubCategories: []string{"Internet", "Mobile Plan", "Cloud Storage", "Software Subscriptions", "VPN"}},
		{ID: "Insurance", Name: "Insurance", Icon: "Shield", Types: types(FixedExpense), SubCategories: []string{"Life", "Health", "Disability", "Legal"}},
		{ID: "Debt", Name: "Debt Repayment", Icon: "CreditCard", Types: types(FixedExpense, Expense), SubCategories: []string{"Credit Card", "Student Loan", "Personal Loan", "Car Loan"}},
		{ID: "Education", Name: "Education", Icon: "GraduationCap", Types: types(FixedExpense, Expense), SubCategories: []string{"Tuition", "Courses", "Books", "School Supplies"}},
		{ID: "Groceries", Name: "Groceries", Icon: "ShoppingCart", Types: types(Expense), SubCategories: []string{"Supermarket", "Market", "Bakery", "Butcher"}},
		{ID: "Dining", Name: "Dining Out", Icon: "Utensils", Types: types(Expense), SubCategories: []string{"Restaurants", "Fast Food", "Delivery", "Lunch"}},
		{ID: "Drinks", Name: "Coffee & Drinks", Icon: "Coffee", Types: types(Expense), SubCategories: []string{"Coffee Shop", "Bar", "Alcohol", "Clubs"}},
		{ID: "Transport", Name: "Transportation", Icon: "Car", Types: types(Expense, FixedExpense), SubCategories: []string{"Fuel", "Public Transit", "Taxi/Uber", "Parking", "Tolls", "Car Wash", "Maintenance", "Car Insurance"}},
		{ID: "Shopping", Name: "Shopping", Icon: "Shirt", Types: types(Expense), SubCategories: []string{"Clothing", "Shoes", "Electronics", "Furniture", "Home & Garden"}},
		{ID: "Health", Name: "Health & Wellness", Icon: "Heart", Types: types(Expense, FixedExpense), SubCategories: []string{"Pharmacy", "Doctor", "Dentist", "Gym", "Sports", "Therapy", "Vitamins"}},
		{ID: "Personal", Name: "Personal Care", Icon: "Smile", Types: types(Expense), SubCategories: []string{"Hairdresser", "Cosmetics", "Spa", "Barber", "Hygiene"}},
		{ID: "Entertainment", Name: "Entertainment", Icon: "Film", Types: types(Expense, FixedExpense), SubCategories: []string{"Streaming (Netflix/Spotify)", "Movies", "Games", "Concerts", "Hobbies", "Books"}},
		{ID: "Travel", Name: "Travel", Icon: "Plane", Types: types(Expense, Saving), SubCategories: []string{"Flights", "Hotels", "Airbnb", "Activities", "Souvenirs"}},
		{ID: "Family", Name: "Family & Kids", Icon: "Baby", Types: types(Expense, FixedExpense), SubCategories: []string{"Childcare", "Toys", "Baby Supplies", "School Activities", "Allowance"}},
		{ID: "Pets", Name: "Pets", Icon: "PawPrint", Types: types(Expense), SubCategories: []string{"Vet", "Pet Food", "Toys", "Grooming"}},
		{ID: "Gifts", Name: "Gifts & Charity", Icon: "Gift", Types: types(Expense, FixedExpense), SubCategories: []string{"Birthday", "Holiday", "Wedding", "Charity", "Donations"}},
		{ID: "Maintenance", Name: "Home Maintenance", Icon: "Hammer", Types: types(Expense, FixedExpense), SubCategories: []string{"Repairs", "Renovation", "Cleaning", "Gardening", "Tools"}},
		{ID: "Savings", Name: "General Savings", Icon: "PiggyBank", Types: types(Saving), SubCategories: []string{"Emergency Fund", "Rainy Day", "Opportunity Fund"}},
		{ID: "Investments", Name: "Investments", Icon: "TrendingUp", Types: types(Saving), SubCategories: []string{"Stocks", "ETFs", "Crypto", "Real Estate", "Bonds", "Retirement"}},
		{ID: "GoalSavings", Name: "Specific Goals", Icon: "TargetIcon", Types: types(Saving), SubCategories: []string{"Vacation Fund", "Car Fund", "Home Downpayment", "Gadgets"}},
		{ID: OtherCategory, Name: OtherCategory, Icon: "MoreHorizontal", Types: types(Income, Expense, FixedExpense, Saving)},
	}
}
