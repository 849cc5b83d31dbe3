package models

// TaxRate is one selectable bracket rate
type TaxRate struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// TaxGroup is a named set of bracket rates
type TaxGroup struct {
	Name  string    `json:"name"`
	Taxes []TaxRate `json:"taxes"`
}

// TaxRateCatalog holds the rates the position editor offers
type TaxRateCatalog struct {
	Federal []TaxGroup `json:"federal"`
	State   []TaxGroup `json:"state"`
}

// TaxRates returns a fresh copy of the federal and state bracket catalog.
// Federal groups cover long and short term capital gains; the state groups are
// none and Montana.
func TaxRates() TaxRateCatalog {
	return TaxRateCatalog{
		Federal: []TaxGroup{
			{
				Name: "Long Term Capital Gains",
				Taxes: []TaxRate{
					{0, "0% - Single ($0 - $40,000), Married ($0 - $80,800), HoH ($0 - $54,100)"},
					{0.15, "15% - Single ($40,001 - $445,850), Married ($80,801 - $501,600), HoH ($54,101 - $473,750)"},
					{0.2, "20% - Single ($445,851+), Married ($501,601+), HoH ($473,751+)"},
				},
			},
			{
				Name: "Short Term Capital Gains",
				Taxes: []TaxRate{
					{0.1, "10% - Single ($0 - $9,950), Married ($0 - $19,900), HoH ($0 - $14,200)"},
					{0.12, "12% - Single ($9,951 - $40,525), Married ($19,901 - $81,050), HoH ($14,201 - $54,200)"},
					{0.22, "22% - Single ($40,526 - $86,375), Married ($81,051 - $172,750), HoH ($54,201 - $86,350)"},
					{0.24, "24% - Single ($86,376 - $164,925), Married ($172,751 - $329,850), HoH ($86,351 - $164,900)"},
					{0.32, "32% - Single ($164,926 - $209,425), Married ($329,851 - $418,850), HoH ($164,901 - $209,400)"},
					{0.35, "35% - Single ($209,426 - $523,600), Married ($418,851 - $628,300), HoH ($209,401 - $523,600)"},
					{0.37, "37% - Single ($523,601+), Married ($628,301+), HoH ($523,601+)"},
				},
			},
		},
		State: []TaxGroup{
			{
				Name:  "No State Taxes",
				Taxes: []TaxRate{{0, "0%"}},
			},
			{
				Name: "Montana",
				Taxes: []TaxRate{
					{0.01, "1% - Tax Bracket: $0.00+"},
					{0.02, "2% - Tax Bracket: $3,100.00+"},
					{0.03, "3% - Tax Bracket: $5,400.00+"},
					{0.04, "4% - Tax Bracket: $8,200.00+"},
					{0.05, "5% - Tax Bracket: $11,100.00+"},
					{0.06, "6% - Tax Bracket: $14,300.00+"},
					{0.069, "6.9% - Tax Bracket: $18,400.00+"},
				},
			},
		},
	}
}
