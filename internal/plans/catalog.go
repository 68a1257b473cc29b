package plans

// Plan is one entry of the static lookup table: eligibility bounds plus the
// descriptive fields used to enrich a scored recommendation.
type Plan struct {
	Name               string
	Type               string
	Features           string
	MinEntryAge        int
	MaxEntryAge        int
	SumAssuredRange    string
	PremiumRange       string
	MedicalRequired    string
	ReturnOfPremium    string
	PolicyTermRange    string
	LifeCoverTillAge   string
	PayoutType         string
	RidersAvailable    string
	IncomeCriteria     string
	PaymentOption      string
	DeathBenefitOption string
}

// catalog mirrors the plan lookup table the scoring model was trained
// against. Names must match the model's output vocabulary exactly.
var catalog = []Plan{
	{
		Name:               "iProtect Smart",
		Type:               "Term Life",
		Features:           "Comprehensive term cover with terminal illness benefit and premium waiver on disability.",
		MinEntryAge:        18,
		MaxEntryAge:        65,
		SumAssuredRange:    "2500000 - 100000000",
		PremiumRange:       "6000 - 48000",
		MedicalRequired:    "Yes",
		ReturnOfPremium:    "No",
		PolicyTermRange:    "5 - 40",
		LifeCoverTillAge:   "85",
		PayoutType:         "Lump Sum / Installments",
		RidersAvailable:    "Accidental Death, Critical Illness",
		IncomeCriteria:     "Annual income above 300000",
		PaymentOption:      "Regular / Limited",
		DeathBenefitOption: "Level",
	},
	{
		Name:               "Smart Shield Plus",
		Type:               "Term Life",
		Features:           "Affordable pure protection with optional accidental death and disability cover.",
		MinEntryAge:        18,
		MaxEntryAge:        60,
		SumAssuredRange:    "2000000 - 50000000",
		PremiumRange:       "5000 - 36000",
		MedicalRequired:    "Yes",
		ReturnOfPremium:    "No",
		PolicyTermRange:    "10 - 35",
		LifeCoverTillAge:   "80",
		PayoutType:         "Lump Sum",
		RidersAvailable:    "Accidental Death, Waiver of Premium",
		IncomeCriteria:     "Annual income above 250000",
		PaymentOption:      "Regular",
		DeathBenefitOption: "Level / Increasing",
	},
	{
		Name:               "Health Secure Gold",
		Type:               "Health",
		Features:           "Family floater health cover with cashless hospitalization and annual checkups.",
		MinEntryAge:        18,
		MaxEntryAge:        70,
		SumAssuredRange:    "300000 - 10000000",
		PremiumRange:       "8000 - 60000",
		MedicalRequired:    "Above age 45",
		ReturnOfPremium:    "No",
		PolicyTermRange:    "1 - 3",
		LifeCoverTillAge:   "Lifetime renewal",
		PayoutType:         "Reimbursement / Cashless",
		RidersAvailable:    "Critical Illness, Hospital Cash",
		IncomeCriteria:     "None",
		PaymentOption:      "Regular",
		DeathBenefitOption: "N/A",
	},
	{
		Name:               "Young Star Plan",
		Type:               "Child / Endowment",
		Features:           "Savings-linked protection for a child's education with guaranteed maturity benefit.",
		MinEntryAge:        0,
		MaxEntryAge:        17,
		SumAssuredRange:    "100000 - 5000000",
		PremiumRange:       "12000 - 100000",
		MedicalRequired:    "No",
		ReturnOfPremium:    "Yes",
		PolicyTermRange:    "10 - 25",
		LifeCoverTillAge:   "25",
		PayoutType:         "Installments",
		RidersAvailable:    "Premium Waiver",
		IncomeCriteria:     "Proposer income above 200000",
		PaymentOption:      "Limited",
		DeathBenefitOption: "Increasing",
	},
	{
		Name:               "Retire Assure Pension",
		Type:               "Pension / Annuity",
		Features:           "Deferred annuity with guaranteed lifetime income and optional spouse cover.",
		MinEntryAge:        40,
		MaxEntryAge:        75,
		SumAssuredRange:    "500000 - 20000000",
		PremiumRange:       "25000 - 200000",
		MedicalRequired:    "No",
		ReturnOfPremium:    "On death",
		PolicyTermRange:    "5 - 30",
		LifeCoverTillAge:   "99",
		PayoutType:         "Installments",
		RidersAvailable:    "None",
		IncomeCriteria:     "None",
		PaymentOption:      "Single / Limited",
		DeathBenefitOption: "Return of purchase price",
	},
	{
		Name:               "Motor Protect Comprehensive",
		Type:               "Motor",
		Features:           "Own-damage plus third-party cover with zero-depreciation add-on.",
		MinEntryAge:        18,
		MaxEntryAge:        99,
		SumAssuredRange:    "Vehicle IDV",
		PremiumRange:       "3000 - 50000",
		MedicalRequired:    "No",
		ReturnOfPremium:    "No",
		PolicyTermRange:    "1 - 3",
		LifeCoverTillAge:   "N/A",
		PayoutType:         "Reimbursement / Cashless",
		RidersAvailable:    "Zero Depreciation, Roadside Assistance",
		IncomeCriteria:     "None",
		PaymentOption:      "Single",
		DeathBenefitOption: "N/A",
	},
	{
		Name:               "Travel Safe International",
		Type:               "Travel",
		Features:           "Trip-duration cover for medical emergencies, baggage loss and trip cancellation.",
		MinEntryAge:        1,
		MaxEntryAge:        70,
		SumAssuredRange:    "100000 - 5000000",
		PremiumRange:       "500 - 10000",
		MedicalRequired:    "No",
		ReturnOfPremium:    "No",
		PolicyTermRange:    "Per trip",
		LifeCoverTillAge:   "N/A",
		PayoutType:         "Reimbursement",
		RidersAvailable:    "Adventure Sports",
		IncomeCriteria:     "None",
		PaymentOption:      "Single",
		DeathBenefitOption: "N/A",
	},
	{
		Name:               "Home Shield Secure",
		Type:               "Home",
		Features:           "Structure and contents cover against fire, theft and natural calamities.",
		MinEntryAge:        18,
		MaxEntryAge:        99,
		SumAssuredRange:    "500000 - 50000000",
		PremiumRange:       "2000 - 40000",
		MedicalRequired:    "No",
		ReturnOfPremium:    "No",
		PolicyTermRange:    "1 - 10",
		LifeCoverTillAge:   "N/A",
		PayoutType:         "Reimbursement",
		RidersAvailable:    "Rent for Alternative Accommodation",
		IncomeCriteria:     "None",
		PaymentOption:      "Single",
		DeathBenefitOption: "N/A",
	},
}

var catalogByName = func() map[string]Plan {
	m := make(map[string]Plan, len(catalog))
	for _, p := range catalog {
		m[p.Name] = p
	}
	return m
}()
