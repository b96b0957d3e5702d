package projection

// Students holds the enrolment of one year by channel.
type Students struct {
	Flagship       int `json:"flagship"`
	Franchise      int `json:"franchise"`
	Adoption       int `json:"adoption"`
	Total          int `json:"total"`
	FranchiseCount int `json:"franchiseCount"`
}

// Pricing holds the escalated (or overridden) prices of one year.
type Pricing struct {
	TuitionMonthly     float64 `json:"tuitionMonthly"`
	AdoptionFeeMonthly float64 `json:"adoptionFeeMonthly"`
	KitCostAnnual      float64 `json:"kitCostAnnual"`
}

// Revenue is broken into named streams. Total is always Sum().
type Revenue struct {
	FlagshipTuition    float64 `json:"flagshipTuition"`
	FranchiseRoyalty   float64 `json:"franchiseRoyalty"`
	FranchiseMarketing float64 `json:"franchiseMarketing"`
	FranchiseFees      float64 `json:"franchiseFees"`
	AdoptionFees       float64 `json:"adoptionFees"`
	KitSales           float64 `json:"kitSales"`
	Total              float64 `json:"total"`
}

// Sum adds the named streams in declaration order.
func (r Revenue) Sum() float64 {
	return r.FlagshipTuition +
		r.FranchiseRoyalty +
		r.FranchiseMarketing +
		r.FranchiseFees +
		r.AdoptionFees +
		r.KitSales
}

// Costs is broken into named operating categories. Total is always Sum().
type Costs struct {
	TechnologyOpex        float64 `json:"technologyOpex"`
	Marketing             float64 `json:"marketing"`
	CorporateStaff        float64 `json:"corporateStaff"`
	FlagshipStaff         float64 `json:"flagshipStaff"`
	FranchiseSupportStaff float64 `json:"franchiseSupportStaff"`
	AdoptionSupportStaff  float64 `json:"adoptionSupportStaff"`
	Facilities            float64 `json:"facilities"`
	Legal                 float64 `json:"legal"`
	Insurance             float64 `json:"insurance"`
	Travel                float64 `json:"travel"`
	WorkingCapital        float64 `json:"workingCapital"`
	Contingency           float64 `json:"contingency"`
	TeacherTraining       float64 `json:"teacherTraining"`
	QualityAssurance      float64 `json:"qualityAssurance"`
	RegulatoryCompliance  float64 `json:"regulatoryCompliance"`
	DataManagement        float64 `json:"dataManagement"`
	ParentEngagement      float64 `json:"parentEngagement"`
	BadDebt               float64 `json:"badDebt"`
	PaymentProcessing     float64 `json:"paymentProcessing"`
	PlatformRD            float64 `json:"platformRD"`
	ContentDevelopment    float64 `json:"contentDevelopment"`
	ArchitectPayments     float64 `json:"architectPayments"`
	Total                 float64 `json:"total"`
}

// Sum adds the named categories in declaration order.
func (c Costs) Sum() float64 {
	return c.TechnologyOpex +
		c.Marketing +
		c.CorporateStaff +
		c.FlagshipStaff +
		c.FranchiseSupportStaff +
		c.AdoptionSupportStaff +
		c.Facilities +
		c.Legal +
		c.Insurance +
		c.Travel +
		c.WorkingCapital +
		c.Contingency +
		c.TeacherTraining +
		c.QualityAssurance +
		c.RegulatoryCompliance +
		c.DataManagement +
		c.ParentEngagement +
		c.BadDebt +
		c.PaymentProcessing +
		c.PlatformRD +
		c.ContentDevelopment +
		c.ArchitectPayments
}

// Categories returns the named cost categories in declaration order, for
// tabular output.
func (c Costs) Categories() []Category {
	return []Category{
		{"Technology Opex", c.TechnologyOpex},
		{"Marketing", c.Marketing},
		{"Corporate Staff", c.CorporateStaff},
		{"Flagship Staff", c.FlagshipStaff},
		{"Franchise Support Staff", c.FranchiseSupportStaff},
		{"Adoption Support Staff", c.AdoptionSupportStaff},
		{"Facilities", c.Facilities},
		{"Legal", c.Legal},
		{"Insurance", c.Insurance},
		{"Travel", c.Travel},
		{"Working Capital", c.WorkingCapital},
		{"Contingency", c.Contingency},
		{"Teacher Training", c.TeacherTraining},
		{"Quality Assurance", c.QualityAssurance},
		{"Regulatory Compliance", c.RegulatoryCompliance},
		{"Data Management", c.DataManagement},
		{"Parent Engagement", c.ParentEngagement},
		{"Bad Debt", c.BadDebt},
		{"Payment Processing", c.PaymentProcessing},
		{"Platform R&D", c.PlatformRD},
		{"Content Development", c.ContentDevelopment},
		{"Architect Payments", c.ArchitectPayments},
	}
}

// Categories returns the named revenue streams in declaration order.
func (r Revenue) Categories() []Category {
	return []Category{
		{"Flagship Tuition", r.FlagshipTuition},
		{"Franchise Royalty", r.FranchiseRoyalty},
		{"Franchise Marketing", r.FranchiseMarketing},
		{"Franchise Fees", r.FranchiseFees},
		{"Adoption Fees", r.AdoptionFees},
		{"Kit Sales", r.KitSales},
	}
}

// Category is a named amount.
type Category struct {
	Name   string
	Amount float64
}

// YearRecord is the projection of a single year; year 0 is pre-launch.
type YearRecord struct {
	Year         int      `json:"year"`
	Students     Students `json:"students"`
	Pricing      Pricing  `json:"pricing"`
	Revenue      Revenue  `json:"revenue"`
	Costs        Costs    `json:"costs"`
	EBITDA       float64  `json:"ebitda"`
	EBITDAMargin float64  `json:"ebitdaMargin"`
	Capex        float64  `json:"capex"`
	Taxes        float64  `json:"taxes"`
	NetIncome    float64  `json:"netIncome"`
	FreeCashFlow float64  `json:"freeCashFlow"`
}

// Series is a projection indexed by year, starting at year 0.
type Series []YearRecord

// FreeCashFlows returns the free cash flow of every year in order.
func (s Series) FreeCashFlows() []float64 {
	flows := make([]float64, len(s))
	for i, record := range s {
		flows[i] = record.FreeCashFlow
	}
	return flows
}

// Horizon is the last projected year.
func (s Series) Horizon() int {
	return len(s) - 1
}
