package projection

import (
	"math"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/mathutil"
)

// Floors and unit rates of the operating cost categories. Floors are annual
// amounts at year-1 prices; unit rates are annual amounts per unit.
const (
	corporateStaffFloor      = 1800000
	corporateStaffPerStudent = 150

	flagshipStaffFloor      = 1200000
	flagshipStaffPerStudent = 8500

	franchiseSupportFloor        = 400000
	franchiseSupportPerFranchise = 90000

	adoptionSupportFloor      = 300000
	adoptionSupportPerStudent = 12

	legalFloor = 250000
	legalRate  = 0.01

	insuranceFloor = 120000
	insuranceRate  = 0.005

	travelFloor        = 100000
	travelPerFranchise = 15000

	workingCapitalRate = 0.02
	contingencyRate    = 0.03

	teacherTrainingFloor      = 150000
	teacherTrainingPerStudent = 20

	qualityAssuranceFloor      = 80000
	qualityAssurancePerStudent = 10

	regulatoryComplianceFloor = 60000
	regulatoryComplianceRate  = 0.004

	dataManagementFloor      = 50000
	dataManagementPerStudent = 6

	parentEngagementPerStudent = 25

	badDebtRate           = 0.015
	paymentProcessingRate = 0.025

	platformRDFloor = 600000
	platformRDRate  = 0.03

	contentDevelopmentFloor = 400000
	contentDevelopmentRate  = 0.02

	architectPaymentsRate = 0.01
)

// floorOrRate is the greater of a fixed floor and a per-unit amount.
func floorOrRate(floor, units, perUnit float64) float64 {
	return math.Max(floor, units*perUnit)
}

// channelFloorOrRate applies floorOrRate only while the channel has units.
func channelFloorOrRate(floor, units, perUnit float64) float64 {
	if units <= 0 {
		return 0
	}
	return floorOrRate(floor, units, perUnit)
}

// costInflation compounds from year 1; year 0 is not inflated.
func costInflation(year int) float64 {
	return mathutil.Compound(constants.CostInflationRate, year-1)
}

func (e *Engine) costs(year int, students Students, revenue float64) Costs {
	p := e.params
	inflation := costInflation(year)
	total := float64(students.Total)
	franchises := float64(students.FranchiseCount)
	licensed := float64(students.Franchise + students.Adoption)

	facilities := 0.0
	if year >= 1 {
		facilities = e.capex.BaseFacilityCost * mathutil.Compound(e.capex.FacilityInflation, year-1)
	}

	c := Costs{
		TechnologyOpex:        revenue * p.TechnologyOpexRate,
		Marketing:             revenue * p.MarketingRate,
		CorporateStaff:        floorOrRate(corporateStaffFloor, total, corporateStaffPerStudent) * inflation,
		FlagshipStaff:         channelFloorOrRate(flagshipStaffFloor, float64(students.Flagship), flagshipStaffPerStudent) * inflation,
		FranchiseSupportStaff: channelFloorOrRate(franchiseSupportFloor, franchises, franchiseSupportPerFranchise) * inflation,
		AdoptionSupportStaff:  channelFloorOrRate(adoptionSupportFloor, float64(students.Adoption), adoptionSupportPerStudent) * inflation,
		Facilities:            facilities,
		Legal:                 floorOrRate(legalFloor, revenue, legalRate) * inflation,
		Insurance:             floorOrRate(insuranceFloor, revenue, insuranceRate) * inflation,
		Travel:                floorOrRate(travelFloor, franchises, travelPerFranchise) * inflation,
		WorkingCapital:        revenue * workingCapitalRate,
		Contingency:           revenue * contingencyRate,
		TeacherTraining:       channelFloorOrRate(teacherTrainingFloor, licensed, teacherTrainingPerStudent) * inflation,
		QualityAssurance:      floorOrRate(qualityAssuranceFloor, total, qualityAssurancePerStudent) * inflation,
		RegulatoryCompliance:  floorOrRate(regulatoryComplianceFloor, revenue, regulatoryComplianceRate) * inflation,
		DataManagement:        floorOrRate(dataManagementFloor, total, dataManagementPerStudent) * inflation,
		ParentEngagement:      total * parentEngagementPerStudent * inflation,
		BadDebt:               revenue * badDebtRate,
		PaymentProcessing:     revenue * paymentProcessingRate,
		PlatformRD:            floorOrRate(platformRDFloor, revenue, platformRDRate) * inflation,
		ContentDevelopment:    floorOrRate(contentDevelopmentFloor, revenue, contentDevelopmentRate) * inflation,
		ArchitectPayments:     revenue * architectPaymentsRate,
	}
	c.Total = c.Sum()
	return c
}
