package projection

import "math"

// Fixed flagship ramp before the scenario target applies.
const (
	flagshipYear1Students = 300
	flagshipYear2Students = 750
)

// Franchise cohorts open from this year on; adoption interpolates over
// adoptionRampYears after the year-2 pilot.
const (
	franchiseLaunchYear = 3
	adoptionPilotYear   = 2
	adoptionRampYears   = 8
)

// Share of the gap between starting and target students closed by a
// franchise cohort at ages 1 and 2.
var cohortRamp = [...]float64{0, 0.33, 0.67}

func (e *Engine) retention() float64 {
	return 1 - e.params.ChurnRate
}

func (e *Engine) flagshipStudents(year int) int {
	if o, ok := e.params.Override(year); ok && o.FlagshipStudents != nil {
		return *o.FlagshipStudents
	}
	switch {
	case year <= 0:
		return 0
	case year == 1:
		return flagshipYear1Students
	case year == 2:
		return flagshipYear2Students
	}

	target := float64(e.params.FlagshipStudents)
	// The nominal target stands in for the prior year's enrolment.
	prior := target
	churn := e.params.ChurnRate
	return int(math.Round(prior*(1-churn) + target*churn))
}

func (e *Engine) franchiseCount(year int) int {
	if o, ok := e.params.Override(year); ok && o.FranchiseCount != nil {
		return *o.FranchiseCount
	}
	if year < franchiseLaunchYear {
		return 0
	}
	return min((year-franchiseLaunchYear+1)*e.params.FranchiseGrowthRate, e.params.FranchiseCount)
}

func (e *Engine) studentsPerFranchise(year int) int {
	if o, ok := e.params.Override(year); ok && o.StudentsPerFranchise != nil {
		return *o.StudentsPerFranchise
	}
	return e.params.StudentsPerFranchise
}

// cohortStudents is the per-franchise enrolment of a cohort of the given age.
func (e *Engine) cohortStudents(age int, target float64) float64 {
	start := float64(e.params.FranchiseStartingStudents)
	if age <= 0 {
		return start
	}
	if age < len(cohortRamp) {
		return start + (target-start)*cohortRamp[age]
	}
	return target
}

// franchiseStudents ages every yearly cohort of newly opened franchises up to
// year. Only franchises still open in year are counted, oldest cohorts first.
func (e *Engine) franchiseStudents(year int) int {
	if o, ok := e.params.Override(year); ok && o.FranchiseStudents != nil {
		return *o.FranchiseStudents
	}
	if year < franchiseLaunchYear {
		return 0
	}

	target := float64(e.studentsPerFranchise(year))
	open := e.franchiseCount(year)
	total := 0.0
	for cohortYear := franchiseLaunchYear; cohortYear <= year && open > 0; cohortYear++ {
		opened := e.franchiseCount(cohortYear) - e.franchiseCount(cohortYear-1)
		if opened <= 0 {
			continue
		}
		opened = min(opened, open)
		open -= opened
		total += float64(opened) * e.cohortStudents(year-cohortYear, target)
	}
	return int(math.Round(total * e.retention()))
}

func (e *Engine) adoptionStudents(year int) int {
	if o, ok := e.params.Override(year); ok && o.AdoptionStudents != nil {
		return *o.AdoptionStudents
	}
	switch {
	case year < adoptionPilotYear:
		return 0
	case year == adoptionPilotYear:
		return e.params.AdoptionPilotStudents
	}

	pilot := float64(e.params.AdoptionPilotStudents)
	target := float64(e.params.AdoptionStudents)
	progress := float64(year-adoptionPilotYear) / adoptionRampYears
	students := math.Min(pilot+(target-pilot)*progress, target)
	return int(math.Round(students * e.retention()))
}

func (e *Engine) students(year int) Students {
	s := Students{
		Flagship:       e.flagshipStudents(year),
		Franchise:      e.franchiseStudents(year),
		Adoption:       e.adoptionStudents(year),
		FranchiseCount: e.franchiseCount(year),
	}
	s.Total = s.Flagship + s.Franchise + s.Adoption
	return s
}
