package main

// DefaultAgeBracket is used when the age field cannot be parsed
const DefaultAgeBracket = AgeMidCareer

// ClassifyAge maps the raw age field onto an age bracket.
// Below YoungBelow is Young, up to and including MidCareerUpTo is MidCareer,
// anything older is PreRetirement.
func ClassifyAge(age FormValue, cfg PlanningConfig) AgeBracket {
	years, ok := age.Int()
	if !ok || years < 0 {
		return DefaultAgeBracket
	}
	switch {
	case years < cfg.YoungBelow:
		return AgeYoung
	case years <= cfg.MidCareerUpTo:
		return AgeMidCareer
	default:
		return AgePreRetirement
	}
}

// BuildPlanningDirective derives the request directives for a profile
func BuildPlanningDirective(profile *FinancialProfile, cfg PlanningConfig) PlanningDirective {
	return PlanningDirective{
		AgeBracket: ClassifyAge(profile.Age, cfg),
		Goal:       ProjectGoal(profile.Goals, profile.GoalTimeframe, cfg.InflationRate),
	}
}
