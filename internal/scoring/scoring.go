// Package scoring is the pure eligibility and credit-scoring calculator.
// Scores are synthetic (300-900, CIBIL-style), not real bureau scores; the
// variance term simulates bureau noise and makes Score non-repeatable unless
// a fixed Source is injected.
package scoring

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	MinScore         = 300
	MaxScore         = 900
	MinEligibleScore = 550

	MinAge = 21
	MaxAge = 65

	MinCreditLimit  = 25_000
	MaxCreditLimit  = 500_000
	creditLimitStep = 5_000

	baseScore = 550
)

type Employment string

const (
	EmploymentSalaried     Employment = "SALARIED"
	EmploymentSelfEmployed Employment = "SELF_EMPLOYED"
)

// Applicant carries the attributes the calculator looks at.
type Applicant struct {
	DateOfBirth  time.Time
	AnnualIncome float64
	Employment   Employment
}

// Verdict is a structured pass/fail result; checks never return errors.
type Verdict struct {
	Eligible bool
	Reason   string // stable machine-readable code, empty when eligible
	Message  string
}

const (
	ReasonAgeNotEligible = "AGE_NOT_ELIGIBLE"
	ReasonLowCreditScore = "LOW_CREDIT_SCORE"
)

// Source supplies the random variance term. Inject a fixed implementation in
// tests to pin scores.
type Source interface {
	IntN(n int) int
}

type mathSource struct{}

func (mathSource) IntN(n int) int { return rand.IntN(n) }

type Calculator struct{ src Source }

// NewCalculator builds a Calculator; a nil src falls back to math/rand.
func NewCalculator(src Source) *Calculator {
	if src == nil {
		src = mathSource{}
	}
	return &Calculator{src: src}
}

// Age is the calendar age at asOf: naive year difference minus one when the
// birthday has not been reached yet this year.
func Age(dob, asOf time.Time) int {
	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() ||
		(asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	return years
}

// CheckAge gates applicants to the 21-65 band at asOf.
func CheckAge(dob, asOf time.Time) Verdict {
	age := Age(dob, asOf)
	if age < MinAge {
		return Verdict{Reason: ReasonAgeNotEligible, Message: "applicant must be at least 21 years old"}
	}
	if age > MaxAge {
		return Verdict{Reason: ReasonAgeNotEligible, Message: "applicant must be 65 years or younger"}
	}
	return Verdict{Eligible: true, Message: "age eligibility check passed"}
}

// Score derives the simulated credit score: base 550, plus age, income and
// employment band bonuses, plus a uniform variance in [-50, +50], clamped to
// [300, 900].
func (c *Calculator) Score(a Applicant, asOf time.Time) int {
	score := baseScore

	switch age := Age(a.DateOfBirth, asOf); {
	case age < 25:
		score += 20 // young, little credit history
	case age <= 35:
		score += 50 // prime earning age
	case age <= 50:
		score += 70 // stable income age
	case age <= 60:
		score += 40 // pre-retirement
	default:
		score += 30
	}

	switch income := a.AnnualIncome; {
	case income >= 1_500_000:
		score += 100
	case income >= 1_000_000:
		score += 80
	case income >= 500_000:
		score += 60
	case income >= 300_000:
		score += 40
	default:
		score += 20
	}

	switch a.Employment {
	case EmploymentSalaried:
		score += 50
	case EmploymentSelfEmployed:
		score += 30
	}

	score += c.src.IntN(101) - 50

	return clamp(score, MinScore, MaxScore)
}

// CheckScore gates scores below 550.
func CheckScore(score int) Verdict {
	if score < MinEligibleScore {
		return Verdict{Reason: ReasonLowCreditScore, Message: "credit score is below the minimum requirement of 550"}
	}
	return Verdict{Eligible: true, Message: "credit score check passed"}
}

// CreditLimit picks a multiplier from the score band, applies it to monthly
// income, rounds to the nearest 5000 and clamps to [25000, 500000].
func CreditLimit(score int, annualIncome float64) int {
	var multiplier float64
	switch {
	case score >= 800:
		multiplier = 3
	case score >= 750:
		multiplier = 2.5
	case score >= 700:
		multiplier = 2
	case score >= 650:
		multiplier = 1.5
	case score >= 600:
		multiplier = 1
	default:
		multiplier = 0.5
	}

	monthly := annualIncome / 12
	limit := int(math.Round(monthly * multiplier))
	limit = int(math.Round(float64(limit)/creditLimitStep)) * creditLimitStep

	return clamp(limit, MinCreditLimit, MaxCreditLimit)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
