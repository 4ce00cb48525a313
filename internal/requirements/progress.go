package requirements

import "github.com/schemer-edu/schemer-server/internal/models"

// onTrackThreshold is the overall completion percentage below which a
// student is flagged as behind. Roughly one year of a four-year program.
const onTrackThreshold = 25.0

// ProgressReport summarizes degree progress across all requirements
type ProgressReport struct {
	Requirements          []models.Requirement `json:"requirements"`
	OverallProgress       float64              `json:"overallProgress"`
	TotalCreditsCompleted int                  `json:"totalCreditsCompleted"`
	TotalCreditsRequired  int                  `json:"totalCreditsRequired"`
	CompletedRequirements int                  `json:"completedRequirements"`
	TotalRequirements     int                  `json:"totalRequirements"`
	OnTrack               bool                 `json:"onTrack"`
	RemainingCredits      int                  `json:"remainingCredits"`
}

// ComputeProgress recalculates each requirement's completion from the
// student's completed courses, projecting scheduled courses forward as
// if finished. Inputs are read-only; a fresh requirement slice is
// returned.
func ComputeProgress(reqs []models.Requirement, completed []models.CompletedCourse, scheduled []models.Course) ProgressReport {
	updated := make([]models.Requirement, len(reqs))

	for i, req := range reqs {
		credits := 0
		courses := 0

		for _, c := range completed {
			if fulfills(c.Fulfills, req.Category) {
				credits += c.Credits
				courses++
			}
		}
		for i := range scheduled {
			if fulfills(scheduled[i].Fulfills, req.Category) {
				credits += scheduled[i].Credits
				courses++
			}
		}

		req.CreditsCompleted = credits
		req.CoursesCompleted = courses
		req.Completed = credits >= req.CreditsRequired
		updated[i] = req
	}

	report := ProgressReport{
		Requirements:      updated,
		TotalRequirements: len(updated),
	}

	for _, req := range updated {
		report.TotalCreditsRequired += req.CreditsRequired
		report.TotalCreditsCompleted += req.CreditsCompleted
		if req.Completed {
			report.CompletedRequirements++
		}
	}

	if report.TotalCreditsRequired > 0 {
		report.OverallProgress = float64(report.TotalCreditsCompleted) / float64(report.TotalCreditsRequired) * 100
	}
	report.OnTrack = report.OverallProgress >= onTrackThreshold
	report.RemainingCredits = report.TotalCreditsRequired - report.TotalCreditsCompleted

	return report
}

func fulfills(categories []models.RequirementCategory, category models.RequirementCategory) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
