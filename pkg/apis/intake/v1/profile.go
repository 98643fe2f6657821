package v1

// Merge folds an extraction delta into the profile. Scalars are overwritten only by
// non-nil values, list fields take the union with existing entries kept first.
func (p *Profile) Merge(delta Profile) {
	mergeScalar(&p.Role, delta.Role)
	mergeScalar(&p.ExperienceMonths, delta.ExperienceMonths)
	mergeScalar(&p.TeamSize, delta.TeamSize)
	mergeScalar(&p.Industry, delta.Industry)
	mergeScalar(&p.TimeAvailableHoursPerWeek, delta.TimeAvailableHoursPerWeek)
	mergeScalar(&p.EmotionalState, delta.EmotionalState)
	mergeScalar(&p.Urgency, delta.Urgency)

	p.PrimaryChallenges = union(p.PrimaryChallenges, delta.PrimaryChallenges)
	p.LearningGoals = union(p.LearningGoals, delta.LearningGoals)
}

func mergeScalar[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func union(existing, added []string) []string {
	out := make([]string, 0, len(existing)+len(added))
	seen := make(map[string]bool, len(existing)+len(added))
	for _, list := range [][]string{existing, added} {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// CompletionPercentage is the share of RequiredFields holding a value, 0-100, rounded down.
func (p Profile) CompletionPercentage() int {
	collected, _ := p.RequiredFieldStatus()
	return len(collected) * 100 / len(RequiredFields)
}

// RequiredFieldStatus splits RequiredFields into those collected and those still missing,
// both in RequiredFields order.
func (p Profile) RequiredFieldStatus() (collected, missing []string) {
	collected, missing = []string{}, []string{}
	for _, f := range RequiredFields {
		if p.Has(f) {
			collected = append(collected, f)
		} else {
			missing = append(missing, f)
		}
	}
	return collected, missing
}
