package complaint

import (
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
)

// TransitionPolicy decides whether a complaint may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to models.Status) bool
}

// Unrestricted lets any status follow any other.
type Unrestricted struct{}

func (Unrestricted) Allow(from, to models.Status) bool { return to.Valid() }

// Strict only moves forward through pending, seen, in progress and then
// resolved or rejected. Steps may be skipped; closed complaints stay closed.
// Re-applying the current status is allowed.
type Strict struct{}

var forward = map[models.Status][]models.Status{
	models.StatusPending:    {models.StatusSeen, models.StatusInProgress, models.StatusResolved, models.StatusRejected},
	models.StatusSeen:       {models.StatusInProgress, models.StatusResolved, models.StatusRejected},
	models.StatusInProgress: {models.StatusResolved, models.StatusRejected},
}

func (Strict) Allow(from, to models.Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyFor maps the configured policy name to an implementation.
func PolicyFor(p config.StatusPolicy) TransitionPolicy {
	if p == config.PolicyStrict {
		return Strict{}
	}
	return Unrestricted{}
}
