package complaint

import (
	"errors"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// NewComplaint is the input for filing a complaint.
type NewComplaint struct {
	Title         string    `json:"title" validate:"required,min=5,max=100"`
	Description   string    `json:"description" validate:"required,min=20,max=1000"`
	CategoryID    string    `json:"category_id" validate:"required"`
	SubcategoryID string    `json:"subcategory_id" validate:"required"`
	IncidentDate  time.Time `json:"incident_date" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// latestUTCOffset is the furthest-ahead zone in use (UTC+14). A calendar date
// is still today somewhere until it has ended there.
const latestUTCOffset = 14 * time.Hour

// calendarDay drops the clock, keeping the date as written in t's own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalize trims text fields and checks every bound. Lengths are counted in
// characters, not bytes. The incident date is compared by calendar day, so a
// date-only value for today is accepted in every time zone.
func (n *NewComplaint) normalize(now time.Time) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.CategoryID = strings.TrimSpace(n.CategoryID)
	n.SubcategoryID = strings.TrimSpace(n.SubcategoryID)

	if err := validate.Struct(n); err != nil {
		return translate(err)
	}
	day := calendarDay(n.IncidentDate)
	if day.Before(calendarDay(config.EarliestIncidentDate)) {
		return models.Invalid("incident_date", "incident date cannot be before %s", config.EarliestIncidentDate.Format("2006-01-02"))
	}
	if day.After(calendarDay(now.UTC().Add(latestUTCOffset))) {
		return models.Invalid("incident_date", "incident date cannot be in the future")
	}
	return nil
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.Invalid("input", "%v", err)
	}
	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return models.Invalid(field, "%s is required", field)
	case "min":
		return models.Invalid(field, "%s must be at least %s characters", field, fe.Param())
	case "max":
		return models.Invalid(field, "%s must be at most %s characters", field, fe.Param())
	default:
		return models.Invalid(field, "%s is invalid", field)
	}
}
