package schedule

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mwalimu/ratiba/core"
)

var (
	weekdayTag  = "weekday"
	weekdayText = "invalid weekday name"

	clockTimeTag  = "clocktime"
	clockTimeText = "must be a valid HH:MM time"

	slotRangeTag  = "slotrange"
	slotRangeText = "end time must be after start time"

	sessionsTag  = "sessionsrequired"
	sessionsText = "total sessions must be at least 1"

	untilTag  = "untilrequired"
	untilText = "until date must be on or after the start date"
)

// InitValidators registers the schedule validation tags on the shared validator.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)

	_ = validate.RegisterValidation(clockTimeTag, clockTimeValidation)
	core.RegisterCustomTranslation(validate, translator, clockTimeTag, clockTimeText)

	validate.RegisterStructValidation(slotStructValidation, SlotInput{})
	core.RegisterCustomTranslation(validate, translator, slotRangeTag, slotRangeText)

	validate.RegisterStructValidation(generateStructValidation, GenerateSchedule{})
	core.RegisterCustomTranslation(validate, translator, sessionsTag, sessionsText)
	core.RegisterCustomTranslation(validate, translator, untilTag, untilText)
}

// Custom Validators

// weekdayValidation checks that the value is a full lowercase weekday name.
func weekdayValidation(fl validator.FieldLevel) bool {
	_, ok := parseWeekday(core.CleanString(fl.Field().String(), true /* lower */))
	return ok
}

// clockTimeValidation checks for a parseable "HH:MM" clock value.
func clockTimeValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// slotStructValidation rejects a slot whose end is not strictly after its start.
func slotStructValidation(sl validator.StructLevel) {
	slot, ok := sl.Current().Interface().(SlotInput)
	if !ok {
		return
	}
	start, err1 := time.Parse("15:04", slot.Start)
	end, err2 := time.Parse("15:04", slot.End)
	if err1 != nil || err2 != nil {
		return // field-level tags already report these
	}
	if !end.After(start) {
		sl.ReportError(slot.End, "end", "End", slotRangeTag, "")
	}
}

// generateStructValidation enforces the repeat-mode dependent fields.
func generateStructValidation(sl validator.StructLevel) {
	gen, ok := sl.Current().Interface().(GenerateSchedule)
	if !ok {
		return
	}
	switch RepeatMode(gen.RepeatMode) {
	case RepeatCount:
		if gen.TotalSessions < 1 {
			sl.ReportError(gen.TotalSessions, "total_sessions", "TotalSessions", sessionsTag, "")
		}
	case RepeatUntil:
		if gen.UntilDate.IsZero() || gen.UntilDate.Before(gen.StartDate) {
			sl.ReportError(gen.UntilDate, "until_date", "UntilDate", untilTag, "")
		}
	}
}
