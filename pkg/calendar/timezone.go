package calendar

import (
	"github.com/emersion/go-ical"
)

// Map of common Windows timezone names to IANA timezone names. Outlook
// feeds routinely emit the former, which time.LoadLocation rejects.
var windowsToIANA = map[string]string{
	"Pacific Standard Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Central Standard Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"Atlantic Standard Time":       "America/Halifax",
	"Alaskan Standard Time":        "America/Anchorage",
	"Hawaiian Standard Time":       "Pacific/Honolulu",
	"GMT Standard Time":            "Europe/London",
	"Central Europe Standard Time": "Europe/Paris",
	"W. Europe Standard Time":      "Europe/Berlin",
	"China Standard Time":          "Asia/Shanghai",
	"Tokyo Standard Time":          "Asia/Tokyo",
	"Korea Standard Time":          "Asia/Seoul",
	"India Standard Time":          "Asia/Kolkata",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}

// normalizeComponentTimezones rewrites Windows timezone identifiers to
// IANA names on the date-time properties before parsing.
func normalizeComponentTimezones(comp *ical.Component) {
	timeProps := []string{
		ical.PropDateTimeStart,
		ical.PropDateTimeEnd,
	}
	for _, name := range timeProps {
		if prop := comp.Props.Get(name); prop != nil {
			fixTimezoneParam(prop)
		}
	}

	for _, exdate := range comp.Props.Values(ical.PropExceptionDates) {
		fixTimezoneParam(&exdate)
	}
	for _, rdate := range comp.Props.Values(ical.PropRecurrenceDates) {
		fixTimezoneParam(&rdate)
	}
}

func fixTimezoneParam(prop *ical.Prop) {
	if tzid := prop.Params.Get(ical.ParamTimezoneID); tzid != "" {
		if ianaName, ok := windowsToIANA[tzid]; ok {
			prop.Params.Set(ical.ParamTimezoneID, ianaName)
		}
	}
}
