package notam

import (
	"fmt"
	"strings"
)

// placeholders substituted when a detail needed by the subject is missing
const (
	placeholderDesignator   = "[DESIGNATOR]"
	placeholderNavaidID     = "[NAVAID ID]"
	placeholderAirspaceName = "[AIRSPACE NAME]"
	placeholderType         = "[TYPE]"
	placeholderCoords       = "[COORDS]"
	placeholderHeight       = "[HEIGHT]"
)

// qLineSuffix follows the location on the Q) line. It is a fixed structural
// placeholder and does not track items F and G.
const qLineSuffix = "XX/QXXXX/I/NBO/A/000/999/XXX"

func orDefault(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// AutoEText returns the item E body for r. User supplied text always wins;
// otherwise the body is built from the subject, condition and details.
func AutoEText(r Record) string {
	if r.ItemEText != "" {
		return r.ItemEText
	}

	d := r.Details
	var text string

	switch r.Subject {
	case "RWY", "TWY", "APRON":
		text = fmt.Sprintf("%s %s %s", r.Subject, orDefault(d.Designator, placeholderDesignator), r.Condition)
	case "NAVAID":
		text = fmt.Sprintf("%s %s", orDefault(d.NavaidID, placeholderNavaidID), r.Condition)
	case "AIRSPACE":
		text = fmt.Sprintf("%s %s %s", orDefault(d.AirspaceName, placeholderAirspaceName), r.Condition, d.AirspaceCoords)
	case "OBSTACLE":
		lighting := "NOT LGTD"
		if d.Lit() {
			lighting = "LGTD"
		}
		text = fmt.Sprintf("OBST %s AT %s, %s. %s",
			orDefault(d.ObstacleType, placeholderType),
			orDefault(d.ObstacleCoords, placeholderCoords),
			orDefault(d.ObstacleHeight, placeholderHeight),
			lighting)
	default:
		text = fmt.Sprintf("%s %s", r.Subject, r.Condition)
	}

	return strings.TrimSpace(text)
}

// Lines returns the lettered items of the composed message in output order.
// The D) line is present only for a complete schedule.
func Lines(r Record) []string {
	lines := make([]string, 0, 8)
	lines = append(lines,
		fmt.Sprintf("Q) %s%s", r.ItemALocation, qLineSuffix),
		fmt.Sprintf("A) %s", r.ItemALocation),
		fmt.Sprintf("B) %s", r.ItemBStart),
		fmt.Sprintf("C) %s", r.ItemCEnd),
	)

	if sched := r.ItemDSchedule; sched.Complete() {
		lines = append(lines, fmt.Sprintf("D) %s %s-%s", sched.Frequency, sched.StartTime, sched.EndTime))
	}

	lines = append(lines,
		fmt.Sprintf("E) %s", AutoEText(r)),
		fmt.Sprintf("F) %s", r.ItemFLower),
		fmt.Sprintf("G) %s", r.ItemGUpper),
	)
	return lines
}

// FinalNotam renders r as the newline separated NOTAM message.
func FinalNotam(r Record) string {
	return strings.Join(Lines(r), "\n")
}

// FormatScheduleTime turns a stored HHmm value into HH:mm for display.
// Values that are not four characters long display as empty.
func FormatScheduleTime(t string) string {
	if len(t) != 4 {
		return ""
	}
	return t[:2] + ":" + t[2:]
}
