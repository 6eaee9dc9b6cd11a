package notam

import (
	"reflect"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestAutoETextOverride(t *testing.T) {
	records := []Record{
		{Subject: "RWY", Condition: "CLSD", Details: Details{Designator: "09L"}},
		{Subject: "OBSTACLE", Details: Details{ObstacleType: "CRANE", Lighting: boolPtr(true)}},
		{Subject: "AIRSPACE", Condition: "ACT"},
		{Subject: "", Condition: ""},
	}

	for _, r := range records {
		r.ItemEText = "  USER TEXT KEPT AS IS "
		if got := AutoEText(r); got != r.ItemEText {
			t.Fatalf("subject %q: user text not returned verbatim\nwant: %q\ngot:  %q", r.Subject, r.ItemEText, got)
		}
	}
}

func TestAutoETextBySubject(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{name: "runway", rec: Record{Subject: "RWY", Condition: "CLSD", Details: Details{Designator: "09L/27R"}}, want: "RWY 09L/27R CLSD"},
		{name: "runway placeholder", rec: Record{Subject: "RWY", Condition: "CLSD"}, want: "RWY [DESIGNATOR] CLSD"},
		{name: "taxiway", rec: Record{Subject: "TWY", Condition: "WIP", Details: Details{Designator: "B"}}, want: "TWY B WIP"},
		{name: "taxiway placeholder", rec: Record{Subject: "TWY", Condition: "WIP"}, want: "TWY [DESIGNATOR] WIP"},
		{name: "apron", rec: Record{Subject: "APRON", Condition: "CLSD", Details: Details{Designator: "NORTH"}}, want: "APRON NORTH CLSD"},
		{name: "apron no condition", rec: Record{Subject: "APRON"}, want: "APRON [DESIGNATOR]"},
		{name: "navaid", rec: Record{Subject: "NAVAID", Condition: "U/S", Details: Details{NavaidID: "VOR PGS"}}, want: "VOR PGS U/S"},
		{name: "navaid placeholder", rec: Record{Subject: "NAVAID", Condition: "U/S"}, want: "[NAVAID ID] U/S"},
		{name: "airspace with coords", rec: Record{Subject: "AIRSPACE", Condition: "ACT", Details: Details{AirspaceName: "TRA 5", AirspaceCoords: "4500N00100E"}}, want: "TRA 5 ACT 4500N00100E"},
		{name: "airspace without coords", rec: Record{Subject: "AIRSPACE", Condition: "ACT", Details: Details{AirspaceName: "TRA 5"}}, want: "TRA 5 ACT"},
		{name: "airspace placeholder", rec: Record{Subject: "AIRSPACE", Condition: "ACT"}, want: "[AIRSPACE NAME] ACT"},
		{name: "obstacle placeholders", rec: Record{Subject: "OBSTACLE"}, want: "OBST [TYPE] AT [COORDS], [HEIGHT]. NOT LGTD"},
		{name: "obstacle lighting false", rec: Record{Subject: "OBSTACLE", Details: Details{ObstacleType: "MAST", Lighting: boolPtr(false)}}, want: "OBST MAST AT [COORDS], [HEIGHT]. NOT LGTD"},
		{name: "unknown subject", rec: Record{Subject: "FOO", Condition: "BAR"}, want: "FOO BAR"},
		{name: "subject match is case sensitive", rec: Record{Subject: "rwy", Condition: "CLSD", Details: Details{Designator: "09"}}, want: "rwy CLSD"},
		{name: "empty subject", rec: Record{Condition: "CLSD"}, want: "CLSD"},
		{name: "everything empty", rec: Record{}, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AutoEText(tc.rec); got != tc.want {
				t.Fatalf("%s: item E mismatch\nwant: %q\ngot:  %q", tc.name, tc.want, got)
			}
		})
	}
}

func TestAutoETextObstacleExample(t *testing.T) {
	rec := Record{
		Subject:   "OBSTACLE",
		Condition: "",
		Details: Details{
			ObstacleType:   "CRANE",
			ObstacleCoords: "4512N07030W",
			ObstacleHeight: "150FT",
			Lighting:       boolPtr(true),
		},
	}

	want := "OBST CRANE AT 4512N07030W, 150FT. LGTD"
	if got := AutoEText(rec); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFinalNotamDefaultRecord(t *testing.T) {
	want := strings.Join([]string{
		"Q) XX/QXXXX/I/NBO/A/000/999/XXX",
		"A) ",
		"B) ",
		"C) ",
		"E) ",
		"F) 000",
		"G) 999",
	}, "\n")

	if got := FinalNotam(Default()); got != want {
		t.Fatalf("default message mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestFinalNotamFullRecord(t *testing.T) {
	rec := Default()
	rec.ItemALocation = "LFPG"
	rec.ItemBStart = "2510010600"
	rec.ItemCEnd = "2510011800"
	rec.ItemDSchedule = Schedule{Frequency: "DAILY", StartTime: "0600", EndTime: "1800"}
	rec.Subject = "RWY"
	rec.Condition = "CLSD"
	rec.Details.Designator = "09L/27R"
	rec.ItemFLower = "SFC"
	rec.ItemGUpper = "UNL"

	want := []string{
		"Q) LFPGXX/QXXXX/I/NBO/A/000/999/XXX",
		"A) LFPG",
		"B) 2510010600",
		"C) 2510011800",
		"D) DAILY 0600-1800",
		"E) RWY 09L/27R CLSD",
		"F) SFC",
		"G) UNL",
	}

	if got := Lines(rec); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines mismatch\nwant: %#v\ngot:  %#v", want, got)
	}
	if got := FinalNotam(rec); got != strings.Join(want, "\n") {
		t.Fatalf("message mismatch\nwant: %q\ngot:  %q", strings.Join(want, "\n"), got)
	}
}

func TestFinalNotamScheduleLine(t *testing.T) {
	tests := []struct {
		name      string
		sched     Schedule
		wantLines int
		wantD     string
	}{
		{name: "empty", sched: Schedule{}, wantLines: 7},
		{name: "missing end", sched: Schedule{Frequency: "DAILY", StartTime: "0800"}, wantLines: 7},
		{name: "missing frequency", sched: Schedule{StartTime: "0800", EndTime: "1600"}, wantLines: 7},
		{name: "missing start", sched: Schedule{Frequency: "MON-FRI", EndTime: "1600"}, wantLines: 7},
		{name: "complete", sched: Schedule{Frequency: "MON-FRI", StartTime: "0800", EndTime: "1600"}, wantLines: 8, wantD: "D) MON-FRI 0800-1600"},
	}

	order := []string{"Q)", "A)", "B)", "C)", "D)", "E)", "F)", "G)"}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := Default()
			rec.ItemDSchedule = tc.sched

			lines := strings.Split(FinalNotam(rec), "\n")
			if len(lines) != tc.wantLines {
				t.Fatalf("want %d lines, got %d: %#v", tc.wantLines, len(lines), lines)
			}

			// lines must follow the fixed item order, with D) optional
			i := 0
			for _, prefix := range order {
				if prefix == "D)" && tc.wantD == "" {
					continue
				}
				if !strings.HasPrefix(lines[i], prefix) {
					t.Fatalf("line %d: want prefix %s, got %q", i, prefix, lines[i])
				}
				if prefix == "D)" && lines[i] != tc.wantD {
					t.Fatalf("want %q, got %q", tc.wantD, lines[i])
				}
				i++
			}
		})
	}
}

func TestFinalNotamQLineIgnoresLimits(t *testing.T) {
	rec := Default()
	rec.ItemALocation = "EGLL"
	rec.ItemFLower = "050"
	rec.ItemGUpper = "120"

	lines := Lines(rec)
	if lines[0] != "Q) EGLLXX/QXXXX/I/NBO/A/000/999/XXX" {
		t.Fatalf("unexpected Q line %q", lines[0])
	}
}

func TestFinalNotamUsesUserEText(t *testing.T) {
	rec := Default()
	rec.Subject = "RWY"
	rec.ItemEText = "RWY 09 CLSD DUE TO SNOW"

	lines := Lines(rec)
	if lines[4] != "E) RWY 09 CLSD DUE TO SNOW" {
		t.Fatalf("unexpected E line %q", lines[4])
	}
}

func TestFormatScheduleTime(t *testing.T) {
	tests := map[string]string{
		"0830":  "08:30",
		"2359":  "23:59",
		"":      "",
		"830":   "",
		"08:30": "",
	}
	for in, want := range tests {
		if got := FormatScheduleTime(in); got != want {
			t.Fatalf("FormatScheduleTime(%q): want %q, got %q", in, want, got)
		}
	}
}
