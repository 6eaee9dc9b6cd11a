package notam

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleRecord() Record {
	rec := Default()
	rec.ItemALocation = "LFPG"
	rec.ItemBStart = "2510010600"
	rec.ItemCEnd = "2510011800"
	rec.Subject = "OBSTACLE"
	rec.Details = Details{ObstacleType: "CRANE", ObstacleCoords: "4512N07030W", ObstacleHeight: "150FT", Lighting: boolPtr(true)}
	return rec
}

func TestExportJSONFieldNames(t *testing.T) {
	data, err := NewExport(sampleRecord()).JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if _, ok := doc["raw"]; !ok {
		t.Fatal("missing raw key")
	}
	if _, ok := doc["composed"]; !ok {
		t.Fatal("missing composed key")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(doc["raw"], &raw); err != nil {
		t.Fatalf("raw is not an object: %v", err)
	}
	var keys []string
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	want := []string{
		"category", "condition", "details", "itemA_location", "itemB_start", "itemC_end",
		"itemD_schedule", "itemE_text", "itemF_lower", "itemG_upper", "messageType",
		"referenceNotam", "subject",
	}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("raw keys mismatch\nwant: %#v\ngot:  %#v", want, keys)
	}

	var details map[string]any
	if err := json.Unmarshal(raw["details"], &details); err != nil {
		t.Fatalf("details is not an object: %v", err)
	}
	wantDetails := map[string]any{
		"obstacleType":   "CRANE",
		"obstacleCoords": "4512N07030W",
		"obstacleHeight": "150FT",
		"lighting":       true,
	}
	if !reflect.DeepEqual(details, wantDetails) {
		t.Fatalf("details mismatch\nwant: %#v\ngot:  %#v", wantDetails, details)
	}
}

func TestExportRoundTrip(t *testing.T) {
	rec := sampleRecord()
	exp := NewExport(rec)

	data, err := exp.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back Export
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(back.Raw, rec) {
		t.Fatalf("raw record mismatch\nwant: %#v\ngot:  %#v", rec, back.Raw)
	}
	if back.Composed != FinalNotam(rec) {
		t.Fatalf("composed mismatch: %q", back.Composed)
	}

	yamlData, err := exp.YAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var fromYAML Export
	if err := yaml.Unmarshal(yamlData, &fromYAML); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fromYAML, exp) {
		t.Fatalf("yaml export mismatch\nwant: %#v\ngot:  %#v", exp, fromYAML)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(sampleRecord(), FormatJSON); got != "NOTAM_LFPG_2510010600.json" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileName(Default(), FormatText); got != "NOTAM__.txt" {
		t.Fatalf("unexpected file name for empty record %q", got)
	}
}

func TestWriteExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rec := sampleRecord()

	path, err := WriteExport(dir, rec, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "NOTAM_LFPG_2510010600.txt" {
		t.Fatalf("unexpected path %s", path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != FinalNotam(rec) {
		t.Fatalf("text export mismatch\nwant: %q\ngot:  %q", FinalNotam(rec), string(body))
	}
}

func TestExportFileNameStaysInDirectory(t *testing.T) {
	tests := []struct {
		name     string
		location string
		start    string
		want     string
	}{
		{name: "slashes in start", location: "LFPG", start: "2026/01/01", want: "NOTAM_LFPG_2026-01-01.txt"},
		{name: "parent traversal", location: "../../x", start: "2510010600", want: "NOTAM_..-..-x_2510010600.txt"},
		{name: "windows separators", location: `C:\tmp`, start: "2510010600", want: "NOTAM_C--tmp_2510010600.txt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := sampleRecord()
			rec.ItemALocation, rec.ItemBStart = tc.location, tc.start

			if got := FileName(rec, FormatText); got != tc.want {
				t.Fatalf("%s: file name mismatch\nwant: %q\ngot:  %q", tc.name, tc.want, got)
			}

			dir := filepath.Join(t.TempDir(), "out")
			path, err := WriteExport(dir, rec, FormatText)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			if filepath.Dir(path) != dir {
				t.Fatalf("%s: export written outside %s: %s", tc.name, dir, path)
			}
		})
	}
}

func TestParseExportFormat(t *testing.T) {
	for _, f := range []string{"txt", "json", "yaml"} {
		if _, err := ParseExportFormat(f); err != nil {
			t.Fatalf("ParseExportFormat(%q): %v", f, err)
		}
	}
	if _, err := ParseExportFormat("pdf"); err == nil {
		t.Fatal("expected error for pdf")
	}
}
