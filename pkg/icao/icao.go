package icao

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var locationRe = regexp.MustCompile(`^[A-Z]{4}$`)

// NormalizeLocation trims and upper-cases a location indicator as typed by a user.
func NormalizeLocation(code string) string {
	// a Caser keeps state, so one is built per call
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// IsLocationIndicator reports whether code is a four letter ICAO location indicator.
func IsLocationIndicator(code string) bool {
	return locationRe.MatchString(code)
}

// CountryCode returns the ISO 3166-1 alpha-2 country for a location indicator,
// trying the two letter nationality prefix before the one letter one.
func CountryCode(code string) (string, bool) {
	code = NormalizeLocation(code)
	if len(code) >= 2 {
		if iso, ok := nationalityPrefixes[code[:2]]; ok {
			return iso, true
		}
	}
	if len(code) >= 1 {
		if iso, ok := nationalityPrefixes[code[:1]]; ok {
			return iso, true
		}
	}
	return "", false
}

// nationalityPrefixes maps ICAO nationality prefixes to ISO 3166-1 alpha-2 codes.
var nationalityPrefixes = map[string]string{
	// one letter
	"C": "CA", "K": "US", "Y": "AU", "Z": "CN",

	// Europe
	"EB": "BE", "ED": "DE", "EE": "EE", "EF": "FI", "EG": "GB", "EH": "NL", "EI": "IE",
	"EK": "DK", "EL": "LU", "EN": "NO", "EP": "PL", "ES": "SE", "ET": "DE", "EV": "LV",
	"EY": "LT", "LA": "AL", "LB": "BG", "LC": "CY", "LD": "HR", "LE": "ES", "LF": "FR",
	"LG": "GR", "LH": "HU", "LI": "IT", "LJ": "SI", "LK": "CZ", "LM": "MT", "LO": "AT",
	"LP": "PT", "LR": "RO", "LS": "CH", "LT": "TR", "LZ": "SK", "BI": "IS",

	// Africa
	"DA": "DZ", "DG": "GH", "DN": "NG", "DT": "TN", "FA": "ZA", "FM": "MG", "GM": "MA",
	"GO": "SN", "HA": "ET", "HE": "EG", "HK": "KE", "HT": "TZ", "HU": "UG", "HR": "RW",
	"FZ": "CD", "FQ": "MZ", "FN": "AO",

	// Middle East and Asia
	"OE": "SA", "OI": "IR", "OJ": "JO", "OM": "AE", "OT": "QA", "OP": "PK", "VA": "IN",
	"VI": "IN", "VO": "IN", "VE": "IN", "VT": "TH", "VV": "VN", "VH": "HK", "WS": "SG",
	"WM": "MY", "WA": "ID", "RJ": "JP", "RK": "KR", "RC": "TW", "RP": "PH",

	// Americas and Pacific
	"MM": "MX", "MP": "PA", "MK": "JM", "SA": "AR", "SB": "BR", "SC": "CL", "SK": "CO",
	"SP": "PE", "PA": "US", "PH": "US", "NZ": "NZ", "NF": "FJ",

	// Russia
	"UU": "RU", "UL": "RU", "UR": "RU", "US": "RU", "UW": "RU", "UE": "RU", "UH": "RU",
	"UK": "UA", "UA": "KZ",
}
