package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODateFormat is the canonical on-the-wire date form.
const ISODateFormat = "2006-01-02"

// monthNumbers maps Latin and Czech month names (full, genitive and
// abbreviated, with and without diacritics) to month numbers.
var monthNumbers = map[string]time.Month{
	"jan": 1, "january": 1, "feb": 2, "february": 2, "mar": 3, "march": 3,
	"apr": 4, "april": 4, "may": 5, "jun": 6, "june": 6, "jul": 7, "july": 7,
	"aug": 8, "august": 8, "sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10, "nov": 11, "november": 11, "dec": 12, "december": 12,

	"led": 1, "leden": 1, "ledna": 1,
	"uno": 2, "úno": 2, "unor": 2, "únor": 2, "unora": 2, "února": 2,
	"bre": 3, "bře": 3, "brezen": 3, "březen": 3, "brezna": 3, "března": 3,
	"dub": 4, "duben": 4, "dubna": 4,
	"kve": 5, "kvě": 5, "kveten": 5, "květen": 5, "kvetna": 5, "května": 5,
	"cvn": 6, "čvn": 6, "cerven": 6, "červen": 6, "cervna": 6, "června": 6,
	"cvc": 7, "čvc": 7, "cervenec": 7, "červenec": 7, "cervence": 7, "července": 7,
	"srp": 8, "srpen": 8, "srpna": 8,
	"zar": 9, "zář": 9, "zari": 9, "září": 9,
	"rij": 10, "říj": 10, "rijen": 10, "říjen": 10, "rijna": 10, "října": 10,
	"lis": 11, "listopad": 11, "listopadu": 11,
	"pro": 12, "prosinec": 12, "prosince": 12,
}

var (
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dottedDateRe = regexp.MustCompile(`^(\d{1,2})\.\s*(\d{1,2})\.\s*(\d{4}|'\d{2})$`)
	namedDateRe  = regexp.MustCompile(`^(\d{1,2})\.?\s+([\p{L}]{3,})\.?\s+(\d{4})$`)

	// DateTokenRe matches any supported date form inside running text. It is
	// the segmentation anchor for block-based provider parsers.
	DateTokenRe = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2}` +
			`|\d{1,2}\.\s?\d{1,2}\.\s?(?:\d{4}|'\d{2})` +
			`|\d{1,2}\.?\s\p{L}{3,}\.?\s\d{4}`)
)

// ParseLocalDate resolves a provider-local date token to ISO form. Supported
// dialects: ISO (2021-02-17), dotted day-first (17. 2. 2021, 17.2.'21) and
// day month-name year in Latin or Czech spelling (17 Feb 2021,
// 17. února 2021). Unparseable input yields the empty string; callers must
// drop or flag records with an empty date.
func ParseLocalDate(token string) string {
	s := strings.TrimSpace(token)

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		if _, err := time.Parse(ISODateFormat, s); err == nil {
			return s
		}
		return ""
	}

	if m := dottedDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := parseYear(m[3])
		return formatDate(year, month, day)
	}

	if m := namedDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthNumbers[strings.ToLower(m[2])]
		if !ok {
			return ""
		}
		year, _ := strconv.Atoi(m[3])
		return formatDate(year, int(month), day)
	}

	return ""
}

// parseYear handles the apostrophe-prefixed 2-digit year ('21 means 2021).
func parseYear(s string) int {
	if strings.HasPrefix(s, "'") {
		y, _ := strconv.Atoi(s[1:])
		return 2000 + y
	}
	y, _ := strconv.Atoi(s)
	return y
}

func formatDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31.2.) into the next month.
	if t.Day() != day || int(t.Month()) != month {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
