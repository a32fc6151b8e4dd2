package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	yearOnly = regexp.MustCompile(`^\d{4}$`)
	isoDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	acfDate  = regexp.MustCompile(`^\d{8}$`)             // ACF date picker: Ymd
	dmyDate  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`) // 02/03/1975
)

// NormalizeBirthDate converts a free-form birth date into YYYY-MM-DD.
//
//	"1975"       → "1975-01-01"
//	"1975-03-02" → "1975-03-02"
//	"19750302"   → "1975-03-02"
//	"02/03/1975" → "1975-03-02"
//	"unknown"    → "", false
func NormalizeBirthDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	switch {
	case yearOnly.MatchString(s):
		return s + "-01-01", true
	case isoDate.MatchString(s):
		return reformat("2006-01-02", s)
	case acfDate.MatchString(s):
		return reformat("20060102", s)
	case dmyDate.MatchString(s):
		return reformat("02/01/2006", s)
	}
	return "", false
}

func reformat(layout, s string) (string, bool) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
