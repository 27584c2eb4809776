package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperifyio/labelflat/internal/schema"
)

var (
	// "1,2-1,5 L/ha", "1.2 – 1.5", "0,8—1,0 kg/ha". RE2's \s is ASCII only;
	// \p{Zs} also accepts the no-break spaces that &nbsp; decodes to.
	doseRangeRe = regexp.MustCompile(`(\d+[.,]?\d*)[\s\p{Zs}]*[-–—][\s\p{Zs}]*(\d+[.,]?\d*)[\s\p{Zs}]*([A-Za-z/]*)`)
	// "2,0 L/ha"
	doseSingleRe = regexp.MustCompile(`(\d+[.,]?\d*)[\s\p{Zs}]*([A-Za-z/]+)`)
	// "1,5"
	doseBareRe = regexp.MustCompile(`\d+[.,]?\d*`)
)

func isPlaceholder(s string) bool {
	switch s {
	case "", "-", "N/A":
		return true
	}
	return false
}

// ParseWeedList splits a comma or semicolon separated list of weed names.
// Blank and placeholder entries are dropped. The result is never nil.
func ParseWeedList(text string) []schema.Weed {
	out := []schema.Weed{}
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' }) {
		name := strings.TrimSpace(part)
		if isPlaceholder(name) {
			continue
		}
		out = append(out, schema.Weed{CommonName: name})
	}
	return out
}

// ParseDose reads a dose range, a single dose with unit or a bare number
// from text. Both decimal separators are accepted. Ranges and single doses
// with a unit are annotated as depending on soil texture. Text that holds no
// number yields nil values. The trimmed text is always kept.
func ParseDose(text string) schema.Dose {
	text = strings.TrimSpace(text)
	d := schema.Dose{Text: text}
	if isPlaceholder(text) {
		return d
	}

	if m := doseRangeRe.FindStringSubmatch(text); m != nil {
		lo, err1 := parseDecimal(m[1])
		hi, err2 := parseDecimal(m[2])
		if err1 == nil && err2 == nil {
			d.Min, d.Max = &lo, &hi
			d.Unit = m[3]
			d.SoilCondition = schema.SoilTextureCondition
			return d
		}
	}
	if m := doseSingleRe.FindStringSubmatch(text); m != nil {
		if v, err := parseDecimal(m[1]); err == nil {
			d.Min, d.Max = &v, ptr(v)
			d.Unit = m[2]
			d.SoilCondition = schema.SoilTextureCondition
			return d
		}
	}
	if m := doseBareRe.FindString(text); m != "" {
		if v, err := parseDecimal(m); err == nil {
			d.Min, d.Max = &v, ptr(v)
			return d
		}
	}
	return d
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func ptr(v float64) *float64 { return &v }
