// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package translit maps English team and competition names to Arabic.
package translit

import (
	"maps"
	"unicode"

	"github.com/ManuGH/matchcast/internal/normalize"
)

// Tables holds the lookup tables, keyed by normalize.Key.
type Tables struct {
	Teams        map[string]string `yaml:"teams"`
	Competitions map[string]string `yaml:"competitions"`
	Words        map[string]string `yaml:"words"`
}

// Len is the total number of entries.
func (t *Tables) Len() int {
	return len(t.Teams) + len(t.Competitions) + len(t.Words)
}

// Merge returns a copy of t overlaid with o. Keys of o are re-keyed.
func (t *Tables) Merge(o Tables) Tables {
	out := Tables{
		Teams:        maps.Clone(t.Teams),
		Competitions: maps.Clone(t.Competitions),
		Words:        maps.Clone(t.Words),
	}
	if out.Teams == nil {
		out.Teams = map[string]string{}
	}
	if out.Competitions == nil {
		out.Competitions = map[string]string{}
	}
	if out.Words == nil {
		out.Words = map[string]string{}
	}
	for k, v := range o.Teams {
		out.Teams[normalize.Key(k)] = v
	}
	for k, v := range o.Competitions {
		out.Competitions[normalize.Key(k)] = v
	}
	for k, v := range o.Words {
		out.Words[normalize.Key(k)] = v
	}
	return out
}

// HasArabic reports whether s contains a rune from the Arabic block.
func HasArabic(s string) bool {
	for _, r := range s {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	isSep := func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/'
	}
	var out []string
	start := -1
	for i, r := range s {
		if isSep(r) {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// Default returns the built-in tables.
func Default() Tables {
	return Tables{
		Competitions: map[string]string{
			"premier league":        "الدوري الإنجليزي الممتاز",
			"la liga":               "الدوري الإسباني",
			"primera division":      "الدوري الإسباني",
			"bundesliga":            "الدوري الألماني",
			"ligue 1":               "الدوري الفرنسي",
			"serie a":               "الدوري الإيطالي",
			"eredivisie":            "الدوري الهولندي",
			"uefa champions league": "دوري أبطال أوروبا",
		},
		Teams: map[string]string{
			"real madrid":         "ريال مدريد",
			"barcelona":           "برشلونة",
			"fc barcelona":        "برشلونة",
			"manchester city":     "مانشستر سيتي",
			"manchester united":   "مانشستر يونايتد",
			"liverpool":           "ليفربول",
			"arsenal":             "أرسنال",
			"chelsea":             "تشيلسي",
			"tottenham hotspur":   "توتنهام",
			"juventus":            "يوفنتوس",
			"ac milan":            "ميلان",
			"inter":               "إنتر",
			"napoli":              "نابولي",
			"paris saint germain": "باريس سان جيرمان",
			"atletico madrid":     "أتلتيكو مدريد",
		},
		Words: map[string]string{
			"real":       "ريال",
			"madrid":     "مدريد",
			"barcelona":  "برشلونة",
			"atletico":   "أتلتيكو",
			"manchester": "مانشستر",
			"united":     "يونايتد",
			"city":       "سيتي",
			"liverpool":  "ليفربول",
			"chelsea":    "تشيلسي",
			"arsenal":    "أرسنال",
			"tottenham":  "توتنهام",
			"bayern":     "بايرن",
			"dortmund":   "دورتموند",
			"juventus":   "يوفنتوس",
			"milan":      "ميلان",
			"inter":      "إنتر",
			"napoli":     "نابولي",
			"paris":      "باريس",
			"saint":      "سان",
			"germain":    "جيرمان",
			"sporting":   "سبورتينغ",
			"clube":      "كلوب",
			"club":       "كلوب",
			"fc":         "إف سي",
			"cf":         "سي إف",
			"ac":         "إيه سي",
			"sc":         "إس سي",
			"ud":         "يو دي",
			"de":         "دي",
		},
	}
}
