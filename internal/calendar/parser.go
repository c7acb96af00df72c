package calendar

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedTitle is the result of parsing a calendar event title.
// PodcastName is "" when the title yields no name; EpisodeNumber is the first
// parsed number or "" when none was found.
type ParsedTitle struct {
	PodcastName    string
	EpisodeNumber  string
	EpisodeNumbers []string
}

// Titles name episodes in several conventions, sometimes more than one per
// event (back-to-back recordings): "Show - 33", "Show 33 & 34", "Show 33-35",
// "פרק 33 ו-34", "Show episode 33", "Show #33".
var (
	multiNumberRe = regexp.MustCompile(`(?i)(\d+)\s*(?:&|and|,|/)\s*(\d+)`)
	numberRangeRe = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	hebrewAndRe   = regexp.MustCompile(`(\d+)\s*ו-?\s*(\d+)`)
	labelRe       = regexp.MustCompile(`(?i)(?:פרק|episode|ep|#)\s*(\d+)`)

	trailingNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`[-–]\s*(\d+)\s*$`),
		regexp.MustCompile(`\s+(\d+)\s*$`),
	}

	// Suffix-stripping patterns applied in order to recover the podcast name.
	nameSuffixRes = []*regexp.Regexp{
		regexp.MustCompile(`\s*[-–]\s*\d+(\s*[&,/\-]\s*\d+)*\s*$`),
		regexp.MustCompile(`\s+פרק\s+\d+(\s*ו-?\s*\d+)*\s*$`),
		regexp.MustCompile(`\s*#\d+(\s*#\d+)*\s*$`),
		regexp.MustCompile(`(?i)\s+episode\s+\d+.*$`),
		regexp.MustCompile(`(?i)\s+ep\s+\d+.*$`),
		regexp.MustCompile(`\s+\d+(\s*[&,/\-]\s*\d+)*\s*$`),
	}
)

// ParseEventTitle extracts the podcast name and episode number(s) from a raw
// calendar event title. It is a pure function: no I/O, no hidden state.
func ParseEventTitle(title string) ParsedTitle {
	result := ParsedTitle{EpisodeNumbers: []string{}}
	if title == "" {
		return result
	}

	seen := make(map[string]bool)
	add := func(num string) {
		if !seen[num] {
			seen[num] = true
			result.EpisodeNumbers = append(result.EpisodeNumbers, num)
		}
	}

	// Multi: "33 & 34", "33 and 34", "33, 34", "33 / 34"
	for _, m := range multiNumberRe.FindAllStringSubmatch(title, -1) {
		add(m[1])
		add(m[2])
	}
	// Range: "33-35" expands to every number when the span is sane;
	// a reversed or oversized range contributes just its two endpoints.
	for _, m := range numberRangeRe.FindAllStringSubmatch(title, -1) {
		low, _ := strconv.Atoi(m[1])
		high, _ := strconv.Atoi(m[2])
		if low <= high && high-low <= 10 {
			for n := low; n <= high; n++ {
				add(strconv.Itoa(n))
			}
		} else {
			add(m[1])
			add(m[2])
		}
	}
	// Hebrew "and": "פרק 33 ו-34" or "33 ו-34"
	for _, m := range hebrewAndRe.FindAllStringSubmatch(title, -1) {
		add(m[1])
		add(m[2])
	}
	// Explicit labels: "פרק 33", "#33", "episode 33", "ep 33"
	for _, m := range labelRe.FindAllStringSubmatch(title, -1) {
		add(m[1])
	}
	// Single number at the end, only when nothing else matched: " - 33" or " 33"
	if len(result.EpisodeNumbers) == 0 {
		for _, re := range trailingNumberRes {
			if m := re.FindStringSubmatch(title); m != nil {
				add(m[1])
				break
			}
		}
	}

	name := title
	if len(result.EpisodeNumbers) > 0 {
		for _, re := range nameSuffixRes {
			name = re.ReplaceAllString(name, "")
		}
	}
	result.PodcastName = strings.TrimSpace(name)
	if len(result.EpisodeNumbers) > 0 {
		result.EpisodeNumber = result.EpisodeNumbers[0]
	}
	return result
}
