package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tripchat/internal/models/response_models"
)

// The itinerary text convention is a bolded day header per paragraph,
// optionally a range ("**Day 2-3:**"), English or Vietnamese, followed by
// prose and bullet/numbered activity lines until the next header.
var (
	dayHeaderPattern = regexp.MustCompile(`(?i)\*\*\s*(day|ngày)\s*(\d+)(?:\s*-\s*(\d+))?\s*:?\s*\*\*:?`)
	bulletPattern    = regexp.MustCompile(`^[-*•]\s+(.+)$`)
	numberedPattern  = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

const (
	maxActivitiesPerDay = 3
	descriptionLimit    = 150
)

// ExtractActivities pulls bullet and numbered list lines out of a text block,
// in source order, with their markers stripped. Prose lines are ignored.
func ExtractActivities(text string) []string {
	activities := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var body string
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			body = m[1]
		} else if m := numberedPattern.FindStringSubmatch(line); m != nil {
			body = m[1]
		} else {
			continue
		}

		body = strings.TrimSpace(body)
		if body != "" {
			activities = append(activities, body)
		}
	}
	return activities
}

// MatchDestinations returns the candidates whose name appears in the block,
// case-insensitively. Plain substring containment: a short name can match
// inside a longer word, which is accepted imprecision (see DESIGN.md).
func MatchDestinations(block string, candidates []response_models.EnrichedDestination) []response_models.EnrichedDestination {
	matched := []response_models.EnrichedDestination{}
	blockLower := strings.ToLower(block)

	for _, candidate := range candidates {
		name := strings.ToLower(strings.TrimSpace(candidate.Name))
		if name == "" {
			continue
		}
		if strings.Contains(blockLower, name) {
			matched = append(matched, candidate)
		}
	}
	return matched
}

// ParseItinerary partitions itinerary text into per-day records. A range
// header materializes one record per day in the range, all sharing the same
// content. Output preserves source order; it is a pure projection of the text
// and safe to recompute at any time.
func ParseItinerary(itineraryText string, allDestinations []response_models.EnrichedDestination) []response_models.DayActivity {
	headers := dayHeaderPattern.FindAllStringSubmatchIndex(itineraryText, -1)

	if len(headers) == 0 {
		if len(allDestinations) == 0 {
			return []response_models.DayActivity{}
		}
		// No parseable headers but concrete recommendations: surface them as
		// a single catch-all day rather than showing nothing.
		return []response_models.DayActivity{{
			Day:          1,
			Title:        "Day 1",
			Description:  "Highlights picked from your recommendations",
			Destinations: allDestinations,
			Activities: []string{
				"Explore the recommended destinations",
				"Ask the assistant for a detailed schedule",
			},
		}}
	}

	days := []response_models.DayActivity{}
	for i, header := range headers {
		label := itineraryText[header[2]:header[3]]
		startDay, _ := strconv.Atoi(itineraryText[header[4]:header[5]])
		endDay := startDay
		if header[6] != -1 {
			if n, err := strconv.Atoi(itineraryText[header[6]:header[7]]); err == nil && n > startDay {
				endDay = n
			}
		}

		blockEnd := len(itineraryText)
		if i+1 < len(headers) {
			blockEnd = headers[i+1][0]
		}
		block := itineraryText[header[1]:blockEnd]

		description := truncateDescription(firstLine(block))
		activities := ExtractActivities(block)
		if len(activities) > maxActivitiesPerDay {
			activities = activities[:maxActivitiesPerDay]
		}
		destinations := MatchDestinations(block, allDestinations)

		for day := startDay; day <= endDay; day++ {
			days = append(days, response_models.DayActivity{
				Day:          day,
				Title:        dayTitle(label, day),
				Description:  description,
				Destinations: destinations,
				Activities:   activities,
			})
		}
	}

	return days
}

func dayTitle(label string, day int) string {
	if strings.EqualFold(label, "ngày") {
		return fmt.Sprintf("Ngày %d", day)
	}
	return fmt.Sprintf("Day %d", day)
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

func truncateDescription(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionLimit {
		return text
	}
	return string(runes[:descriptionLimit]) + "..."
}
