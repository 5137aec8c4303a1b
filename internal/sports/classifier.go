package sports

import "strings"

// TableKind is the role of a table found inside the schedule container
type TableKind int

const (
	TableUnknown TableKind = iota
	TablePostseason
	TableResults
	TableSchedule
)

func (k TableKind) String() string {
	switch k {
	case TablePostseason:
		return "postseason"
	case TableResults:
		return "results"
	case TableSchedule:
		return "schedule"
	default:
		return "unknown"
	}
}

// postseasonResultHeader marks a five-column tournament table
const postseasonResultHeader = "Place / Result"

// Classifier decides what a table holds from its header cells
type Classifier interface {
	Classify(headers []string) TableKind
}

// HeaderClassifier dispatches on the number of header cells, the only signal the
// schedule site's markup offers:
//
//	4 cells                          postseason, skipped
//	5 cells, 4th is "Place / Result" postseason, skipped
//	5 cells otherwise                results
//	6 cells                          schedule
type HeaderClassifier struct{}

// Classify implements Classifier
func (HeaderClassifier) Classify(headers []string) TableKind {
	switch len(headers) {
	case 4:
		return TablePostseason
	case 5:
		if cleanText(headers[3]) == postseasonResultHeader {
			return TablePostseason
		}
		return TableResults
	case 6:
		return TableSchedule
	default:
		return TableUnknown
	}
}

// cleanText trims s and collapses internal whitespace runs (including nbsp) to one space
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
