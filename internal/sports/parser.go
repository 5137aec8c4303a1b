package sports

import (
	"errors"
	"fmt"
	"io"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

var (
	// ErrScheduleNotFound is returned when the page has no schedule container
	ErrScheduleNotFound = errors.New("schedule container not found")
	// ErrSchoolYearNotFound is returned when no "YYYY-YY" heading can be read
	ErrSchoolYearNotFound = errors.New("school year header not found")
)

// schoolYearSelectors are searched in order, first inside the container and then
// across the whole document
const schoolYearSelectors = "h1, h2, h3, h4, h5, caption, .season, .school-year"

// Page is everything parsed from one sport's schedule page
type Page struct {
	Sport         models.Sport
	SchoolYear    models.SchoolYear
	Games         []models.ScheduledGame
	Results       []models.GameResult
	SkippedTables int
}

// Parser extracts scheduled games and results from schedule pages
type Parser struct {
	containerSelector string
	classifier        Classifier
	loc               *time.Location
}

// NewParser creates a parser. A nil classifier uses HeaderClassifier.
func NewParser(containerSelector string, classifier Classifier, loc *time.Location) *Parser {
	if classifier == nil {
		classifier = HeaderClassifier{}
	}
	if loc == nil {
		loc = time.Local
	}

	return &Parser{
		containerSelector: containerSelector,
		classifier:        classifier,
		loc:               loc,
	}
}

// Parse reads one schedule page
func (p *Parser) Parse(sport models.Sport, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s page: %w", sport.Name, err)
	}

	container := doc.Find(p.containerSelector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("%s: %w (selector %q)", sport.Name, ErrScheduleNotFound, p.containerSelector)
	}

	year, err := findSchoolYear(doc, container)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sport.Name, err)
	}

	page := &Page{Sport: sport, SchoolYear: year}

	for _, table := range p.tables(container) {
		switch table.Kind {
		case TableResults:
			page.Results = append(page.Results, ParseResults(sport.Name, table.Rows, year, p.loc)...)
		case TableSchedule:
			page.Games = append(page.Games, ParseSchedule(sport.Name, table.Rows, year, p.loc)...)
		default:
			page.SkippedTables++
		}
	}

	log.Debug().
		Str("sport", sport.Name).
		Str("school_year", year.String()).
		Int("games", len(page.Games)).
		Int("results", len(page.Results)).
		Int("skipped_tables", page.SkippedTables).
		Msg("Schedule page parsed")

	return page, nil
}

// tables classifies every table in the container by its first row
func (p *Parser) tables(container *goquery.Selection) []Table {
	var tables []Table

	container.Find("table").Each(func(_ int, t *goquery.Selection) {
		rows := t.Find("tr")
		if rows.Length() == 0 {
			return
		}

		header := rows.First()
		headerCells := header.Find("th")
		if headerCells.Length() == 0 {
			headerCells = header.Find("td")
		}

		table := Table{Kind: p.classifier.Classify(cellTexts(headerCells))}
		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			table.Rows = append(table.Rows, cellTexts(row.Find("th, td")))
		})

		tables = append(tables, table)
	})

	return tables
}

func findSchoolYear(doc *goquery.Document, container *goquery.Selection) (models.SchoolYear, error) {
	candidates := []*goquery.Selection{
		container.Find(schoolYearSelectors),
		doc.Find(schoolYearSelectors),
		doc.Find("title"),
	}

	for _, sel := range candidates {
		var (
			year  models.SchoolYear
			found bool
		)
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			parsed, err := models.ParseSchoolYear(s.Text())
			if err != nil {
				return true
			}
			year, found = parsed, true
			return false
		})
		if found {
			return year, nil
		}
	}

	return models.SchoolYear{}, ErrSchoolYearNotFound
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		texts = append(texts, cleanText(c.Text()))
	})
	return texts
}
