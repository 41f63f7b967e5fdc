package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
)

// ScoreExtractor reads a final score out of a match result page.
// The page markup is unversioned, so implementations are expected to be
// swapped when it changes; callers only ever see this interface.
type ScoreExtractor interface {
	Extract(htmlContent string) (home, away int, ok bool)
}

const (
	DefaultScoreContainer = ".match__result"
	DefaultScoreCell      = "th.bold"
	DefaultScorePattern   = `<th[^>]*class="[^"]*\bbold\b[^"]*"[^>]*>\s*(\d+)\s*</th>`
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// SelectorExtractor finds score cells with CSS selectors.
// The first two numeric cells inside the container, in document order,
// are the home and away score.
type SelectorExtractor struct {
	container string
	cell      string
}

// NewSelectorExtractor creates a selector based extractor; empty arguments use the defaults
func NewSelectorExtractor(container, cell string) *SelectorExtractor {
	if container == "" {
		container = DefaultScoreContainer
	}
	if cell == "" {
		cell = DefaultScoreCell
	}
	return &SelectorExtractor{container: container, cell: cell}
}

// Extract implements ScoreExtractor
func (e *SelectorExtractor) Extract(htmlContent string) (int, int, bool) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return 0, 0, false
	}
	doc := goquery.NewDocumentFromNode(root)

	var scores []int
	doc.Find(e.container).Find(e.cell).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !digitsOnly.MatchString(text) {
			return true
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return true
		}
		scores = append(scores, n)
		return len(scores) < 2
	})

	if len(scores) < 2 {
		return 0, 0, false
	}
	return scores[0], scores[1], true
}

// PatternExtractor matches raw markup with a regular expression whose first
// capture group is the score. Looser than SelectorExtractor: no container scope.
type PatternExtractor struct {
	pattern *regexp.Regexp
}

// NewPatternExtractor compiles expr; an empty expr uses DefaultScorePattern
func NewPatternExtractor(expr string) (*PatternExtractor, error) {
	if expr == "" {
		expr = DefaultScorePattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(err, "compile score pattern")
	}
	if re.NumSubexp() < 1 {
		return nil, errors.Newf("score pattern needs a capture group: %s", expr)
	}
	return &PatternExtractor{pattern: re}, nil
}

// Extract implements ScoreExtractor
func (e *PatternExtractor) Extract(htmlContent string) (int, int, bool) {
	matches := e.pattern.FindAllStringSubmatch(htmlContent, 2)
	if len(matches) < 2 {
		return 0, 0, false
	}

	home, err := strconv.Atoi(matches[0][1])
	if err != nil {
		return 0, 0, false
	}
	away, err := strconv.Atoi(matches[1][1])
	if err != nil {
		return 0, 0, false
	}
	return home, away, true
}

// NewScoreExtractor picks a strategy by name ("selector" or "pattern")
func NewScoreExtractor(kind, container, cell string) (ScoreExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "selector":
		return NewSelectorExtractor(container, cell), nil
	case "pattern":
		p, err := NewPatternExtractor("")
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.Newf("unknown score extractor %q (want selector or pattern)", kind)
	}
}
