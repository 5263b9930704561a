package service

import (
	"regexp"
	"strconv"
	"strings"

	"orderline_backend/internal/menu/transport"
	"orderline_backend/platform/apperr"
)

// Heuristic menu extractor. Scans plain page text for lines containing prices
// and groups them into categories based on heading-like patterns. It has no
// access to DOM structure, so it is best-effort by design: the contract is
// "produces the obviously-priced items", not a formal grammar.

var (
	// $12.99, $ 12, $1250
	priceRegexp = regexp.MustCompile(`\$\s?(\d{1,4}(?:\.\d{1,2})?)`)
	// $12 - $15 or $12-$15; the low bound is used.
	rangePriceRegexp = regexp.MustCompile(`\$\s?(\d{1,4}(?:\.\d{1,2})?)\s*[-–—]\s*\$?\s?(\d{1,4}(?:\.\d{1,2})?)`)

	categoryWordsRegexp = regexp.MustCompile(`(?i)\b(appetizer|starter|entre|entree|main|salad|soup|sandwich|burger|pizza|pasta|seafood|dessert|drink|beverage|side|breakfast|lunch|dinner|special|combo|kid|plate|taco|sushi|roll|noodle|rice|curry|grill|fried|baked|wings|wrap|bowl|platter|brunch|happy hour|shareables?|small plates?)\b`)

	// Financial lines that look like priced items but are not food.
	nonItemRegexp = regexp.MustCompile(`(?i)\b(tax|tip|gratuity|total|subtotal|delivery|fee|service)\b`)

	leadingBulletRegexp  = regexp.MustCompile(`^[\d.)\-•·*#]+\s*`)
	trailingSepRegexp    = regexp.MustCompile(`[.\-–—:,•·]+$`)
	trailingHeaderRegexp = regexp.MustCompile(`[:\-–—]+$`)
	multiSpaceRegexp     = regexp.MustCompile(`\s{2,}`)
)

const (
	headingMinLen      = 2
	headingMaxLen      = 60
	allCapsMinLen      = 3
	allCapsMaxLen      = 40
	lookaheadLines     = 5
	lookaheadMinPrices = 2
	descriptionMinLen  = 10
	descriptionMaxLen  = 200
	descriptionTrimLen = 100
)

// ExtractMenu parses normalized, whitespace-collapsed page text into a
// structured menu. Returns a not-found error when no priced items could be
// identified.
func ExtractMenu(text string) (transport.ExtractedMenu, error) {
	lines := splitMenuLines(text)

	categories := make([]transport.ExtractedCategory, 0)
	current := transport.ExtractedCategory{Name: "Menu", Items: []transport.ExtractedItem{}}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if looksLikeCategory(line, i, lines) {
			if len(current.Items) > 0 {
				categories = append(categories, current)
			}
			current = transport.ExtractedCategory{
				Name:  toTitleCase(strings.TrimSpace(trailingHeaderRegexp.ReplaceAllString(line, ""))),
				Items: []transport.ExtractedItem{},
			}
			continue
		}

		priceMatch := priceRegexp.FindStringSubmatchIndex(line)
		if priceMatch == nil {
			continue
		}

		price := parsePrice(line[priceMatch[2]:priceMatch[3]])
		if rangeMatch := rangePriceRegexp.FindStringSubmatch(line); rangeMatch != nil {
			price = parsePrice(rangeMatch[1])
		}

		name := strings.TrimSpace(line[:priceMatch[0]])
		name = strings.TrimSpace(trailingSepRegexp.ReplaceAllString(name, ""))

		if len(name) < 2 || price <= 0 {
			continue
		}
		if nonItemRegexp.MatchString(name) {
			continue
		}

		description := ""
		if i+1 < len(lines) {
			next := lines[i+1]
			if !priceRegexp.MatchString(next) &&
				len(next) > descriptionMinLen &&
				len(next) < descriptionMaxLen &&
				!looksLikeCategory(next, i+1, lines) {
				description = truncate(next, descriptionTrimLen)
				i++
			}
		}

		current.Items = append(current.Items, transport.ExtractedItem{
			Name:        cleanItemName(name),
			Description: description,
			Price:       price,
		})
	}

	if len(current.Items) > 0 {
		categories = append(categories, current)
	}

	categories = dedupCategories(categories)
	if len(categories) == 0 {
		return transport.ExtractedMenu{}, apperr.NotFound("could not identify any menu items from the website content")
	}

	return transport.ExtractedMenu{Categories: categories}, nil
}

func splitMenuLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = multiSpaceRegexp.ReplaceAllString(normalized, "\n")

	raw := strings.Split(normalized, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// looksLikeCategory classifies a line as a category heading. Classification
// needs bounded lookahead (a heading is often only recognizable because the
// lines after it carry prices), so it takes the full line slice and index.
func looksLikeCategory(line string, idx int, lines []string) bool {
	if priceRegexp.MatchString(line) {
		return false
	}
	if len(line) > headingMaxLen || len(line) < headingMinLen {
		return false
	}

	if categoryWordsRegexp.MatchString(line) {
		return true
	}

	// Short ALL CAPS lines are a common menu heading convention.
	if line == strings.ToUpper(line) && len(line) >= allCapsMinLen && len(line) <= allCapsMaxLen {
		return true
	}

	priceCount := 0
	for j := idx + 1; j < len(lines) && j <= idx+lookaheadLines; j++ {
		if priceRegexp.MatchString(lines[j]) {
			priceCount++
		}
	}
	return priceCount >= lookaheadMinPrices
}

func parsePrice(value string) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func cleanItemName(name string) string {
	name = leadingBulletRegexp.ReplaceAllString(name, "")
	name = trailingSepRegexp.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == strings.ToUpper(name) && len(name) > 3 {
		name = toTitleCase(name)
	}
	return name
}

func toTitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range strings.ToLower(s) {
		if upperNext && r != ' ' {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		if r == ' ' {
			upperNext = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// dedupCategories removes duplicate item names within each category
// (first occurrence wins) and drops categories left empty.
func dedupCategories(categories []transport.ExtractedCategory) []transport.ExtractedCategory {
	result := make([]transport.ExtractedCategory, 0, len(categories))
	for _, cat := range categories {
		seen := make(map[string]struct{}, len(cat.Items))
		items := make([]transport.ExtractedItem, 0, len(cat.Items))
		for _, item := range cat.Items {
			key := strings.ToLower(item.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, item)
		}
		if len(items) == 0 {
			continue
		}
		cat.Items = items
		result = append(result, cat)
	}
	return result
}
