package router

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Accept matches requests whose Accept header admits mediaType. A missing header
// admits everything. The most specific range covering mediaType decides, so
// "application/json;q=0, */*" refuses JSON.
func Accept(mediaType string) Predicate {
	want := strings.ToLower(mediaType)
	wantType, _, _ := strings.Cut(want, "/")

	return func(header HeaderFunc) bool {
		accept := strings.TrimSpace(header(fiber.HeaderAccept))
		if accept == "" {
			return true
		}
		best, bestQ := 0, 0.0
		for _, entry := range strings.Split(accept, ",") {
			rangeType, q := parseMediaRange(entry)
			specificity := 0
			switch rangeType {
			case want:
				specificity = 3
			case wantType + "/*":
				specificity = 2
			case "*/*":
				specificity = 1
			}
			switch {
			case specificity > best:
				best, bestQ = specificity, q
			case specificity == best && q > bestQ:
				bestQ = q
			}
		}
		return best > 0 && bestQ > 0
	}
}

func parseMediaRange(entry string) (string, float64) {
	parts := strings.Split(entry, ";")
	mediaRange := strings.ToLower(strings.TrimSpace(parts[0]))
	q := 1.0
	for _, param := range parts[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || strings.TrimSpace(key) != "q" {
			continue
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			q = parsed
		}
	}
	return mediaRange, q
}
