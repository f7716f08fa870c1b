package schedule

import (
	"strings"

	"github.com/heartmarshall/localboost-backend/internal/domain"
)

// RenderQuestion substitutes location placeholders in a question template.
//
// {location} expands to the full display name ("Neighborhood, City, State"
// or "City, State"), {city} and {state} to the bare fields. Placeholders are
// case-sensitive; text without placeholders passes through unchanged.
func RenderQuestion(template string, loc *domain.Location) string {
	out := strings.ReplaceAll(template, "{location}", loc.DisplayName())
	out = strings.ReplaceAll(out, "{city}", loc.City)
	out = strings.ReplaceAll(out, "{state}", loc.State)
	return out
}
