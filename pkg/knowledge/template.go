package knowledge

import "strings"

// Tokens every category template carries.
const (
	DataPlaceholder  = "{CSV_DATA_GOES_HERE}"
	QueryPlaceholder = "{USER_QUERY_GOES_HERE}"
)

// MissingPlaceholders returns the tokens template does not contain.
func MissingPlaceholders(template string) []string {
	var missing []string
	for _, token := range []string{DataPlaceholder, QueryPlaceholder} {
		if !strings.Contains(template, token) {
			missing = append(missing, token)
		}
	}
	return missing
}
