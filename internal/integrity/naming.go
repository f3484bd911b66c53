package integrity

import "github.com/specialistvlad/lookmlaudit/internal/model"

// NamingViolations returns the unique entity names in rows that are not
// snake_case, in row order. Unresolved entities are skipped: their name is
// already reported as missing.
func NamingViolations(rows []model.Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if !r.Resolved || IsSnakeCase(r.EntityName) {
			continue
		}
		if _, ok := seen[r.EntityName]; ok {
			continue
		}
		seen[r.EntityName] = struct{}{}
		names = append(names, r.EntityName)
	}
	return names
}
