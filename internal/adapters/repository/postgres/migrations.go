package postgres

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// MigrationFiles lists the migration files in dir to run, in order.
// name is a migration name such as "create_messages", or "all". Down
// migrations run in reverse when "all" is requested.
func MigrationFiles(dir, name, direction string) ([]string, error) {
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("unknown migration direction %q", direction)
	}
	suffix := "." + direction + ".sql"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if name == "all" {
		if direction == "down" {
			sort.Sort(sort.Reverse(sort.StringSlice(names)))
		}
		return names, nil
	}

	pattern := regexp.MustCompile(`^.*` + regexp.QuoteMeta(name) + regexp.QuoteMeta(suffix) + `$`)
	for _, n := range names {
		if pattern.MatchString(n) {
			return []string{n}, nil
		}
	}
	return nil, fmt.Errorf("migration %q not found", name)
}
