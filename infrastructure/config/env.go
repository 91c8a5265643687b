package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sansadwatch/billflow/domain/config"
)

// envPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// expandEnv expands ${VAR} references in a configuration document.
// Supported forms:
//   - ${VAR}            expands to the value of VAR, empty if unset
//   - ${VAR:-default}   expands to VAR or "default" if unset or empty
//   - ${VAR:?message}   fails with message if VAR is unset or empty
//
// In strict mode, a plain ${VAR} reference to an unset variable also fails.
func expandEnv(input string, strict bool) (string, error) {
	var missing []string

	result := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]

		name, modifier, _ := strings.Cut(inner, ":")
		value, exists := os.LookupEnv(name)

		switch {
		case strings.HasPrefix(modifier, "-"):
			if !exists || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !exists || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, modifier[1:]))
				return match
			}
		default:
			if !exists {
				if strict {
					missing = append(missing, name)
				}
				return ""
			}
		}

		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", config.ErrMissingEnvVar, strings.Join(missing, "; "))
	}

	return result, nil
}
