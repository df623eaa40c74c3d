package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentWithPrefix returns the variables starting with prefix, with the prefix stripped
func EnvironmentWithPrefix(env map[string]string, prefix string) map[string]string {
	filtered := map[string]string{}

	for key, value := range env {
		if name, found := strings.CutPrefix(key, prefix); found && name != "" {
			filtered[name] = value
		}
	}

	return filtered
}
