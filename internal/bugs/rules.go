package bugs

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultKeywords marks a commit as bug-related when its message contains
// any of them (case-insensitive substring). Callers may override the set.
var DefaultKeywords = []string{
	"fix", "bug", "hotfix", "bugfix", "issue", "crash", "error", "nre", "null",
}

// CategoryRule is one (pattern, category) pair. Rules are evaluated in
// order, independently and non-exclusively: a commit may land in zero,
// one, or many categories. Adding a category is a data change, either
// here or in an external rules file.
type CategoryRule struct {
	Category string
	Pattern  *regexp.Regexp
}

// GeneralCategory is the fallback for bug commits matching no rule.
const GeneralCategory = "General"

// DefaultRules is the ordered built-in category rule set.
var DefaultRules = []CategoryRule{
	{Category: "NullReference", Pattern: regexp.MustCompile(`(?i)null|\bnre\b|nil pointer|\bnpe\b`)},
	{Category: "Serialization", Pattern: regexp.MustCompile(`(?i)serializ|deserializ|\bjson\b|\bxml\b|marshal`)},
	{Category: "Configuration", Pattern: regexp.MustCompile(`(?i)config|\bsetting|env var|environment variable`)},
	{Category: "Authentication", Pattern: regexp.MustCompile(`(?i)auth|login|token|cookie|session|permission`)},
	{Category: "Payment", Pattern: regexp.MustCompile(`(?i)payment|billing|invoice|checkout|refund`)},
	{Category: "Logging", Pattern: regexp.MustCompile(`(?i)\blog(?:ger|ging|s)?\b|telemetry|trace`)},
	{Category: "Test", Pattern: regexp.MustCompile(`(?i)\btest(?:s|ing)?\b|flaky|\bci\b`)},
}

// rulesFile is the on-disk yaml shape for external rule sets.
type rulesFile struct {
	Rules []struct {
		Category string `yaml:"category"`
		Pattern  string `yaml:"pattern"`
	} `yaml:"rules"`
}

// LoadRules reads an ordered category rule set from a yaml file.
// Patterns are compiled case-insensitively unless they set their own flags.
func LoadRules(path string) ([]CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}

	rules := make([]CategoryRule, 0, len(f.Rules))
	for i, r := range f.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no category", path, i)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules file %s: rule %d (%s): %w", path, i, r.Category, err)
		}
		rules = append(rules, CategoryRule{Category: r.Category, Pattern: re})
	}
	return rules, nil
}
