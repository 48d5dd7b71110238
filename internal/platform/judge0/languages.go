package judge0

import (
	"fmt"
	"strings"

	"codelab/internal/common"
)

// Fixed language table. Ids are the judge service's own identifiers.
var languageIDs = map[string]int{
	"C++":        54,
	"GO":         60,
	"JAVA":       62,
	"JAVASCRIPT": 63,
	"PYTHON":     71,
}

var languageNames = func() map[int]string {
	names := make(map[int]string, len(languageIDs))
	for name, id := range languageIDs {
		names[id] = name
	}
	return names
}()

// LanguageID resolves a language name to the judge service id.
// The lookup is case-insensitive on the name.
func LanguageID(name string) (int, error) {
	id, ok := languageIDs[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("language %q is not supported: %w", name, common.ErrUnsupportedLanguage)
	}
	return id, nil
}

// LanguageName resolves a judge service id back to the language name.
func LanguageName(id int) (string, error) {
	name, ok := languageNames[id]
	if !ok {
		return "", fmt.Errorf("language id %d is not supported: %w", id, common.ErrUnsupportedLanguage)
	}
	return name, nil
}

// SupportedLanguages lists the language names the judge table knows about.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageIDs))
	for name := range languageIDs {
		names = append(names, name)
	}
	return names
}
