package prompt

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/longkey1/mdbuddy/internal/buddy"
)

// DocumentKey is the placeholder replaced with the document name.
const DocumentKey = "document"

// SystemPrompt is a rendered prompt template
type SystemPrompt struct {
	Text     string
	Model    *string
	Notation *buddy.Notation
}

// FindPrompt returns the path of the named prompt in promptDirs.
// Later directories take precedence over earlier ones.
func FindPrompt(promptName string, promptDirs []string) (string, error) {
	promptFile := promptName
	if !strings.HasSuffix(promptFile, ".toml") {
		promptFile = promptFile + ".toml"
	}

	var promptPath string
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, promptFile)
		if _, err := os.Stat(candidatePath); err == nil {
			promptPath = candidatePath
		}
	}

	if promptPath == "" {
		return "", fmt.Errorf("prompt file '%s' not found in any of the prompt directories: %v", promptFile, promptDirs)
	}
	return promptPath, nil
}

// Render loads the named prompt and substitutes {{document}} and the
// key:value args into its system text.
func Render(promptName string, promptDirs []string, documentName string, args []string) (*SystemPrompt, error) {
	promptPath, err := FindPrompt(promptName, promptDirs)
	if err != nil {
		return nil, err
	}

	promptTemplate, err := LoadPrompt(promptPath)
	if err != nil {
		return nil, fmt.Errorf("error loading prompt file: %w", err)
	}

	argMap, err := ParseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("error processing arguments: %w", err)
	}

	replacements := make(map[string]string)
	replacements[DocumentKey] = documentName
	for key, value := range argMap {
		replacements[key] = value
	}

	systemPrompt := promptTemplate.System
	for key, value := range replacements {
		placeholder := fmt.Sprintf("{{%s}}", key)
		systemPrompt = strings.ReplaceAll(systemPrompt, placeholder, value)
	}

	result := &SystemPrompt{Text: systemPrompt, Model: promptTemplate.Model}

	if promptTemplate.Model != nil {
		if _, _, err := buddy.ParseModelString(*promptTemplate.Model); err != nil {
			return nil, fmt.Errorf("invalid model format in prompt template: %w", err)
		}
	}
	if promptTemplate.Notation != nil {
		notation, err := buddy.ParseNotation(*promptTemplate.Notation)
		if err != nil {
			return nil, fmt.Errorf("invalid notation in prompt template: %w", err)
		}
		result.Notation = &notation
	}

	return result, nil
}

// ParseArgs processes key:value arguments and returns a map of key-value pairs
func ParseArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == DocumentKey {
			return nil, fmt.Errorf("'%s' is a reserved keyword and cannot be used as a key", DocumentKey)
		}
		result[key] = value
	}
	return result, nil
}

// ListPrompts returns the prompt names found under promptDirs mapped to the
// directory each was first found in. Missing directories are skipped.
func ListPrompts(promptDirs []string) (map[string]string, []string, error) {
	promptMap := make(map[string]string)
	var names []string

	for _, promptDir := range promptDirs {
		if _, err := os.Stat(promptDir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(promptDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".toml") {
				return nil
			}

			relPath, err := filepath.Rel(promptDir, path)
			if err != nil {
				return nil
			}
			promptName := filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))

			if _, exists := promptMap[promptName]; !exists {
				promptMap[promptName] = promptDir
				names = append(names, promptName)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error walking prompt directory %s: %w", promptDir, err)
		}
	}

	sort.Strings(names)
	return promptMap, names, nil
}
