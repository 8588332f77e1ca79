package walker

import (
	"path/filepath"
	"strings"
)

// languageByExt maps lower-cased file extensions to language names.
var languageByExt = map[string]string{
	".go":     "Go",
	".py":     "Python",
	".pyi":    "Python",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".mts":    "TypeScript",
	".cts":    "TypeScript",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".mjs":    "JavaScript",
	".cjs":    "JavaScript",
	".java":   "Java",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
	".scala":  "Scala",
	".groovy": "Groovy",
	".rs":     "Rust",
	".c":      "C",
	".h":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".cxx":    "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".rb":     "Ruby",
	".php":    "PHP",
	".swift":  "Swift",
	".dart":   "Dart",
	".ex":     "Elixir",
	".exs":    "Elixir",
	".erl":    "Erlang",
	".hs":     "Haskell",
	".lua":    "Lua",
	".r":      "R",
	".pl":     "Perl",
	".pm":     "Perl",
	".sh":     "Shell",
	".bash":   "Shell",
	".zsh":    "Shell",
	".vue":    "Vue",
	".svelte": "Svelte",
	".sql":    "SQL",
	".html":   "HTML",
	".htm":    "HTML",
	".css":    "CSS",
	".scss":   "CSS",
	".sass":   "CSS",
	".less":   "CSS",
	".json":   "JSON",
	".yaml":   "YAML",
	".yml":    "YAML",
	".toml":   "TOML",
	".xml":    "XML",
	".md":     "Markdown",
	".proto":  "Protobuf",
	".tf":     "Terraform",
}

// languageByName maps exact file names to language names.
var languageByName = map[string]string{
	"Dockerfile":  "Dockerfile",
	"Makefile":    "Makefile",
	"Jenkinsfile": "Groovy",
	"Gemfile":     "Ruby",
	"Rakefile":    "Ruby",
}

// nonProgramming are languages that describe data, markup or styling and do
// not count as a repository's programming language.
var nonProgramming = map[string]bool{
	"JSON":       true,
	"YAML":       true,
	"TOML":       true,
	"XML":        true,
	"Markdown":   true,
	"HTML":       true,
	"CSS":        true,
	"Dockerfile": true,
	"Makefile":   true,
	"Protobuf":   true,
	"unknown":    true,
}

// DetectLanguage returns the language for a file name based on its exact
// name or extension. Returns "unknown" for unrecognized files.
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)
	if lang, ok := languageByName[base]; ok {
		return lang
	}
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(base))]; ok {
		return lang
	}
	return "unknown"
}

// IsProgrammingLanguage reports whether lang names a programming language
// rather than a data or markup format.
func IsProgrammingLanguage(lang string) bool {
	return lang != "" && !nonProgramming[lang]
}
