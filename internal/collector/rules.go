package collector

import "strings"

// DefaultIgnorePatterns are matched as substrings of every path segment
var DefaultIgnorePatterns = []string{
	"node_modules", "bower_components", "dist", "build", ".next", ".nuxt",
	"coverage", "vendor", "tmp", "temp", "logs", "log", ".git", ".svn",
	".DS_Store", "Thumbs.db", "package-lock.json", "yarn.lock", ".vscode",
	".idea", "__pycache__", ".pytest_cache", ".mypy_cache", "target", "bin",
	"obj", ".gradle", ".maven",
}

// SourceExtensions lists extensions treated as readable source
var SourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".vue": true, ".svelte": true,
	".py": true, ".rb": true, ".php": true, ".java": true, ".c": true, ".cpp": true,
	".h": true, ".hpp": true, ".cs": true, ".go": true, ".rs": true, ".swift": true,
	".kt": true, ".scala": true, ".html": true, ".htm": true, ".css": true, ".scss": true,
	".sass": true, ".less": true, ".json": true, ".xml": true, ".yaml": true, ".yml": true,
	".toml": true, ".sql": true, ".sh": true, ".bash": true, ".zsh": true, ".fish": true,
	".r": true, ".m": true, ".pl": true, ".lua": true, ".dart": true, ".elm": true,
	".clj": true, ".cljs": true, ".hs": true, ".ml": true, ".fs": true, ".ex": true,
	".exs": true, ".jl": true, ".nim": true, ".cr": true, ".zig": true, ".odin": true,
	".v": true, ".dockerfile": true, ".makefile": true, ".cmake": true, ".gradle": true,
	".config": true, ".conf": true, ".ini": true, ".env": true,
}

// BinaryExtensions always exclude a file, whatever its name
var BinaryExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true, ".lib": true,
	".o": true, ".obj": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".svg": true, ".ico": true, ".mp3": true, ".mp4": true, ".avi": true,
	".mov": true, ".wav": true, ".flac": true, ".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true, ".zip": true, ".tar": true,
	".gz": true, ".rar": true, ".7z": true, ".dmg": true, ".iso": true,
}

// ImportantPrefixes include extensionless project files by lower-cased name prefix
var ImportantPrefixes = []string{
	"dockerfile", "makefile", "rakefile", "gemfile", "procfile",
	"readme", "license", "changelog", "contributing", "authors",
}

// Extension returns the lower-cased suffix from the last "." of name, or ""
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx == -1 {
		return ""
	}
	return strings.ToLower(name[idx:])
}

// IsIgnoredSegment reports whether a single path segment excludes its subtree
func IsIgnoredSegment(segment string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(segment, p) {
			return true
		}
	}
	return strings.HasPrefix(segment, ".") && segment != "." && segment != ".."
}

// IsIgnored reports whether any segment of a slash-separated relative path is ignored
func IsIgnored(relPath string, patterns []string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if segment == "" {
			continue
		}
		if IsIgnoredSegment(segment, patterns) {
			return true
		}
	}
	return false
}

// IsSourceFile applies the extension and important-name rules to a file name
func IsSourceFile(name string) bool {
	ext := Extension(name)
	if BinaryExtensions[ext] {
		return false
	}
	if SourceExtensions[ext] {
		return true
	}
	lower := strings.ToLower(name)
	for _, prefix := range ImportantPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
