package archive

// RepoInfo contains parsed repository information
type RepoInfo struct {
	Host  string
	Owner string
	Repo  string
	URL   string // Original URL
}

// FetchResult contains the result of a single candidate attempt
type FetchResult struct {
	LocalPath string // Path to the extracted/cloned root
	Branch    string // Branch that produced it
	Method    string // "archive" or "clone"
}
