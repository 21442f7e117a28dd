package app

import "github.com/quantmind-br/dirscribe-go/internal/archive"

// SourceType represents where an input is read from
type SourceType string

const (
	SourceRemote SourceType = "remote"
	SourceLocal  SourceType = "local"
)

// DetectSource classifies input as a remote repository URL for host, or a
// local directory. Anything that is not an https URL on host is local.
func DetectSource(input, host string) SourceType {
	if archive.NewParser(host).IsRemote(input) {
		return SourceRemote
	}
	return SourceLocal
}
