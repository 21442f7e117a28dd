package archive

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
)

// Parser validates repository URLs for a single host
type Parser struct {
	host    string
	pattern *regexp.Regexp
}

// NewParser creates a parser accepting https://<host>/<owner>/<repo>[.git][/]
func NewParser(host string) *Parser {
	if host == "" {
		host = "github.com"
	}
	return &Parser{
		host: host,
		pattern: regexp.MustCompile(`^https://` + regexp.QuoteMeta(host) +
			`/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`),
	}
}

// Host returns the accepted host
func (p *Parser) Host() string {
	return p.host
}

// IsRemote reports whether input should be fetched rather than read from disk
func (p *Parser) IsRemote(input string) bool {
	return strings.HasPrefix(input, "https://"+p.host+"/")
}

// ParseURL extracts owner and repo from a repository URL
func (p *Parser) ParseURL(rawURL string) (*RepoInfo, error) {
	matches := p.pattern.FindStringSubmatch(rawURL)
	if len(matches) != 3 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSource, rawURL)
	}

	owner, repo := matches[1], matches[2]
	if isDotSegment(owner) || isDotSegment(repo) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSource, rawURL)
	}

	return &RepoInfo{
		Host:  p.host,
		Owner: owner,
		Repo:  repo,
		URL:   rawURL,
	}, nil
}

func isDotSegment(s string) bool {
	return s == "." || s == ".."
}
