package archive

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// RepoFetcher acquires one candidate of a repository into a work directory
type RepoFetcher interface {
	Fetch(ctx context.Context, info *RepoInfo, branch, workDir string) (*FetchResult, error)
	Name() string
}

// Options configures a Fetcher
type Options struct {
	Host string
	// BaseURL overrides https://{Host} for archive and clone requests
	BaseURL       string
	Branches      []string
	HTTPClient    *http.Client
	Timeout       time.Duration
	MaxRetries    int
	Retrier       *Retrier
	Cache         domain.Cache
	CacheTTL      time.Duration
	CloneFallback bool
	GitClient     GitClient
	Logger        *utils.Logger
}

type candidate struct {
	fetcher RepoFetcher
	branch  string
}

func (c candidate) label() string {
	if c.branch == "" {
		return c.fetcher.Name()
	}
	return c.branch
}

// Fetcher turns a repository URL into an extracted local directory
type Fetcher struct {
	parser     *Parser
	candidates []candidate
	logger     *utils.Logger
}

var _ domain.SourceFetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher trying each branch archive in order,
// followed by a clone when CloneFallback is set
func NewFetcher(opts Options) *Fetcher {
	parser := NewParser(opts.Host)

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://" + parser.Host()
	}
	branches := opts.Branches
	if len(branches) == 0 {
		branches = []string{"main", "master"}
	}
	client := opts.HTTPClient
	if client == nil {
		client = createDefaultHTTPClient(opts.Timeout)
	}
	retrier := opts.Retrier
	if retrier == nil {
		retrier = NewRetrier(RetrierOptions{MaxRetries: opts.MaxRetries})
	}

	zipFetcher := NewZipFetcher(ZipFetcherOptions{
		BaseURL:    baseURL,
		HTTPClient: client,
		Retrier:    retrier,
		Cache:      opts.Cache,
		CacheTTL:   opts.CacheTTL,
		Logger:     opts.Logger,
	})

	candidates := make([]candidate, 0, len(branches)+1)
	for _, branch := range branches {
		candidates = append(candidates, candidate{fetcher: zipFetcher, branch: branch})
	}
	if opts.CloneFallback {
		candidates = append(candidates, candidate{
			fetcher: NewCloneFetcher(CloneFetcherOptions{
				BaseURL: baseURL,
				Client:  opts.GitClient,
				Logger:  opts.Logger,
			}),
		})
	}

	return &Fetcher{
		parser:     parser,
		candidates: candidates,
		logger:     opts.Logger,
	}
}

// Fetch validates repoURL, then tries every candidate in order inside workDir.
// The first extracted root wins. When all fail the returned
// *domain.SourceUnavailableError carries the last attempt's branch and error.
func (f *Fetcher) Fetch(ctx context.Context, repoURL, workDir string) (string, error) {
	info, err := f.parser.ParseURL(repoURL)
	if err != nil {
		return "", err
	}

	var lastErr error
	var lastBranch string

	for _, c := range f.candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		result, err := c.fetcher.Fetch(ctx, info, c.branch, workDir)
		if err == nil {
			if f.logger != nil {
				f.logger.Info().
					Str("method", result.Method).
					Str("branch", result.Branch).
					Msg("Repository acquired successfully")
			}
			return result.LocalPath, nil
		}

		if errors.Is(err, domain.ErrUnsafeArchiveEntry) {
			return "", err
		}

		if f.logger != nil {
			f.logger.Debug().Err(err).Str("candidate", c.label()).Msg("Candidate failed")
		}
		lastErr, lastBranch = err, c.label()
	}

	return "", &domain.SourceUnavailableError{
		URL:    repoURL,
		Branch: lastBranch,
		Err:    lastErr,
	}
}
