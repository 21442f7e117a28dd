package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// GitClient defines the go-git operations the clone fallback needs
type GitClient interface {
	PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error)
}

// RealGitClient implements GitClient using go-git
type RealGitClient struct{}

// PlainCloneContext calls git.PlainCloneContext
func (RealGitClient) PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error) {
	return git.PlainCloneContext(ctx, path, isBare, o)
}

// CloneFetcher performs a shallow clone when no archive could be used
type CloneFetcher struct {
	baseURL string
	client  GitClient
	logger  *utils.Logger
}

// CloneFetcherOptions contains options for creating a CloneFetcher
type CloneFetcherOptions struct {
	BaseURL string
	Client  GitClient
	Logger  *utils.Logger
}

// NewCloneFetcher creates a new CloneFetcher
func NewCloneFetcher(opts CloneFetcherOptions) *CloneFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://github.com"
	}
	if opts.Client == nil {
		opts.Client = RealGitClient{}
	}
	return &CloneFetcher{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  opts.Client,
		logger:  opts.Logger,
	}
}

func (f *CloneFetcher) Name() string {
	return "clone"
}

// Fetch clones the repository into {workDir}/{repo}-clone.
// An empty branch clones the remote HEAD.
func (f *CloneFetcher) Fetch(ctx context.Context, info *RepoInfo, branch, workDir string) (*FetchResult, error) {
	cloneURL := fmt.Sprintf("%s/%s/%s.git", f.baseURL, info.Owner, info.Repo)
	destDir := filepath.Join(workDir, info.Repo+"-clone")

	if f.logger != nil {
		f.logger.Info().Str("url", cloneURL).Msg("Cloning repository")
	}

	cloneOpts := &git.CloneOptions{
		URL:   cloneURL,
		Depth: 1,
	}
	if branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		cloneOpts.SingleBranch = true
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: token,
		}
	}

	repo, err := f.client.PlainCloneContext(ctx, destDir, false, cloneOpts)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", cloneURL, err)
	}

	detectedBranch := branch
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		detectedBranch = head.Name().Short()
	}
	if detectedBranch == "" {
		detectedBranch = "main"
	}

	return &FetchResult{
		LocalPath: destDir,
		Branch:    detectedBranch,
		Method:    "clone",
	}, nil
}
