package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/quantmind-br/dirscribe-go/internal/cache"
	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// ZipFetcher downloads a branch archive and extracts it into the work directory
type ZipFetcher struct {
	baseURL    string
	httpClient *http.Client
	retrier    *Retrier
	cache      domain.Cache
	cacheTTL   time.Duration
	logger     *utils.Logger
}

// ZipFetcherOptions contains options for creating a ZipFetcher
type ZipFetcherOptions struct {
	// BaseURL is the scheme and host archives are requested from, e.g. https://github.com
	BaseURL    string
	HTTPClient *http.Client
	Retrier    *Retrier
	Cache      domain.Cache
	CacheTTL   time.Duration
	Logger     *utils.Logger
}

// NewZipFetcher creates a new ZipFetcher
func NewZipFetcher(opts ZipFetcherOptions) *ZipFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://github.com"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = createDefaultHTTPClient(0)
	}
	if opts.Retrier == nil {
		opts.Retrier = NewRetrier(RetrierOptions{MaxRetries: 0})
	}
	return &ZipFetcher{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		retrier:    opts.Retrier,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     opts.Logger,
	}
}

func (f *ZipFetcher) Name() string {
	return "archive"
}

// Fetch downloads {repo}-{branch}.zip into workDir, extracts it there and
// returns the {repo}-{branch} directory the archive is expected to contain.
// The zip file is removed once extraction succeeds.
func (f *ZipFetcher) Fetch(ctx context.Context, info *RepoInfo, branch, workDir string) (*FetchResult, error) {
	archiveURL := f.BuildArchiveURL(info, branch)
	rootName := info.Repo + "-" + strings.ReplaceAll(branch, "/", "-")
	zipPath := filepath.Join(workDir, rootName+".zip")

	if f.logger != nil {
		f.logger.Debug().Str("archive_url", archiveURL).Str("branch", branch).Msg("Downloading archive")
	}

	fromCache, err := f.obtain(ctx, archiveURL, zipPath)
	if err != nil {
		return nil, err
	}

	if err := ExtractZip(zipPath, workDir); err != nil {
		if fromCache {
			_ = f.cache.Delete(ctx, cache.ArchiveKey(archiveURL))
		}
		return nil, err
	}

	root := filepath.Join(workDir, rootName)
	if !utils.IsDir(root) {
		return nil, fmt.Errorf("expected directory %s not found in archive", rootName)
	}

	if err := os.Remove(zipPath); err != nil && f.logger != nil {
		f.logger.Warn().Err(err).Str("path", zipPath).Msg("Failed to remove archive")
	}

	return &FetchResult{
		LocalPath: root,
		Branch:    branch,
		Method:    "archive",
	}, nil
}

// BuildArchiveURL returns the zip archive URL for a branch
func (f *ZipFetcher) BuildArchiveURL(info *RepoInfo, branch string) string {
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", f.baseURL, info.Owner, info.Repo, branch)
}

// obtain writes the archive to zipPath, from the cache when possible.
// It reports whether the bytes came from the cache.
func (f *ZipFetcher) obtain(ctx context.Context, archiveURL, zipPath string) (bool, error) {
	key := cache.ArchiveKey(archiveURL)

	if f.cache != nil {
		if data, err := f.cache.Get(ctx, key); err == nil {
			if f.logger != nil {
				f.logger.Debug().Str("archive_url", archiveURL).Msg("Archive cache hit")
			}
			if err := os.WriteFile(zipPath, data, 0644); err != nil {
				return false, err
			}
			return true, nil
		}
	}

	err := f.retrier.Retry(ctx, func() error {
		return f.Download(ctx, archiveURL, zipPath)
	})
	if err != nil {
		return false, err
	}

	if f.cache != nil {
		data, err := os.ReadFile(zipPath)
		if err == nil {
			err = f.cache.Set(ctx, key, data, f.cacheTTL)
		}
		if err != nil && f.logger != nil {
			f.logger.Warn().Err(err).Msg("Failed to cache archive")
		}
	}

	return false, nil
}

// Download streams archiveURL into dest
func (f *ZipFetcher) Download(ctx context.Context, archiveURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return err
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return domain.NewFetchError(archiveURL, 0, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.NewFetchError(archiveURL, resp.StatusCode, errors.New("archive not found"))
	case http.StatusUnauthorized:
		return domain.NewFetchError(archiveURL, resp.StatusCode, errors.New("authentication required"))
	case http.StatusTooManyRequests:
		return domain.NewFetchError(archiveURL, resp.StatusCode, domain.ErrRateLimited)
	default:
		return domain.NewFetchError(archiveURL, resp.StatusCode, errors.New("download failed"))
	}

	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return domain.NewFetchError(archiveURL, 0, err)
	}
	return file.Close()
}

// ExtractZip extracts every entry of the zip at zipPath beneath destDir.
// An entry whose normalized path leaves destDir aborts extraction with
// a *domain.UnsafeEntryError.
func ExtractZip(zipPath, destDir string) error {
	file, err := os.Open(zipPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	// The reader may report insecure names alongside a usable archive;
	// every entry is checked below.
	r, err := zip.NewReader(file, info.Size())
	if r == nil {
		return fmt.Errorf("open archive: %w", err)
	}

	for _, entry := range r.File {
		targetPath := filepath.Join(destDir, entry.Name)
		if filepath.IsAbs(entry.Name) || !utils.IsWithin(destDir, targetPath) {
			return &domain.UnsafeEntryError{Entry: entry.Name}
		}

		if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("mkdir failed: %w", err)
			}
			continue
		}

		if err := extractFile(entry, targetPath); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(entry *zip.File, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	file, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}

	if _, err := io.Copy(file, src); err != nil {
		file.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return file.Close()
}

func createDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}
