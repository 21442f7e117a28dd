// Package archive acquires a remote repository as a local directory.
//
// A repository URL is validated and split into owner and repo, then an
// ordered list of candidates is tried until one yields an extracted tree:
//
//   - ZipFetcher: downloads the branch archive (main, then master by default)
//     and extracts it with zip-slip protection
//   - CloneFetcher: optional shallow go-git clone, tried last
//
// Usage:
//
//	f := archive.NewFetcher(archive.Options{Logger: logger})
//	root, err := f.Fetch(ctx, "https://github.com/owner/repo", workDir)
package archive
