// Package remote implements the sync client that durably writes one binary
// object into a git-hosting repository as exactly one commit on a named
// branch, using the provider's low-level object-graph API (blob → tree →
// commit → ref) with an empty-repository bootstrap path and an
// optimistic-concurrency retry loop.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mkarpovich/mediavault/internal/common"
	"github.com/mkarpovich/mediavault/internal/config"
	"github.com/mkarpovich/mediavault/internal/logging"
)

// ContentKind selects the upload path prefix.
type ContentKind string

const (
	KindMedia     ContentKind = "media"
	KindThumbnail ContentKind = "thumbnail"
)

// ProgressFunc receives coarse-grained milestones as protocol steps
// complete. percent is not an accurate transfer estimate, only UI feedback.
type ProgressFunc func(step string, percent int)

// Protocol step names, reported in progress callbacks and error attribution.
const (
	StepResolveRef   = "resolve ref"
	StepBootstrap    = "bootstrap write"
	StepBaseTree     = "get base tree"
	StepCreateBlob   = "create blob"
	StepCreateTree   = "create tree"
	StepCreateCommit = "create commit"
	StepUpdateRef    = "update ref"
)

// maxAttempts bounds the whole write sequence, first try included.
const maxAttempts = 3

// base64ChunkSize is the window for chunked base64 encoding of large
// payloads. Must be a multiple of 3 so adjacent windows concatenate into
// one valid base64 stream.
const base64ChunkSize = 48 * 1024

// UploadError attributes a failure to the protocol step it occurred in,
// preserving the underlying error verbatim.
type UploadError struct {
	Step string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// SyncClient talks to one configured repository. Configuration is
// constructor-injected: the client holds no process-wide state.
//
// A single Upload is a strictly sequential chain of calls. Concurrent
// Uploads legitimately race on the ref update; the retry loop with fresh
// head re-resolution is the intended resolution for that race.
type SyncClient struct {
	cfg        *config.Config
	httpClient *http.Client
	log        logging.Logger

	// retryDelay separates attempts after a conflict-class failure.
	retryDelay time.Duration
}

func NewSyncClient(cfg *config.Config, log logging.Logger) *SyncClient {
	return &SyncClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
		retryDelay: time.Second,
	}
}

func (c *SyncClient) checkConfig() error {
	switch {
	case c.cfg.Token == "":
		return fmt.Errorf("%w: token", common.ErrConfigurationMissing)
	case c.cfg.RepoOwner == "":
		return fmt.Errorf("%w: repository owner", common.ErrConfigurationMissing)
	case c.cfg.RepoName == "":
		return fmt.Errorf("%w: repository name", common.ErrConfigurationMissing)
	}
	return nil
}

// targetPath routes content by category under the configured prefixes.
func (c *SyncClient) targetPath(name string, kind ContentKind) string {
	prefix := c.cfg.MediaPathPrefix
	if kind == KindThumbnail {
		prefix = c.cfg.ThumbnailPathPrefix
	}
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Upload writes content to the repository as one commit on the configured
// branch. Conflict-class failures (the branch moved concurrently, or a
// stale tree/parent) restart the entire sequence from ref resolution, up
// to 3 total attempts with a fixed delay in between. Any other failure is
// fatal immediately. Blobs created during failed attempts are left behind
// as unreachable objects; the content-addressable store makes them
// harmless.
func (c *SyncClient) Upload(ctx context.Context, content []byte, name string, kind ContentKind, onProgress ProgressFunc) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	path := c.targetPath(name, kind)

	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewConstant(c.retryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.uploadOnce(ctx, content, path, onProgress)
		if err != nil && common.IsRetryable(err) {
			c.log.Warn(ctx, "upload attempt hit a conflict, restarting from ref resolution",
				"path", path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// uploadOnce runs one full pass of the per-upload state machine. Re-running
// it starts over from ref resolution, which is mandatory on retry: the
// parent commit id must be current, so retrying only a failed sub-step
// would reuse a stale parent and fail again.
func (c *SyncClient) uploadOnce(ctx context.Context, content []byte, path string, onProgress ProgressFunc) error {

	lookup := c.resolveRef(ctx)
	if lookup.Kind == RefFailed {
		return &UploadError{Step: StepResolveRef, Err: lookup.Err}
	}
	report(onProgress, StepResolveRef, 10)

	if lookup.Kind == RefEmptyRepository {
		// No parent tree to extend, so the object-graph machinery does
		// not apply: a single direct file write creates the first commit.
		if err := c.bootstrapWrite(ctx, content, path); err != nil {
			return &UploadError{Step: StepBootstrap, Err: err}
		}
		report(onProgress, StepBootstrap, 100)
		c.log.Info(ctx, "bootstrap upload complete", "path", path)
		return nil
	}

	headSHA := lookup.CommitSHA

	baseTree, err := c.getCommitTree(ctx, headSHA)
	if err != nil {
		return &UploadError{Step: StepBaseTree, Err: err}
	}
	report(onProgress, StepBaseTree, 25)

	blobSHA, err := c.createBlob(ctx, content)
	if err != nil {
		return &UploadError{Step: StepCreateBlob, Err: err}
	}
	report(onProgress, StepCreateBlob, 50)

	treeSHA, err := c.createTree(ctx, baseTree, path, blobSHA)
	if err != nil {
		return &UploadError{Step: StepCreateTree, Err: err}
	}
	report(onProgress, StepCreateTree, 65)

	commitSHA, err := c.createCommit(ctx, treeSHA, headSHA, path)
	if err != nil {
		return &UploadError{Step: StepCreateCommit, Err: err}
	}
	report(onProgress, StepCreateCommit, 80)

	if err := c.updateRef(ctx, commitSHA); err != nil {
		return &UploadError{Step: StepUpdateRef, Err: err}
	}
	report(onProgress, StepUpdateRef, 100)

	c.log.Info(ctx, "upload complete", "path", path, "commit", commitSHA)
	return nil
}

func report(onProgress ProgressFunc, step string, percent int) {
	if onProgress != nil {
		onProgress(step, percent)
	}
}

// resolveRef looks up the branch head. A missing branch/repository, or a
// repository the provider reports as having no commits, selects the
// bootstrap path.
func (c *SyncClient) resolveRef(ctx context.Context) RefLookup {
	url := fmt.Sprintf("%s/repos/%s/%s/git/ref/heads/%s",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName, c.cfg.Branch)

	status, body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RefLookup{Kind: RefFailed, Err: err}
	}

	switch status {
	case http.StatusOK:
		var ref refResponse
		if err := json.Unmarshal(body, &ref); err != nil {
			return RefLookup{Kind: RefFailed, Err: fmt.Errorf("%w: decode ref: %w", common.ErrRemote, err)}
		}
		return RefLookup{Kind: RefFound, CommitSHA: ref.Object.SHA}
	case http.StatusNotFound, http.StatusConflict:
		// 404: branch or repository absent. 409: repository confirmed
		// empty. Either way there is no head commit to build on.
		return RefLookup{Kind: RefEmptyRepository}
	default:
		return RefLookup{Kind: RefFailed, Err: statusError(status, body)}
	}
}

// bootstrapWrite performs the single direct file-write call used when the
// repository has no commits yet. Terminal for the attempt either way.
func (c *SyncClient) bootstrapWrite(ctx context.Context, content []byte, path string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName, path)

	req := contentsPutRequest{
		Message: "Add " + path,
		Content: encodeBase64Chunked(content),
		Branch:  c.cfg.Branch,
	}

	status, body, err := c.do(ctx, http.MethodPut, url, req)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return statusError(status, body)
	}
	return nil
}

func (c *SyncClient) getCommitTree(ctx context.Context, commitSHA string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/commits/%s",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName, commitSHA)

	status, body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", statusError(status, body)
	}

	var commit commitResponse
	if err := json.Unmarshal(body, &commit); err != nil {
		return "", fmt.Errorf("%w: decode commit: %w", common.ErrRemote, err)
	}
	return commit.Tree.SHA, nil
}

func (c *SyncClient) createBlob(ctx context.Context, content []byte) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/blobs",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName)

	req := createBlobRequest{Content: encodeBase64Chunked(content), Encoding: "base64"}

	status, body, err := c.do(ctx, http.MethodPost, url, req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", statusError(status, body)
	}

	var blob createBlobResponse
	if err := json.Unmarshal(body, &blob); err != nil {
		return "", fmt.Errorf("%w: decode blob: %w", common.ErrRemote, err)
	}
	return blob.SHA, nil
}

func (c *SyncClient) createTree(ctx context.Context, baseTree, path, blobSHA string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName)

	req := createTreeRequest{
		BaseTree: baseTree,
		Tree:     []treeEntry{{Path: path, Mode: "100644", Type: "blob", SHA: blobSHA}},
	}

	status, body, err := c.do(ctx, http.MethodPost, url, req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", statusError(status, body)
	}

	var tree createTreeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return "", fmt.Errorf("%w: decode tree: %w", common.ErrRemote, err)
	}
	return tree.SHA, nil
}

func (c *SyncClient) createCommit(ctx context.Context, treeSHA, parentSHA, path string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/commits",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName)

	req := createCommitRequest{
		Message: "Add " + path,
		Tree:    treeSHA,
		Parents: []string{parentSHA},
	}

	status, body, err := c.do(ctx, http.MethodPost, url, req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", statusError(status, body)
	}

	var commit createCommitResponse
	if err := json.Unmarshal(body, &commit); err != nil {
		return "", fmt.Errorf("%w: decode commit: %w", common.ErrRemote, err)
	}
	return commit.SHA, nil
}

// updateRef points the branch at the new commit. Non-forced: the provider
// must reject the update if the branch moved since resolution, which is
// what drives the retry loop.
func (c *SyncClient) updateRef(ctx context.Context, commitSHA string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/git/refs/heads/%s",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName, c.cfg.Branch)

	req := updateRefRequest{SHA: commitSHA, Force: false}

	status, body, err := c.do(ctx, http.MethodPatch, url, req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return statusError(status, body)
	}
	return nil
}

// do executes one authenticated JSON call and returns the status and raw
// body. Transport-level failures surface as common.ErrNetwork; status-code
// interpretation stays with the caller.
func (c *SyncClient) do(ctx context.Context, method, url string, reqBody any) (int, []byte, error) {
	var r io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %w", common.ErrNetwork, err)
	}

	return resp.StatusCode, body, nil
}

// statusError classifies a non-success response. 409 and 422 are the
// conflict classes (branch moved, stale parent) and the only retryable
// ones; everything else is fatal.
func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch status {
	case http.StatusConflict:
		return fmt.Errorf("%w: status %d: %s", common.ErrConflict, status, msg)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: status %d: %s", common.ErrUnprocessable, status, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", common.ErrRemote, status, msg)
	}
}

// encodeBase64Chunked encodes content in bounded windows to avoid platform
// limits on very large contiguous buffers. Windows are 3-byte aligned, so
// the concatenation equals a single-shot encoding.
func encodeBase64Chunked(content []byte) string {
	var sb strings.Builder
	sb.Grow(base64.StdEncoding.EncodedLen(len(content)))

	for len(content) > 0 {
		n := min(len(content), base64ChunkSize)
		sb.WriteString(base64.StdEncoding.EncodeToString(content[:n]))
		content = content[n:]
	}

	return sb.String()
}
