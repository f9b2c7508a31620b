package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"lpfactory/config"
)

// ErrFileNotFound signals the store has no file at the requested path.
var ErrFileNotFound = errors.New("file not found in content store")

const githubAPIBase = "https://api.github.com"

// FileResult is a fetched file plus the revision handle needed for a
// conflict-safe update.
type FileResult struct {
	Content []byte
	SHA     string
}

// ContentStore persists tenant JSON documents. With a repo token it
// talks to the GitHub contents API (a commit there triggers the
// redeploy); without one it falls back to writing the local content
// directory, which is how development environments run.
type ContentStore struct {
	httpClient *http.Client
	owner      string
	repo       string
	branch     string
	localDir   string
	log        *logrus.Entry
}

func NewContentStore(cfg config.GitRepoConfig, localDir string) *ContentStore {
	s := &ContentStore{
		owner:    cfg.Owner,
		repo:     cfg.Repo,
		branch:   cfg.Branch,
		localDir: localDir,
		log:      logrus.WithField("component", "content_store"),
	}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		s.httpClient = oauth2.NewClient(context.Background(), ts)
		s.httpClient.Timeout = 30 * time.Second
	}
	return s
}

// Remote reports whether writes go to the remote repository.
func (s *ContentStore) Remote() bool {
	return s.httpClient != nil
}

// GetFile fetches a file and its revision handle.
func (s *ContentStore) GetFile(ctx context.Context, path string) (*FileResult, error) {
	if !s.Remote() {
		raw, err := os.ReadFile(filepath.Join(s.localDir, path))
		if err != nil {
			return nil, ErrFileNotFound
		}
		return &FileResult{Content: raw}, nil
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		githubAPIBase, s.owner, s.repo, path, s.branch)

	var payload struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := s.request(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Content)
	if err != nil {
		// GitHub wraps base64 at 60 columns.
		decoded, err = base64.StdEncoding.DecodeString(stripNewlines(payload.Content))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	return &FileResult{Content: decoded, SHA: payload.SHA}, nil
}

// PutFile creates or updates a file with a commit message, retrying
// transient failures with exponential backoff. The expected revision
// handle (sha) guards against clobbering a concurrent edit; pass the
// value from a prior GetFile, or empty to create.
func (s *ContentStore) PutFile(ctx context.Context, path string, content []byte, message, sha string) (string, error) {
	if !s.Remote() {
		full := filepath.Join(s.localDir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			return "", err
		}
		s.log.WithField("path", path).Info("wrote file locally")
		return "", nil
	}

	body := map[string]interface{}{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  s.branch,
	}
	if sha != "" {
		body["sha"] = sha
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		githubAPIBase, s.owner, s.repo, path)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		var payload struct {
			Commit struct {
				SHA string `json:"sha"`
			} `json:"commit"`
		}
		err := s.request(ctx, http.MethodPut, endpoint, body, &payload)
		if err == nil {
			s.log.WithFields(logrus.Fields{"path": path, "commit": payload.Commit.SHA}).
				Info("committed file")
			return payload.Commit.SHA, nil
		}
		if errors.Is(err, ErrFileNotFound) || ctx.Err() != nil {
			return "", err
		}

		lastErr = err
		s.log.WithError(err).WithField("attempt", attempt).Warn("put file failed")

		select {
		case <-time.After(time.Duration(math.Pow(2, float64(attempt-1))) * time.Second):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("content store update failed after retries: %w", lastErr)
}

func (s *ContentStore) request(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrFileNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("content store API %d: %s", resp.StatusCode, raw)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
