package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gogithub "github.com/google/go-github/v66/github"
	"github.com/task3-labs/task3-go/pkg/config"
	"github.com/task3-labs/task3-go/pkg/dataOperator"
	"github.com/task3-labs/task3-go/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// The metadata record rides inside the issue body in an HTML comment so the
// rendered issue stays human-readable.
const (
	metadataBlockStart = "<!-- task3:metadata"
	metadataBlockEnd   = "-->"

	submissionMarker = "<!-- task3:submission -->"
)

// GithubDataOperatorConfig configures the issue-tracker-backed task store
type GithubDataOperatorConfig struct {
	Owner string
	Repo  string
	Token string
}

// GithubDataOperator implements IDataOperator against a GitHub repository.
// Each task is an issue: the body carries the task content plus an embedded
// metadata block, and submissions are comments on the issue.
type GithubDataOperator struct {
	cfg    *GithubDataOperatorConfig
	client *gogithub.Client
	logger *zap.SugaredLogger
}

// NewGithubDataOperator creates a task store backed by the configured repository
func NewGithubDataOperator(cfg *GithubDataOperatorConfig, logger *zap.Logger) (*GithubDataOperator, error) {
	if cfg == nil || cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("github data operator requires owner and repo")
	}

	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	return &GithubDataOperator{
		cfg:    cfg,
		client: gogithub.NewClient(httpClient),
		logger: logger.Sugar(),
	}, nil
}

// UploadTaskData opens a new issue carrying the task content and metadata
func (s *GithubDataOperator) UploadTaskData(ctx context.Context, content []byte, metadata *types.TaskMetadata) (*dataOperator.UploadTaskResult, error) {
	md := types.TaskMetadata{}
	if metadata != nil {
		md = *metadata
	}
	if md.Schema == "" {
		md.Schema = config.MetadataSchema
	}
	md.DataLayer.Type = "github"

	title := titleForContent(content)

	// Create first, then edit the body with the final identifiers: the issue
	// number is not known until creation succeeds.
	issue, _, err := s.client.Issues.Create(ctx, s.cfg.Owner, s.cfg.Repo, &gogithub.IssueRequest{
		Title: gogithub.String(title),
		Body:  gogithub.String(string(content)),
	})
	if err != nil {
		return nil, mapGithubError("create issue", err)
	}

	taskUrl := issue.GetHTMLURL()
	md.TaskId = strconv.Itoa(issue.GetNumber())
	md.DataLayer.Url = taskUrl

	body := renderIssueBody(content, &md)
	_, _, err = s.client.Issues.Edit(ctx, s.cfg.Owner, s.cfg.Repo, issue.GetNumber(), &gogithub.IssueRequest{
		Body: gogithub.String(body),
	})
	if err != nil {
		return nil, mapGithubError("stamp issue metadata", err)
	}

	s.logger.Infow("Uploaded task to github",
		"taskUrl", taskUrl,
		"issueNumber", issue.GetNumber(),
	)

	return &dataOperator.UploadTaskResult{
		TaskUrl: taskUrl,
		TaskId:  md.TaskId,
	}, nil
}

// DownloadTaskData fetches the issue and splits it back into content and metadata
func (s *GithubDataOperator) DownloadTaskData(ctx context.Context, taskUrl string) (*dataOperator.DownloadTaskResult, error) {
	number, err := issueNumberFromUrl(taskUrl)
	if err != nil {
		return nil, err
	}

	issue, _, err := s.client.Issues.Get(ctx, s.cfg.Owner, s.cfg.Repo, number)
	if err != nil {
		return nil, mapGithubError("get issue", err)
	}

	content, md, err := parseIssueBody(issue.GetBody())
	if err != nil {
		return nil, fmt.Errorf("task %s has no parseable metadata block: %w", taskUrl, err)
	}

	return &dataOperator.DownloadTaskResult{
		Content:  content,
		LocalRef: taskUrl,
		Metadata: md,
	}, nil
}

// UploadSubmission publishes the deliverable as an issue comment
func (s *GithubDataOperator) UploadSubmission(ctx context.Context, taskUrl string, submission []byte) (*dataOperator.UploadSubmissionResult, error) {
	number, err := issueNumberFromUrl(taskUrl)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("%s\n```json\n%s\n```\n", submissionMarker, string(submission))
	comment, _, err := s.client.Issues.CreateComment(ctx, s.cfg.Owner, s.cfg.Repo, number, &gogithub.IssueComment{
		Body: gogithub.String(body),
	})
	if err != nil {
		return nil, mapGithubError("create submission comment", err)
	}

	return &dataOperator.UploadSubmissionResult{
		SubmissionUrl: comment.GetHTMLURL(),
	}, nil
}

// GetTaskMetadata fetches the issue and returns its embedded metadata record
func (s *GithubDataOperator) GetTaskMetadata(ctx context.Context, taskUrl string) (*types.TaskMetadata, error) {
	number, err := issueNumberFromUrl(taskUrl)
	if err != nil {
		return nil, err
	}

	issue, _, err := s.client.Issues.Get(ctx, s.cfg.Owner, s.cfg.Repo, number)
	if err != nil {
		return nil, mapGithubError("get issue", err)
	}

	_, md, err := parseIssueBody(issue.GetBody())
	if err != nil {
		return nil, fmt.Errorf("task %s has no parseable metadata block: %w", taskUrl, err)
	}
	return md, nil
}

// UpdateTaskMetadata read-merge-writes the embedded metadata block
func (s *GithubDataOperator) UpdateTaskMetadata(ctx context.Context, taskUrl string, update *types.TaskMetadataUpdate) error {
	number, err := issueNumberFromUrl(taskUrl)
	if err != nil {
		return err
	}

	issue, _, err := s.client.Issues.Get(ctx, s.cfg.Owner, s.cfg.Repo, number)
	if err != nil {
		return mapGithubError("get issue", err)
	}

	content, md, err := parseIssueBody(issue.GetBody())
	if err != nil {
		return fmt.Errorf("task %s has no parseable metadata block: %w", taskUrl, err)
	}

	update.Apply(md)

	body := renderIssueBody(content, md)
	_, _, err = s.client.Issues.Edit(ctx, s.cfg.Owner, s.cfg.Repo, number, &gogithub.IssueRequest{
		Body: gogithub.String(body),
	})
	if err != nil {
		return mapGithubError("update issue metadata", err)
	}
	return nil
}

// issueNumberFromUrl extracts the issue number from an issue HTML URL
func issueNumberFromUrl(taskUrl string) (int, error) {
	idx := strings.LastIndex(taskUrl, "/issues/")
	if idx < 0 {
		return 0, dataOperator.ErrNotFound
	}
	number, err := strconv.Atoi(strings.TrimSuffix(taskUrl[idx+len("/issues/"):], "/"))
	if err != nil || number <= 0 {
		return 0, dataOperator.ErrNotFound
	}
	return number, nil
}

// renderIssueBody joins task content with the embedded metadata block
func renderIssueBody(content []byte, md *types.TaskMetadata) string {
	mdBytes, _ := json.MarshalIndent(md, "", "  ")
	return fmt.Sprintf("%s\n\n%s\n%s\n%s", string(content), metadataBlockStart, string(mdBytes), metadataBlockEnd)
}

// parseIssueBody splits an issue body into task content and metadata
func parseIssueBody(body string) ([]byte, *types.TaskMetadata, error) {
	start := strings.LastIndex(body, metadataBlockStart)
	if start < 0 {
		return nil, nil, errors.New("metadata block start marker missing")
	}
	rest := body[start+len(metadataBlockStart):]
	end := strings.Index(rest, metadataBlockEnd)
	if end < 0 {
		return nil, nil, errors.New("metadata block end marker missing")
	}

	var md types.TaskMetadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &md); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal metadata block: %w", err)
	}

	content := strings.TrimSuffix(strings.TrimSpace(body[:start]), "\n")
	return []byte(content), &md, nil
}

// titleForContent derives an issue title from the first heading or line,
// capped at 80 runes so a multi-byte character is never split
func titleForContent(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			if runes := []rune(line); len(runes) > 80 {
				return string(runes[:80])
			}
			return line
		}
	}
	return "Task"
}

// mapGithubError translates API failures into the capability error taxonomy
func mapGithubError(step string, err error) error {
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: %w", step, dataOperator.ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", step, dataOperator.ErrUnauthorized)
		}
		return fmt.Errorf("%s: %v: %w", step, err, dataOperator.ErrTransient)
	}
	return fmt.Errorf("%s: %v: %w", step, err, dataOperator.ErrTransient)
}
