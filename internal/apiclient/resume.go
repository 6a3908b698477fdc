package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/careerpilot/resume-studio/internal/types"
)

// GetResume fetches resume metadata (GET /resume/{id}).
func (c *Client) GetResume(ctx context.Context, id string) (*types.ResumeMeta, error) {
	var meta types.ResumeMeta
	if err := c.do(ctx, "get_resume", http.MethodGet, "/resume/"+url.PathEscape(id), nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetRenderedResume fetches the persona-rendered view (GET /resume/{id}/render).
// Missing fields decode as zero values; the mapper supplies fallbacks.
func (c *Client) GetRenderedResume(ctx context.Context, id string) (*types.RenderedResume, error) {
	var rendered types.RenderedResume
	if err := c.do(ctx, "get_rendered_resume", http.MethodGet, "/resume/"+url.PathEscape(id)+"/render", nil, &rendered); err != nil {
		return nil, err
	}
	return &rendered, nil
}

// UpdateResume persists the save payload (PUT /resume/{id}).
func (c *Client) UpdateResume(ctx context.Context, id string, req types.UpdateResumeRequest) error {
	return c.do(ctx, "update_resume", http.MethodPut, "/resume/"+url.PathEscape(id), req, nil)
}

// AnalyzeResume scores the given sections (POST /resume/{id}/analyze).
func (c *Client) AnalyzeResume(ctx context.Context, id string, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	var resp types.AnalyzeResponse
	if err := c.do(ctx, "analyze_resume", http.MethodPost, "/resume/"+url.PathEscape(id)+"/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadResume fetches the rendered artifact
// (GET /resume/{id}/download?format=pdf|docx). The caller owns the returned
// body and must close it.
func (c *Client) DownloadResume(ctx context.Context, id, format string) (io.ReadCloser, error) {
	op := "download_resume"
	path := fmt.Sprintf("/resume/%s/download?format=%s", url.PathEscape(id), url.QueryEscape(format))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Message: "HTTP request failed", Cause: err}
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return resp.Body, nil
}
