package openai

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
)

// parseAPIError classifies a provider error. HTTP 400 responses are treated
// as content filter rejections (the Azure content filter reports them that
// way); everything else maps to domain.ErrModelFailure.
func parseAPIError(op string, err error) error {
	if isContentFiltered(err) {
		return fmt.Errorf("%s request rejected: %w", op, domain.ErrContentPolicy)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w",
			op, apiErr.HTTPStatusCode, apiErr.Message, domain.ErrModelFailure)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s API error %d: %s: %w",
			op, reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrModelFailure)
	}

	return fmt.Errorf("%s request failed: %w: %w", op, domain.ErrModelFailure, err)
}

// isContentFiltered reports whether err is an HTTP 400 provider rejection.
func isContentFiltered(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusBadRequest
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusBadRequest
	}
	return false
}
