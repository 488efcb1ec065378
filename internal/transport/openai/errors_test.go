package openai

import (
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
)

func TestParseAPIErrorContentFilter(t *testing.T) {
	err := parseAPIError("chat", &openai.APIError{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "The response was filtered",
	})
	if !errors.Is(err, domain.ErrContentPolicy) {
		t.Errorf("error = %v, want ErrContentPolicy", err)
	}
}

func TestParseAPIErrorRequestErrorContentFilter(t *testing.T) {
	err := parseAPIError("chat", &openai.RequestError{
		HTTPStatusCode: http.StatusBadRequest,
		Err:            errors.New("bad request"),
	})
	if !errors.Is(err, domain.ErrContentPolicy) {
		t.Errorf("error = %v, want ErrContentPolicy", err)
	}
}

func TestParseAPIErrorServerError(t *testing.T) {
	err := parseAPIError("chat", &openai.APIError{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "upstream error",
	})
	if !errors.Is(err, domain.ErrModelFailure) {
		t.Errorf("error = %v, want ErrModelFailure", err)
	}
	if errors.Is(err, domain.ErrContentPolicy) {
		t.Error("server error classified as content filter")
	}
}

func TestParseAPIErrorOpaque(t *testing.T) {
	err := parseAPIError("embedding", errors.New("connection reset"))
	if !errors.Is(err, domain.ErrModelFailure) {
		t.Errorf("error = %v, want ErrModelFailure", err)
	}
}
