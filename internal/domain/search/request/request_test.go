package request

import (
	"errors"
	"testing"
	"time"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
)

func TestNewFulltext(t *testing.T) {
	req, err := NewFulltext(engine.FulltextEN, "adaptation finance", Filters{Geography: "Kenya"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Engine() != engine.FulltextEN {
		t.Errorf("engine = %v, want FulltextEN", req.Engine())
	}
	if req.Text() != "adaptation finance" {
		t.Errorf("text = %q", req.Text())
	}
	if req.Geography() != "Kenya" {
		t.Errorf("geography = %q", req.Geography())
	}
}

func TestNewFulltextRequiresText(t *testing.T) {
	_, err := NewFulltext(engine.FulltextEN, "", Filters{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestNewNeuralRequiresVector(t *testing.T) {
	_, err := NewNeural(nil, Filters{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestNewNeural(t *testing.T) {
	req, err := NewNeural([]float32{0.1, 0.2}, Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Engine().Kind() != engine.Neural {
		t.Errorf("kind = %v, want neural", req.Engine().Kind())
	}
	if len(req.Vector()) != 2 {
		t.Errorf("vector length = %d, want 2", len(req.Vector()))
	}
}

func TestNewRejectsVectorForFulltext(t *testing.T) {
	_, err := New(engine.FulltextEN, "water", []float32{0.5}, Filters{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestNewRejectsInvertedDates(t *testing.T) {
	from := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewFulltext(engine.FulltextEN, "mitigation", Filters{From: from, To: to})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestNewAcceptsEqualDates(t *testing.T) {
	day := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := NewFulltext(engine.FulltextEN, "mitigation", Filters{From: day, To: day})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsNonPositiveVersion(t *testing.T) {
	zero := 0
	_, err := NewFulltext(engine.FulltextEN, "forests", Filters{Version: &zero})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestNewRequiresEngine(t *testing.T) {
	_, err := New(engine.Engine{}, "water", nil, Filters{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}
