package request

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/filter"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/sortby"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("", "", "", 0, 0, 0, filter.Expression{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Sort() != sortby.Newest {
		t.Errorf("Sort() = %q, want newest", r.Sort())
	}
	if r.Page() != 1 || r.Size() != DefaultSize || r.Offset() != 0 {
		t.Errorf("page=%d size=%d offset=%d", r.Page(), r.Size(), r.Offset())
	}
}

func TestNew_QuerySwitchesDefaultSort(t *testing.T) {
	for _, tc := range []struct{ q, suggest string }{{"755021", ""}, {"", "Parkin"}} {
		r, err := New(tc.q, tc.suggest, "", 1, 10, 0, filter.Expression{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Sort() != sortby.BestMatch {
			t.Errorf("q=%q suggest=%q: Sort() = %q, want bestmatch", tc.q, tc.suggest, r.Sort())
		}
	}
}

func TestNew_ExplicitSortWins(t *testing.T) {
	r, err := New("fungal", "", sortby.Oldest, 1, 10, 0, filter.Expression{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Sort() != sortby.Oldest {
		t.Errorf("Sort() = %q, want oldest", r.Sort())
	}
}

func TestNew_SizeClamped(t *testing.T) {
	r, err := New("", "", "", 3, 500, 50, filter.Expression{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Size() != 50 {
		t.Errorf("Size() = %d, want 50", r.Size())
	}
	if r.Offset() != 100 {
		t.Errorf("Offset() = %d, want 100", r.Offset())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		sort    sortby.Option
		page    int
		wantSub string
	}{
		{"invalid sort", "", "title", 1, "invalid sort"},
		{"query too long", strings.Repeat("x", MaxQueryLength+1), "", 1, "too long"},
		{"beyond window", "", "", MaxWindow, "result window"},
		{"page overflows window product", "", "", math.MaxInt/10 + 1, "result window"},
		{"huge page", "", "", 1_000_000_000_000_000_000, "result window"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.query, "", tc.sort, tc.page, 10, 0, filter.Expression{})
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not contain %q", err, tc.wantSub)
			}
		})
	}
}

func TestNew_WindowEdge(t *testing.T) {
	r, err := New("", "", "", MaxWindow/100, 100, 0, filter.Expression{})
	if err != nil {
		t.Fatalf("last page inside the window rejected: %v", err)
	}
	if r.Offset()+r.Size() != MaxWindow {
		t.Errorf("window end = %d, want %d", r.Offset()+r.Size(), MaxWindow)
	}
	if _, err := New("", "", "", MaxWindow/100+1, 100, 0, filter.Expression{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation past the window, got %v", err)
	}
}
