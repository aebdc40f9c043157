package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"/items", DefaultLimit, 0},
		{"/items?limit=10&offset=5", 10, 5},
		{"/items?limit=0", DefaultLimit, 0},
		{"/items?limit=-3&offset=-1", DefaultLimit, 0},
		{"/items?limit=500", MaxLimit, 0},
		{"/items?limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tc := range cases {
		got := paramsFor(tc.target)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("%s: got %+v, want limit=%d offset=%d", tc.target, got, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !r.HasMore {
		t.Error("expected has_more on a partial page")
	}
	r = NewResponse([]int{1}, 10, 3, 9)
	if r.HasMore {
		t.Error("expected has_more false on the last page")
	}
}
