package handlers

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestPagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", defaultPageSize, 0},
		{"?page=3&page_size=10", 10, 20},
		{"?page=0&page_size=-4", defaultPageSize, 0},
		{"?page=abc", defaultPageSize, 0},
		{"?page_size=100000", maxPageSize, 0},
		{"?page=184467440737095518", defaultPageSize, (math.MaxInt / defaultPageSize) * defaultPageSize},
		{"?page=9223372036854775807&page_size=1", 1, math.MaxInt - 1},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			app := fiber.New()
			var limit, offset int
			app.Get("/", func(c *fiber.Ctx) error {
				limit, offset = pagination(c)
				return c.SendStatus(fiber.StatusNoContent)
			})
			if _, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil), -1); err != nil {
				t.Fatalf("request: %v", err)
			}
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Fatalf("got limit=%d offset=%d, want limit=%d offset=%d", limit, offset, tc.wantLimit, tc.wantOffset)
			}
			if offset < 0 {
				t.Fatalf("negative offset %d", offset)
			}
		})
	}
}
