package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheFriendRequest/Event-Service/internal/handler/dto"
)

func TestBuildPageLinks(t *testing.T) {
	base := "/api/v1/events"

	tests := []struct {
		name     string
		skip     int
		limit    int
		total    int
		wantSelf string
		wantLast string
		wantNext *string
		wantPrev *string
	}{
		{
			name:     "first page with more",
			skip:     0,
			limit:    10,
			total:    25,
			wantSelf: "/api/v1/events?skip=0&limit=10",
			wantLast: "/api/v1/events?skip=20&limit=10",
			wantNext: strPtr("/api/v1/events?skip=10&limit=10"),
			wantPrev: nil,
		},
		{
			name:     "last page",
			skip:     20,
			limit:    10,
			total:    25,
			wantSelf: "/api/v1/events?skip=20&limit=10",
			wantLast: "/api/v1/events?skip=20&limit=10",
			wantNext: nil,
			wantPrev: strPtr("/api/v1/events?skip=10&limit=10"),
		},
		{
			name:     "middle page",
			skip:     10,
			limit:    10,
			total:    25,
			wantSelf: "/api/v1/events?skip=10&limit=10",
			wantLast: "/api/v1/events?skip=20&limit=10",
			wantNext: strPtr("/api/v1/events?skip=20&limit=10"),
			wantPrev: strPtr("/api/v1/events?skip=0&limit=10"),
		},
		{
			name:     "empty collection",
			skip:     0,
			limit:    10,
			total:    0,
			wantSelf: "/api/v1/events?skip=0&limit=10",
			wantLast: "/api/v1/events?skip=0&limit=10",
			wantNext: nil,
			wantPrev: nil,
		},
		{
			name:     "odd skip clamps prev to zero",
			skip:     5,
			limit:    10,
			total:    25,
			wantSelf: "/api/v1/events?skip=5&limit=10",
			wantLast: "/api/v1/events?skip=20&limit=10",
			wantNext: strPtr("/api/v1/events?skip=15&limit=10"),
			wantPrev: strPtr("/api/v1/events?skip=0&limit=10"),
		},
		{
			name:     "exact page boundary has no next",
			skip:     10,
			limit:    10,
			total:    20,
			wantSelf: "/api/v1/events?skip=10&limit=10",
			wantLast: "/api/v1/events?skip=10&limit=10",
			wantNext: nil,
			wantPrev: strPtr("/api/v1/events?skip=0&limit=10"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := dto.BuildPageLinks(base, tt.skip, tt.limit, tt.total)

			assert.Equal(t, tt.wantSelf, links.Self)
			assert.Equal(t, "/api/v1/events?skip=0&limit=10", links.First)
			assert.Equal(t, tt.wantLast, links.Last)

			if tt.wantNext == nil {
				assert.Nil(t, links.Next)
			} else {
				assert.NotNil(t, links.Next)
				assert.Equal(t, *tt.wantNext, *links.Next)
			}
			if tt.wantPrev == nil {
				assert.Nil(t, links.Prev)
			} else {
				assert.NotNil(t, links.Prev)
				assert.Equal(t, *tt.wantPrev, *links.Prev)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
