package attendance

import (
	"testing"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShift(t *testing.T) {
	shifts := []attendance.Shift{
		{ID: 1, Name: "Broken", From: "nine", To: "06:00 PM"},
		{ID: 2, Name: "Morning", From: "09:00 AM", To: "06:00 PM"},
		{ID: 3, Name: "Overlap", From: "10:00 AM", To: "07:00 PM"},
		{ID: 4, Name: "Night", From: "10:00 PM", To: "06:00 AM"},
	}
	day := func(h, m int) time.Time { return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		at      time.Time
		wantID  int64
		wantErr error
	}{
		{name: "inside first valid shift", at: day(9, 5), wantID: 2},
		{name: "start is inclusive", at: day(9, 0), wantID: 2},
		{name: "end is inclusive", at: day(18, 0), wantID: 2},
		{name: "first match wins on overlap", at: day(12, 0), wantID: 2},
		{name: "later shift when earlier ended", at: day(18, 30), wantID: 3},
		{name: "before any shift", at: day(6, 30), wantErr: attendance.ErrNoShiftMatched},
		{name: "overnight window never matches", at: day(23, 0), wantErr: attendance.ErrNoShiftMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveShift(shifts, tt.at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveShift_Empty(t *testing.T) {
	_, err := ResolveShift(nil, time.Now())
	assert.ErrorIs(t, err, attendance.ErrNoShiftMatched)
}
