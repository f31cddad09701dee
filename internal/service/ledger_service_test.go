package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "0xAbC1230000000000000000000000000000000001"

func strPtr(s string) *string { return &s }

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func newLedgerFixture() (*LedgerServiceImpl, *fakeStudentRepo, *fakeRedemptionRepo, *fakeStatsCache) {
	students := newFakeStudentRepo()
	redemptions := newFakeRedemptionRepo()
	cache := newFakeStatsCache()
	svc := NewLedgerService(students, redemptions, cache, zerolog.Nop())
	return svc, students, redemptions, cache
}

func validRecordRequest(txHash string) ports.RecordRedemptionRequest {
	return ports.RecordRedemptionRequest{
		TxHash:         txHash,
		WalletAddress:  testWallet,
		MealCount:      1,
		MealType:       domain.MealTypeLunch,
		BlockNumber:    1204,
		BlockTimestamp: time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC),
	}
}

func TestGetOrCreateStudent(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()
	ctx := context.Background()

	t.Run("missing wallet address", func(t *testing.T) {
		_, err := svc.GetOrCreateStudent(ctx, "")
		assertAppErrorCode(t, err, "VAL_002")
	})

	t.Run("creates then returns the same profile", func(t *testing.T) {
		first, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)
		assert.Equal(t, testWallet, first.Student.WalletAddress)
		assert.Nil(t, first.Student.Name)
		assert.NotNil(t, first.Redemptions)
		assert.Empty(t, first.Redemptions)

		second, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)
		assert.Equal(t, first.Student.ID, second.Student.ID)
	})
}

func TestGetStudent(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()
	ctx := context.Background()

	t.Run("unknown wallet fails instead of creating", func(t *testing.T) {
		_, err := svc.GetStudent(ctx, testWallet)
		assertAppErrorCode(t, err, "LED_001")
	})

	t.Run("known wallet returns profile with history", func(t *testing.T) {
		created, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)

		_, err = svc.RecordRedemption(ctx, validRecordRequest("0xtx1"))
		require.NoError(t, err)

		got, err := svc.GetStudent(ctx, testWallet)
		require.NoError(t, err)
		assert.Equal(t, created.Student.ID, got.Student.ID)
		require.Len(t, got.Redemptions, 1)
		assert.Equal(t, "0xtx1", got.Redemptions[0].TxHash)
	})
}

func TestGetStudentReturnsFullHistory(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()
	ctx := context.Background()

	_, err := svc.GetOrCreateStudent(ctx, testWallet)
	require.NoError(t, err)

	const rows = 25
	for i := 0; i < rows; i++ {
		req := validRecordRequest(fmt.Sprintf("0xtx%02d", i))
		req.BlockNumber = int64(1000 + i)
		req.BlockTimestamp = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		_, err := svc.RecordRedemption(ctx, req)
		require.NoError(t, err)
	}

	// Strict lookup embeds the entire ledger.
	got, err := svc.GetStudent(ctx, testWallet)
	require.NoError(t, err)
	require.Len(t, got.Redemptions, rows)
	assert.Equal(t, "0xtx24", got.Redemptions[0].TxHash)
	assert.Equal(t, "0xtx00", got.Redemptions[rows-1].TxHash)

	// The auto-creating read stays bounded to the recent slice.
	recent, err := svc.GetOrCreateStudent(ctx, testWallet)
	require.NoError(t, err)
	require.Len(t, recent.Redemptions, recentHistoryLimit)
	assert.Equal(t, "0xtx24", recent.Redemptions[0].TxHash)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown wallet", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()
		_, err := svc.UpdateProfile(ctx, testWallet, ports.ProfileUpdate{Name: strPtr("Priya")})
		assertAppErrorCode(t, err, "LED_001")
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()
		_, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, testWallet, ports.ProfileUpdate{
			Name:        strPtr("Priya"),
			HostelBlock: strPtr("B"),
		})
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, testWallet, ports.ProfileUpdate{RoomNumber: strPtr("214")})
		require.NoError(t, err)
		require.NotNil(t, updated.Name)
		assert.Equal(t, "Priya", *updated.Name)
		require.NotNil(t, updated.HostelBlock)
		assert.Equal(t, "B", *updated.HostelBlock)
		require.NotNil(t, updated.RoomNumber)
		assert.Equal(t, "214", *updated.RoomNumber)
	})

	t.Run("oversized avatar is dropped, not rejected", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()
		_, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, testWallet, ports.ProfileUpdate{
			AvatarURL: strPtr("https://cdn.example.com/a.png"),
		})
		require.NoError(t, err)

		oversized := "https://cdn.example.com/" + strings.Repeat("x", domain.MaxAvatarURLLen)
		updated, err := svc.UpdateProfile(ctx, testWallet, ports.ProfileUpdate{
			Name:      strPtr("Priya"),
			AvatarURL: strPtr(oversized),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.AvatarURL)
		require.NotNil(t, updated.Name)
		assert.Equal(t, "Priya", *updated.Name)
	})
}

func TestUpsertProfile(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()
	ctx := context.Background()

	t.Run("creates missing profile and applies update", func(t *testing.T) {
		got, err := svc.UpsertProfile(ctx, testWallet, ports.ProfileUpdate{Name: strPtr("Priya")})
		require.NoError(t, err)
		assert.Equal(t, testWallet, got.WalletAddress)
		require.NotNil(t, got.Name)
		assert.Equal(t, "Priya", *got.Name)
	})

	t.Run("empty update skips the write", func(t *testing.T) {
		got, err := svc.UpsertProfile(ctx, testWallet, ports.ProfileUpdate{})
		require.NoError(t, err)
		require.NotNil(t, got.Name)
		assert.Equal(t, "Priya", *got.Name)
	})
}

func TestRecordRedemption(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture()
		tests := []struct {
			name   string
			mutate func(*ports.RecordRedemptionRequest)
			code   string
		}{
			{"missing tx hash", func(r *ports.RecordRedemptionRequest) { r.TxHash = "" }, "VAL_001"},
			{"missing wallet", func(r *ports.RecordRedemptionRequest) { r.WalletAddress = "" }, "VAL_002"},
			{"zero meal count", func(r *ports.RecordRedemptionRequest) { r.MealCount = 0 }, "VAL_001"},
			{"negative meal count", func(r *ports.RecordRedemptionRequest) { r.MealCount = -2 }, "VAL_001"},
			{"unknown meal type", func(r *ports.RecordRedemptionRequest) { r.MealType = "BRUNCH" }, "VAL_001"},
			{"missing block number", func(r *ports.RecordRedemptionRequest) { r.BlockNumber = 0 }, "VAL_001"},
			{"missing block timestamp", func(r *ports.RecordRedemptionRequest) { r.BlockTimestamp = time.Time{} }, "VAL_001"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validRecordRequest("0xtx1")
				tt.mutate(&req)
				_, err := svc.RecordRedemption(ctx, req)
				assertAppErrorCode(t, err, tt.code)
			})
		}
	})

	t.Run("unknown student is rejected", func(t *testing.T) {
		svc, _, redemptions, _ := newLedgerFixture()
		_, err := svc.RecordRedemption(ctx, validRecordRequest("0xtx1"))
		assertAppErrorCode(t, err, "LED_001")
		assert.Empty(t, redemptions.byTx)
	})

	t.Run("records once and invalidates the cache", func(t *testing.T) {
		svc, _, _, cache := newLedgerFixture()
		created, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)

		red, err := svc.RecordRedemption(ctx, validRecordRequest("0xtx1"))
		require.NoError(t, err)
		assert.Equal(t, created.Student.ID, red.StudentID)
		assert.Equal(t, "0xtx1", red.TxHash)
		assert.Equal(t, 1, cache.invalidations)
	})

	t.Run("duplicate tx hash yields conflict and no second row", func(t *testing.T) {
		svc, _, redemptions, cache := newLedgerFixture()
		_, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)

		_, err = svc.RecordRedemption(ctx, validRecordRequest("0xtx1"))
		require.NoError(t, err)

		replay := validRecordRequest("0xtx1")
		replay.MealCount = 3 // differing payload does not matter; the hash decides
		_, err = svc.RecordRedemption(ctx, replay)
		assertAppErrorCode(t, err, "LED_002")

		assert.Len(t, redemptions.byTx, 1)
		assert.Equal(t, 1, redemptions.byTx["0xtx1"].MealCount)
		assert.Equal(t, 1, cache.invalidations)
	})

	t.Run("storage failure surfaces as database error", func(t *testing.T) {
		svc, _, redemptions, _ := newLedgerFixture()
		_, err := svc.GetOrCreateStudent(ctx, testWallet)
		require.NoError(t, err)

		redemptions.err = errors.New("connection reset")
		_, err = svc.RecordRedemption(ctx, validRecordRequest("0xtx1"))
		assertAppErrorCode(t, err, "SYS_001")
	})
}

func TestListRedemptions(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()
	ctx := context.Background()

	t.Run("unknown wallet", func(t *testing.T) {
		_, _, err := svc.ListRedemptions(ctx, testWallet, ports.ListParams{})
		assertAppErrorCode(t, err, "LED_001")
	})

	_, err := svc.GetOrCreateStudent(ctx, testWallet)
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		req := validRecordRequest("0xtx" + string(rune('a'+i)))
		req.BlockNumber = int64(1000 + i)
		req.BlockTimestamp = base.Add(time.Duration(i) * time.Hour)
		_, err := svc.RecordRedemption(ctx, req)
		require.NoError(t, err)
	}

	t.Run("defaults page newest first", func(t *testing.T) {
		reds, total, err := svc.ListRedemptions(ctx, testWallet, ports.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, reds, defaultListLimit)
		assert.Equal(t, int64(1024), reds[0].BlockNumber)
		assert.True(t, reds[0].BlockTimestamp.After(reds[len(reds)-1].BlockTimestamp))
	})

	t.Run("offset pages the remainder", func(t *testing.T) {
		reds, total, err := svc.ListRedemptions(ctx, testWallet, ports.ListParams{Limit: 20, Offset: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Len(t, reds, 5)
	})

	t.Run("limit is clamped to the maximum", func(t *testing.T) {
		reds, _, err := svc.ListRedemptions(ctx, testWallet, ports.ListParams{Limit: 10_000})
		require.NoError(t, err)
		assert.Len(t, reds, 25)
	})
}
