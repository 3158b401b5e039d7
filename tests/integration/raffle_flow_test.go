//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type couponDTO struct {
	ID           string     `json:"id"`
	CouponNumber int64      `json:"coupon_number"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DrawnAt      *time.Time `json:"drawn_at"`
}

func listCoupons(t *testing.T) []couponDTO {
	t.Helper()
	resp, err := httpClient.Get(testServer + "/api/coupons")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var coupons []couponDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&coupons))
	return coupons
}

func TestRegistration_SequentialNumbers(t *testing.T) {
	cleanupCoupons(t)

	const n = 5
	seen := map[int64]bool{}
	for i := 0; i < n; i++ {
		resp, err := registerCoupon(
			fmt.Sprintf("Peserta %d", i+1),
			fmt.Sprintf("peserta%d@example.com", i+1),
			"0812345678"+fmt.Sprint(i),
		)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var c couponDTO
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
		resp.Body.Close()

		assert.Equal(t, "active", c.Status)
		assert.Nil(t, c.DrawnAt)
		seen[c.CouponNumber] = true
	}

	// Exactly {1..N}, no gaps or repeats
	require.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "missing coupon number %d", i)
	}

	assert.Len(t, listCoupons(t), n)
}

func TestRegistration_DuplicateEmail(t *testing.T) {
	cleanupCoupons(t)

	resp, err := registerCoupon("Budi", "budi@example.com", "0812345678")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = registerCoupon("Budi Lagi", "budi@example.com", "0898765432")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	assert.Len(t, listCoupons(t), 1, "the duplicate must not create a second coupon")
}

func TestRegistration_ValidationBeforeStore(t *testing.T) {
	cleanupCoupons(t)

	cases := []struct {
		name, email, phone string
	}{
		{"Budi", "not-an-email", "0812345678"},
		{"Budi", "budi@example.com", "123"},
		{"", "budi@example.com", "0812345678"},
	}
	for _, c := range cases {
		resp, err := registerCoupon(c.name, c.email, c.phone)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	// Accepted format per the registration rules
	resp, err := registerCoupon("Budi", "budi@example.com", "+62 812-3456-7890")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Len(t, listCoupons(t), 1, "rejected submissions must not reach the store")
}

func TestDraw_CommitsOneActiveCoupon(t *testing.T) {
	cleanupCoupons(t)

	for i := 0; i < 3; i++ {
		resp, err := registerCoupon(
			fmt.Sprintf("Peserta %d", i+1),
			fmt.Sprintf("draw%d@example.com", i+1),
			"0812345678"+fmt.Sprint(i),
		)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	token := adminLogin(t)
	resp, err := postJSON(testServer+"/api/admin/draw", nil, authHeader(token))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var draw struct {
		Winner couponDTO   `json:"winner"`
		Frames []couponDTO `json:"frames"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&draw))

	assert.Equal(t, "drawn", draw.Winner.Status)
	require.NotNil(t, draw.Winner.DrawnAt)
	assert.NotEmpty(t, draw.Frames)

	// Exactly one coupon transitioned
	drawn := 0
	for _, c := range listCoupons(t) {
		if c.Status == "drawn" {
			drawn++
			assert.Equal(t, draw.Winner.ID, c.ID)
		}
	}
	assert.Equal(t, 1, drawn)

	// Stats reflect the transition: 1 of 3 drawn -> 33%
	statsResp, err := httpClient.Get(testServer + "/api/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()

	var stats struct {
		Total             int         `json:"total"`
		Active            int         `json:"active"`
		Drawn             int         `json:"drawn"`
		ParticipationRate int         `json:"participation_rate"`
		RecentWinners     []couponDTO `json:"recent_winners"`
	}
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Drawn)
	assert.Equal(t, 33, stats.ParticipationRate)
	require.Len(t, stats.RecentWinners, 1)
	assert.Equal(t, draw.Winner.ID, stats.RecentWinners[0].ID)
}

func TestDraw_EmptyActiveSetRejected(t *testing.T) {
	cleanupCoupons(t)

	token := adminLogin(t)
	resp, err := postJSON(testServer+"/api/admin/draw", nil, authHeader(token))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Empty(t, listCoupons(t))
}

func TestDraw_RequiresAdminToken(t *testing.T) {
	resp, err := postJSON(testServer+"/api/admin/draw", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = postJSON(testServer+"/api/admin/draw", nil, authHeader("bogus"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReset_RestartsNumberingAtOne(t *testing.T) {
	cleanupCoupons(t)

	for i := 0; i < 2; i++ {
		resp, err := registerCoupon(
			fmt.Sprintf("Peserta %d", i+1),
			fmt.Sprintf("reset%d@example.com", i+1),
			"0812345678"+fmt.Sprint(i),
		)
		require.NoError(t, err)
		resp.Body.Close()
	}

	token := adminLogin(t)
	req, err := http.NewRequest(http.MethodPost, testServer+"/api/admin/reset", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, listCoupons(t))

	// First registration after a reset gets number 1 again
	regResp, err := registerCoupon("Baru", "baru@example.com", "0812345678")
	require.NoError(t, err)
	defer regResp.Body.Close()
	require.Equal(t, http.StatusCreated, regResp.StatusCode)

	var c couponDTO
	require.NoError(t, json.NewDecoder(regResp.Body).Decode(&c))
	assert.Equal(t, int64(1), c.CouponNumber)
}

func TestDelete_RemovesOnlyTarget(t *testing.T) {
	cleanupCoupons(t)

	ids := map[int64]string{}
	for i := 0; i < 3; i++ {
		resp, err := registerCoupon(
			fmt.Sprintf("Peserta %d", i+1),
			fmt.Sprintf("del%d@example.com", i+1),
			"0812345678"+fmt.Sprint(i),
		)
		require.NoError(t, err)

		var c couponDTO
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
		resp.Body.Close()
		ids[c.CouponNumber] = c.ID
	}

	token := adminLogin(t)
	req, err := http.NewRequest(http.MethodDelete, testServer+"/api/admin/coupons/"+ids[2], nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	remaining := listCoupons(t)
	require.Len(t, remaining, 2)
	numbers := map[int64]bool{}
	for _, c := range remaining {
		numbers[c.CouponNumber] = true
	}
	assert.True(t, numbers[1], "other coupons keep their numbers")
	assert.True(t, numbers[3], "other coupons keep their numbers")
}
