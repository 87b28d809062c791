package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainerbook/internal/auth"
	"trainerbook/internal/schedule"
	"trainerbook/internal/trainer"
)

func TestGenerateAvailabilityIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	trainerRepo := trainer.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)
	scheduleService := schedule.NewService(scheduleRepo, trainerRepo)
	handler := schedule.NewHandler(scheduleService, trainerRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/trainers/:trainerID/availability", auth.AuthMiddleware(testSecret), handler.GenerateAvailability)
	router.GET("/trainers/:trainerID/slots", auth.AuthMiddleware(testSecret), handler.ListSlots)

	generate := func(token string, trainerID int, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", fmt.Sprintf("/trainers/%d/availability", trainerID), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Generation is idempotent", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerUserID := createTestUser(t, db, "coach@example.com", "Coach", "trainer")
		trainerID := createTestTrainer(t, db, trainerUserID, "Coach")
		token := generateTestToken(trainerUserID, "coach@example.com", "trainer")

		body := `{"start_date": "2025-06-02", "end_date": "2025-06-02", "daily_start_hour": 9, "daily_end_hour": 12, "slot_duration_minutes": 60}`

		w1 := generate(token, trainerID, body)
		require.Equal(t, http.StatusOK, w1.Code)

		var resp1 schedule.GenerateAvailabilityResponse
		json.Unmarshal(w1.Body.Bytes(), &resp1)
		assert.Equal(t, 3, resp1.SlotsAdded)

		// Re-running the exact same rule adds nothing.
		w2 := generate(token, trainerID, body)
		require.Equal(t, http.StatusOK, w2.Code)

		var resp2 schedule.GenerateAvailabilityResponse
		json.Unmarshal(w2.Body.Bytes(), &resp2)
		assert.Equal(t, 0, resp2.SlotsAdded)
	})

	t.Run("Generation never overwrites a booked slot", func(t *testing.T) {
		cleanDatabase(t, db)

		clientID := createTestUser(t, db, "client@example.com", "Client", "client")
		trainerUserID := createTestUser(t, db, "coach@example.com", "Coach", "trainer")
		trainerID := createTestTrainer(t, db, trainerUserID, "Coach")
		token := generateTestToken(trainerUserID, "coach@example.com", "trainer")

		start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
		slotID := createTestSlot(t, db, trainerID, start, "open")
		_, err := db.Exec(`
			UPDATE slots SET status = 'booked', client_id = $1, client_name = 'Client', booked_at = NOW()
			WHERE id = $2
		`, clientID, slotID)
		require.NoError(t, err)

		body := `{"start_date": "2025-06-02", "end_date": "2025-06-02", "daily_start_hour": 9, "daily_end_hour": 12, "slot_duration_minutes": 60}`
		w := generate(token, trainerID, body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp schedule.GenerateAvailabilityResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, 2, resp.SlotsAdded)

		assert.Equal(t, "booked", slotStatus(t, db, slotID))
	})

	t.Run("Trainer cannot manage someone else's schedule", func(t *testing.T) {
		cleanDatabase(t, db)

		user1 := createTestUser(t, db, "coach1@example.com", "Coach One", "trainer")
		user2 := createTestUser(t, db, "coach2@example.com", "Coach Two", "trainer")
		trainer1 := createTestTrainer(t, db, user1, "Coach One")
		createTestTrainer(t, db, user2, "Coach Two")

		intruderToken := generateTestToken(user2, "coach2@example.com", "trainer")
		w := generate(intruderToken, trainer1, `{}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("List slots in range", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerUserID := createTestUser(t, db, "coach@example.com", "Coach", "trainer")
		trainerID := createTestTrainer(t, db, trainerUserID, "Coach")
		token := generateTestToken(trainerUserID, "coach@example.com", "trainer")

		body := `{"start_date": "2025-06-02", "end_date": "2025-06-03", "daily_start_hour": 9, "daily_end_hour": 11, "slot_duration_minutes": 60}`
		w := generate(token, trainerID, body)
		require.Equal(t, http.StatusOK, w.Code)

		listURL := fmt.Sprintf("/trainers/%d/slots?from=2025-06-02T00:00:00Z&to=2025-06-03T00:00:00Z", trainerID)
		req := httptest.NewRequest("GET", listURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		wList := httptest.NewRecorder()
		router.ServeHTTP(wList, req)

		require.Equal(t, http.StatusOK, wList.Code)

		var slots []schedule.Slot
		json.Unmarshal(wList.Body.Bytes(), &slots)
		assert.Len(t, slots, 2)
	})
}
