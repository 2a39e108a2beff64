package tonal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/claude/tonalmcp/internal/models"
)

// GetUserInfo returns the signed-in user's profile.
func (c *Client) GetUserInfo(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.do(ctx, http.MethodGet, "/v6/users/userinfo", nil, nil, &info); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.userID = info.ID
	c.mu.Unlock()
	return &info, nil
}

// currentUserID returns the signed-in user's id, fetching the profile once.
func (c *Client) currentUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.userID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}
	info, err := c.GetUserInfo(ctx)
	if err != nil {
		return "", err
	}
	if info.ID == "" {
		return "", fmt.Errorf("tonal: userinfo carried no id")
	}
	return info.ID, nil
}

func (c *Client) userGet(ctx context.Context, suffix string, params url.Values, out any) error {
	id, err := c.currentUserID(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodGet, "/v6/users/"+url.PathEscape(id)+suffix, params, nil, out)
}

func (c *Client) GetUserStatistics(ctx context.Context) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	if err := c.userGet(ctx, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) GetCurrentStreak(ctx context.Context) (*models.Streak, error) {
	var streak models.Streak
	if err := c.userGet(ctx, "/streaks/current", nil, &streak); err != nil {
		return nil, err
	}
	return &streak, nil
}

// GetDailyMetrics returns one entry per day for the last days days.
func (c *Client) GetDailyMetrics(ctx context.Context, days int) ([]models.DailyMetric, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	var metrics []models.DailyMetric
	if err := c.userGet(ctx, "/daily-metrics", params, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (c *Client) GetActivitySummaries(ctx context.Context) ([]models.ActivitySummary, error) {
	var activities []models.ActivitySummary
	if err := c.userGet(ctx, "/activities", nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *Client) GetMuscleReadiness(ctx context.Context) (*models.MuscleReadiness, error) {
	var r models.MuscleReadiness
	if err := c.userGet(ctx, "/muscle-readiness/current", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

const (
	movementCountKey = "movements::count"
	movementKeyFmt   = "movements::%d"
)

// GetMovements returns the full movement catalog. The list is cached one
// movement per entry for the configured TTL; any missing entry refetches
// the whole list.
func (c *Client) GetMovements(ctx context.Context) ([]models.Movement, error) {
	if movements, ok := c.cachedMovements(); ok {
		return movements, nil
	}

	var movements []models.Movement
	if err := c.do(ctx, http.MethodGet, "/v6/movements", nil, nil, &movements); err != nil {
		return nil, err
	}
	c.cacheMovements(movements)
	return movements, nil
}

func (c *Client) cachedMovements() ([]models.Movement, bool) {
	if c.cacheTTL <= 0 {
		return nil, false
	}
	countBytes, err := c.cache.Get([]byte(movementCountKey))
	if err != nil {
		return nil, false
	}
	count, err := strconv.Atoi(string(countBytes))
	if err != nil {
		return nil, false
	}

	movements := make([]models.Movement, count)
	for i := range movements {
		data, err := c.cache.Get([]byte(fmt.Sprintf(movementKeyFmt, i)))
		if err != nil {
			c.log.Debug("movement cache miss", "index", i, "error", err)
			return nil, false
		}
		if err := json.Unmarshal(data, &movements[i]); err != nil {
			c.log.Error("decode cached movement", "index", i, "error", err)
			return nil, false
		}
	}
	return movements, true
}

func (c *Client) cacheMovements(movements []models.Movement) {
	expire := int(c.cacheTTL.Seconds())
	if expire <= 0 {
		return
	}
	for i, m := range movements {
		data, err := json.Marshal(m)
		if err != nil {
			c.log.Error("encode movement for cache", "id", m.ID, "error", err)
			return
		}
		if err := c.cache.Set([]byte(fmt.Sprintf(movementKeyFmt, i)), data, expire); err != nil {
			c.log.Warn("movement cache set failed", "id", m.ID, "error", err)
			return
		}
	}
	// The count goes in last so a reader never sees it before its entries.
	if err := c.cache.Set([]byte(movementCountKey), []byte(strconv.Itoa(len(movements))), expire); err != nil {
		c.log.Warn("movement cache set failed", "key", movementCountKey, "error", err)
		return
	}
	c.log.Debug("movement catalog cached", "count", len(movements), "ttl_seconds", expire)
}

// GetUserWorkouts returns one page of the user's custom workouts.
func (c *Client) GetUserWorkouts(ctx context.Context, offset, limit int) ([]models.Workout, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	var workouts []models.Workout
	if err := c.do(ctx, http.MethodGet, "/v6/user-workouts", params, nil, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *Client) GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error) {
	var w models.Workout
	if err := c.do(ctx, http.MethodGet, "/v6/user-workouts/"+url.PathEscape(id), nil, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) CreateWorkout(ctx context.Context, in models.WorkoutInput) (*models.Workout, error) {
	var w models.Workout
	if err := c.do(ctx, http.MethodPost, "/v6/user-workouts", nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWorkout replaces the workout's title, description and sets.
func (c *Client) UpdateWorkout(ctx context.Context, id string, in models.WorkoutInput) (*models.Workout, error) {
	in.ID = id
	var w models.Workout
	if err := c.do(ctx, http.MethodPut, "/v6/user-workouts/"+url.PathEscape(id), nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v6/user-workouts/"+url.PathEscape(id), nil, nil, nil)
}
