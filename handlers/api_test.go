package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/openleague/league-system/handlers"
	"github.com/openleague/league-system/middleware"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories/memory"
	"github.com/openleague/league-system/routes"
	"github.com/openleague/league-system/schedule"
	"github.com/openleague/league-system/services"
)

const testJWTSecret = "test-secret"

type apiFixture struct {
	server *httptest.Server
	users  *memory.UserRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	users := memory.NewUserRepository()
	leagues := memory.NewLeagueRepository([]models.League{
		{ID: 1, Title: "Open League", Game: "Rocket League", SeasonID: 1},
	})
	divisions := memory.NewDivisionRepository(leagues)
	entries := memory.NewEntryRepository(users)
	matches := memory.NewMatchRepository()
	evidence := memory.NewEvidenceRepository()

	authService := services.NewAuthService(users)
	divisionService := services.NewDivisionService(divisions, entries, leagues, users)
	scheduleService := services.NewScheduleService(nil, divisions, entries, matches, schedule.NewRoundRobinGenerator(), nil)
	matchService := services.NewMatchService(matches, entries, nil, false)
	standingsService := services.NewStandingsService(divisions, entries, matches)
	evidenceService := services.NewEvidenceService(evidence, matches, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		middleware.NewAuth(testJWTSecret),
		handlers.NewAuthHandler(authService, testJWTSecret),
		handlers.NewDivisionHandler(divisionService, scheduleService, standingsService),
		handlers.NewMatchHandler(matchService),
		handlers.NewEvidenceHandler(evidenceService),
		handlers.NewWebSocketHandler(nil, divisionService, logger),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &apiFixture{server: server, users: users}
}

func (f *apiFixture) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"role":      user.Role,
		"gamer_tag": user.GamerTag,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func (f *apiFixture) addUser(t *testing.T, tag string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:         tag,
		GamerTag:     tag,
		Email:        tag + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestAPI_SignUpAndSignIn(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/auth/signup", "", map[string]interface{}{
		"name":      "Alex",
		"gamer_tag": "alex99",
		"email":     "alex@example.com",
		"password":  "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var signup struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &signup)
	require.NotEmpty(t, signup.Token)
	require.Equal(t, "alex99", signup.User.GamerTag)

	resp = f.do(t, http.MethodPost, "/auth/signin", "", map[string]interface{}{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var signin struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &signin)
	require.NotEmpty(t, signin.Token)
	require.Equal(t, "alex99", signin.User.GamerTag)

	resp = f.do(t, http.MethodPost, "/auth/signin", "", map[string]interface{}{
		"email":    "alex@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_DivisionLifecycle(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	admin := f.addUser(t, "admin", models.RoleAdmin)
	adminToken := f.tokenFor(t, admin)

	// Division creation is admin-only.
	player := f.addUser(t, "playerx", models.RolePlayer)
	resp := f.do(t, http.MethodPost, "/divisions", f.tokenFor(t, player), map[string]interface{}{
		"name": "Division A", "platform": "PC", "league_id": 1, "slots": 4,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/divisions", adminToken, map[string]interface{}{
		"name": "Division A", "platform": "PC", "league_id": 1, "slots": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Division models.Division `json:"division"`
	}
	decodeBody(t, resp, &created)
	divisionID := created.Division.ID
	require.NotZero(t, divisionID)

	// Players register themselves.
	tokens := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		u := f.addUser(t, fmt.Sprintf("player%d", i), models.RolePlayer)
		tokens = append(tokens, f.tokenFor(t, u))
		resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/entries", divisionID), tokens[i], nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Fifth registration bounces off the slot cap.
	late := f.addUser(t, "latecomer", models.RolePlayer)
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/entries", divisionID), f.tokenFor(t, late), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Unauthenticated registration is rejected.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/entries", divisionID), "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Schedule generation, once.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/schedule", divisionID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var generated struct {
		Matches []models.Match `json:"matches"`
		Weeks   int            `json:"weeks"`
	}
	decodeBody(t, resp, &generated)
	require.Len(t, generated.Matches, 6)
	require.Equal(t, 3, generated.Weeks)

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/schedule", divisionID), adminToken, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Public reads.
	for _, path := range []string{
		"/leagues",
		"/divisions",
		fmt.Sprintf("/divisions/%d", divisionID),
		fmt.Sprintf("/divisions/%d/entries", divisionID),
		fmt.Sprintf("/divisions/%d/matches", divisionID),
		fmt.Sprintf("/divisions/%d/standings", divisionID),
	} {
		resp = f.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
		resp.Body.Close()
	}
}

func TestAPI_ScoreReportingAndDispute(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	admin := f.addUser(t, "admin", models.RoleAdmin)
	adminToken := f.tokenFor(t, admin)

	resp := f.do(t, http.MethodPost, "/divisions", adminToken, map[string]interface{}{
		"name": "Division A", "platform": "PC", "league_id": 1, "slots": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Division models.Division `json:"division"`
	}
	decodeBody(t, resp, &created)
	divisionID := created.Division.ID

	home := f.addUser(t, "home", models.RolePlayer)
	away := f.addUser(t, "away", models.RolePlayer)
	homeToken := f.tokenFor(t, home)
	awayToken := f.tokenFor(t, away)
	for _, token := range []string{homeToken, awayToken} {
		resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/entries", divisionID), token, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/schedule", divisionID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var generated struct {
		Matches []models.Match `json:"matches"`
	}
	decodeBody(t, resp, &generated)
	require.Len(t, generated.Matches, 1)
	matchID := generated.Matches[0].ID

	// First report leaves the match scheduled.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/score", matchID), homeToken, map[string]interface{}{
		"home_score": 3, "away_score": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reported struct {
		Match models.Match `json:"match"`
	}
	decodeBody(t, resp, &reported)
	require.Equal(t, models.MatchStatusScheduled, reported.Match.Status)

	// Conflicting second report disputes the match.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/score", matchID), awayToken, map[string]interface{}{
		"home_score": 1, "away_score": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &reported)
	require.Equal(t, models.MatchStatusDisputed, reported.Match.Status)

	// Evidence goes on the record.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/evidence", matchID), homeToken, map[string]interface{}{
		"evidence_url": "https://imgur.com/proof",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/evidence", matchID), homeToken, map[string]interface{}{
		"evidence_url": "not-a-url",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, fmt.Sprintf("/matches/%d/evidence", matchID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The dispute queue is admin-only.
	resp = f.do(t, http.MethodGet, "/disputes", homeToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/disputes", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var disputes struct {
		Matches []models.Match `json:"matches"`
	}
	decodeBody(t, resp, &disputes)
	require.Len(t, disputes.Matches, 1)

	// Resolution is admin-only and final.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/resolution", matchID), homeToken, map[string]interface{}{
		"home_score": 3, "away_score": 1,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/resolution", matchID), adminToken, map[string]interface{}{
		"home_score": 3, "away_score": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &reported)
	require.Equal(t, models.MatchStatusCompleted, reported.Match.Status)

	// Resolving a completed match conflicts.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/matches/%d/resolution", matchID), adminToken, map[string]interface{}{
		"home_score": 0, "away_score": 0,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Standings reflect the admin's ruling.
	resp = f.do(t, http.MethodGet, fmt.Sprintf("/divisions/%d/standings", divisionID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var table struct {
		Standings []models.Standing `json:"standings"`
	}
	decodeBody(t, resp, &table)
	require.Len(t, table.Standings, 2)
	require.Equal(t, 1, table.Standings[0].Wins)
	require.Equal(t, 2, table.Standings[0].PointDifferential)
}

func TestAPI_NotFoundAndBadIDs(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/divisions/999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/divisions/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/matches/999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_EntryPaymentAdminOnly(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	admin := f.addUser(t, "admin", models.RoleAdmin)
	adminToken := f.tokenFor(t, admin)

	resp := f.do(t, http.MethodPost, "/divisions", adminToken, map[string]interface{}{
		"name": "Division A", "platform": "PC", "league_id": 1, "slots": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Division models.Division `json:"division"`
	}
	decodeBody(t, resp, &created)

	player := f.addUser(t, "payer", models.RolePlayer)
	playerToken := f.tokenFor(t, player)
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/divisions/%d/entries", created.Division.ID), playerToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered struct {
		Entry models.Entry `json:"entry"`
	}
	decodeBody(t, resp, &registered)

	resp = f.do(t, http.MethodPatch, fmt.Sprintf("/entries/%d/payment", registered.Entry.ID), playerToken, map[string]interface{}{"paid": true})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPatch, fmt.Sprintf("/entries/%d/payment", registered.Entry.ID), adminToken, map[string]interface{}{"paid": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Entry models.Entry `json:"entry"`
	}
	decodeBody(t, resp, &updated)
	require.True(t, updated.Entry.Paid)
}
