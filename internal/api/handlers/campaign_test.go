package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/emblem-vtt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignHandler_AccessControl(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := &http.Client{}

	dm, dmToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	player, playerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, outsiderToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		token          string
		expectedStatus int
	}{
		{
			name:           "dm reads the campaign",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String(),
			token:          dmToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "player reads the campaign",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String(),
			token:          playerToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-member gets forbidden, not not-found",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String(),
			token:          outsiderToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing token is unauthorized",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String(),
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token is unauthorized",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String(),
			token:          "not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "member lists the roster",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String() + "/members",
			token:          playerToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-member cannot list the roster",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String() + "/members",
			token:          outsiderToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "player cannot manage the roster",
			method: http.MethodPut,
			path:   "/campaigns/" + campaign.ID.String() + "/members",
			body: map[string]string{
				"email": player.Email,
				"role":  "DM",
			},
			token:          playerToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "dm reads the audit log",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String() + "/audit",
			token:          dmToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "player cannot read the audit log",
			method:         http.MethodGet,
			path:           "/campaigns/" + campaign.ID.String() + "/audit",
			token:          playerToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "malformed campaign id",
			method:         http.MethodGet,
			path:           "/campaigns/not-a-uuid",
			token:          dmToken,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, tt.method, ts.APIURL(tt.path), tt.body, tt.token)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCampaignHandler_CreateAndList(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := &http.Client{}

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("create returns the new campaign", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/campaigns"), map[string]string{
			"name":        "Path of Radiance",
			"description": "Continent of Tellius",
		}, token)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusCreated)
		var created struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		testutil.AssertJSONResponse(t, resp, &created)
		assert.Equal(t, "Path of Radiance", created.Name)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("list returns only the caller's campaigns", func(t *testing.T) {
		testutil.NewCampaignBuilder().Build(t, ts.DB.DB) // someone else's

		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/campaigns"), nil, token)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var campaigns []struct {
			Name string `json:"name"`
		}
		testutil.AssertJSONResponse(t, resp, &campaigns)
		require.Len(t, campaigns, 1)
		assert.Equal(t, "Path of Radiance", campaigns[0].Name)
	})
}
