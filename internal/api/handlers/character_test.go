package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dom/combat-tracker/internal/api/handlers"
	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/characters"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var empty []domain.Character
	testutil.AssertJSONResponse(t, resp, &empty)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	testutil.NewCharacterBuilder().WithName("Orc").Build(t, ts.Repos.Character)
	testutil.NewCharacterBuilder().WithName("Fighter").Build(t, ts.Repos.Character)

	resp2, err := http.Get(ts.APIURL("/characters"))
	require.NoError(t, err)
	defer resp2.Body.Close()

	var list []domain.Character
	testutil.AssertJSONResponse(t, resp2, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Orc", list[0].Name)
	assert.Equal(t, "Fighter", list[1].Name)
}

func TestCharacterHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "valid pc",
			body:           testutil.NewCharacterBuilder().WithName("Seoni").WithClass("Sorcerer", 4).WithInitiative(15).Insert(),
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var c domain.Character
				testutil.AssertJSONResponse(t, resp, &c)
				assert.NotZero(t, c.ID)
				assert.Equal(t, "Seoni", c.Name)
				require.NotNil(t, c.Initiative)
				assert.Equal(t, 15, *c.Initiative)
			},
		},
		{
			name:           "status none is stored as empty",
			body:           testutil.NewCharacterBuilder().AsNPC("Wolf", 1).WithStatus("none").Insert(),
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var c domain.Character
				testutil.AssertJSONResponse(t, resp, &c)
				assert.Equal(t, "", c.Status)
				assert.Nil(t, c.Class)
			},
		},
		{
			name:           "missing name",
			body:           testutil.NewCharacterBuilder().WithName("").Insert(),
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				body := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid character")
				assert.Equal(t, "Name is required", body.Fields["name"])
			},
		},
		{
			name:           "missing hp",
			body:           map[string]interface{}{"name": "Ghost", "type": "NPC"},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				body := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid character")
				assert.Contains(t, body.Fields, "maxHp")
				assert.Contains(t, body.Fields, "currentHp")
			},
		},
		{
			name:           "malformed body",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid request body")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/characters"), tt.body)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestCharacterHandler_CreateBatch(t *testing.T) {
	ts := testutil.NewTestServer(t)

	quantity := func(n int) *int { return &n }

	t.Run("goblins get numbered names", func(t *testing.T) {
		req := handlers.BatchCreateRequest{
			InsertCharacter: testutil.NewCharacterBuilder().AsNPC("Goblin", 0.33).WithHP(6, 6).Insert(),
			Quantity:        quantity(3),
		}
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/characters/batch"), req)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var created []domain.Character
		testutil.AssertJSONResponse(t, resp, &created)
		require.Len(t, created, 3)
		assert.Equal(t, "Goblin 1", created[0].Name)
		assert.Equal(t, "Goblin 2", created[1].Name)
		assert.Equal(t, "Goblin 3", created[2].Name)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		req := handlers.BatchCreateRequest{
			InsertCharacter: testutil.NewCharacterBuilder().AsNPC("Ogre", 3).Insert(),
		}
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/characters/batch"), req)
		defer resp.Body.Close()

		var created []domain.Character
		testutil.AssertJSONResponse(t, resp, &created)
		require.Len(t, created, 1)
		assert.Equal(t, "Ogre", created[0].Name)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		req := handlers.BatchCreateRequest{
			InsertCharacter: testutil.NewCharacterBuilder().AsNPC("Rat", 0).Insert(),
			Quantity:        quantity(0),
		}
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/characters/batch"), req)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("quantity above limit rejected", func(t *testing.T) {
		for _, n := range []int{domain.MaxBatchQuantity + 1, 1 << 40, 1 << 62} {
			req := handlers.BatchCreateRequest{
				InsertCharacter: testutil.NewCharacterBuilder().AsNPC("Rat", 0).Insert(),
				Quantity:        quantity(n),
			}
			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/characters/batch"), req)
			testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, domain.ErrInvalidQuantity.Error())
			resp.Body.Close()
		}
	})

	t.Run("blank base name rejected before numbering", func(t *testing.T) {
		before, err := ts.Repos.Character.List(context.Background())
		require.NoError(t, err)

		for _, name := range []string{"", "  "} {
			req := handlers.BatchCreateRequest{
				InsertCharacter: testutil.NewCharacterBuilder().AsNPC(name, 1).Insert(),
				Quantity:        quantity(3),
			}
			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/characters/batch"), req)
			body := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid character")
			assert.Equal(t, "Name is required", body.Fields["name"])
			resp.Body.Close()
		}

		after, err := ts.Repos.Character.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestCharacterHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c := testutil.NewCharacterBuilder().WithName("Kyra").Build(t, ts.Repos.Character)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedError  string
	}{
		{name: "existing", path: "/characters/1", expectedStatus: http.StatusOK},
		{name: "missing", path: "/characters/9999", expectedStatus: http.StatusNotFound, expectedError: "Character not found"},
		{name: "non numeric", path: "/characters/abc", expectedStatus: http.StatusBadRequest, expectedError: "Invalid character ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.APIURL(tt.path))
			require.NoError(t, err)
			defer resp.Body.Close()

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
				return
			}

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			var got domain.Character
			testutil.AssertJSONResponse(t, resp, &got)
			assert.Equal(t, c.ID, got.ID)
			assert.Equal(t, "Kyra", got.Name)
		})
	}
}

func TestCharacterHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c := testutil.NewCharacterBuilder().WithName("Valeros").WithHP(20, 20).Create(t, ts)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/characters/1"), map[string]interface{}{"currentHp": 7})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got domain.Character
		testutil.AssertJSONResponse(t, resp, &got)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, 7, got.CurrentHP)
		assert.Equal(t, 20, got.MaxHP)
		assert.Equal(t, "Valeros", got.Name)
	})

	t.Run("invalid merged state rejected", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/characters/1"), map[string]interface{}{"status": "Sleepy"})
		defer resp.Body.Close()

		body := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid character")
		assert.Equal(t, "Unknown condition", body.Fields["status"])
	})

	t.Run("bad id", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/characters/x1"), map[string]interface{}{"currentHp": 1})
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid character ID")
	})

	t.Run("missing id is not found", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/characters/9999"), map[string]interface{}{"currentHp": 1})
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Character not found")
	})
}

func TestCharacterHandler_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewCharacterBuilder().Build(t, ts.Repos.Character)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "existing", path: "/characters/1", expectedStatus: http.StatusNoContent},
		{name: "already deleted", path: "/characters/1", expectedStatus: http.StatusNoContent},
		{name: "non numeric", path: "/characters/one", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodDelete, ts.APIURL(tt.path), nil)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	list, err := ts.Services.Character.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, list)
}
