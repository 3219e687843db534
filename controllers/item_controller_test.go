package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"genapi/models"
)

func createItem(t *testing.T, api *testAPI, token string, body map[string]any) map[string]any {
	w := api.do(t, http.MethodPost, "/items", token, body)
	assert.Equal(t, http.StatusCreated, w.Code)
	return decodeEnvelope(t, w).Data.(map[string]any)
}

func TestItemEndpoints(t *testing.T) {
	t.Run("Create records the author", func(t *testing.T) {
		api := setupAPI(t)
		user, token := api.registerAndLogin(t, "testuser", 0)

		data := createItem(t, api, token, map[string]any{
			"title": "First Post", "slug": "first-post",
		})
		assert.Equal(t, float64(user.ID), data["user_id"])
		assert.Equal(t, models.ItemStatusDraft, data["status"])
	})

	t.Run("Show is public and counts views", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.registerAndLogin(t, "testuser", 0)
		data := createItem(t, api, token, map[string]any{
			"title": "Post", "slug": "post",
		})
		id := itoa(data["id"].(float64))

		w := api.do(t, http.MethodGet, "/items/"+id, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeEnvelope(t, w).Data.(map[string]any)["view_count"])

		w = api.do(t, http.MethodGet, "/items/"+id, "", nil)
		assert.Equal(t, float64(2), decodeEnvelope(t, w).Data.(map[string]any)["view_count"])
	})

	t.Run("List filters by status", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.registerAndLogin(t, "testuser", 0)
		createItem(t, api, token, map[string]any{
			"title": "Draft", "slug": "draft",
		})
		createItem(t, api, token, map[string]any{
			"title": "Live", "slug": "live", "status": models.ItemStatusPublished,
		})

		w := api.do(t, http.MethodGet, "/items?status=published", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeEnvelope(t, w).Data.(map[string]any)
		items := data["items"].([]any)
		assert.Len(t, items, 1)
		assert.Equal(t, "Live", items[0].(map[string]any)["title"])
	})

	t.Run("Like and share", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.registerAndLogin(t, "testuser", 0)
		data := createItem(t, api, token, map[string]any{
			"title": "Post", "slug": "post",
		})
		id := itoa(data["id"].(float64))

		w := api.do(t, http.MethodPost, "/items/"+id+"/like", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeEnvelope(t, w).Data.(map[string]any)["like_count"])

		w = api.do(t, http.MethodPost, "/items/"+id+"/share", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeEnvelope(t, w).Data.(map[string]any)["share_count"])
	})

	t.Run("Related items", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.registerAndLogin(t, "testuser", 0)

		w := api.do(t, http.MethodPost, "/categories", token, map[string]any{
			"name": "Technology", "slug": "technology",
		})
		categoryID := decodeEnvelope(t, w).Data.(map[string]any)["id"].(float64)

		base := createItem(t, api, token, map[string]any{
			"title": "Base", "slug": "base",
			"status": models.ItemStatusPublished, "category_id": categoryID,
		})
		createItem(t, api, token, map[string]any{
			"title": "Sibling", "slug": "sibling",
			"status": models.ItemStatusPublished, "category_id": categoryID,
		})

		w = api.do(t, http.MethodGet, "/items/"+itoa(base["id"].(float64))+"/related", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		related := decodeEnvelope(t, w).Data.([]any)
		assert.Len(t, related, 1)
		assert.Equal(t, "Sibling", related[0].(map[string]any)["title"])
	})

	t.Run("Update and delete need a token", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.registerAndLogin(t, "testuser", 0)
		data := createItem(t, api, token, map[string]any{
			"title": "Post", "slug": "post",
		})
		id := itoa(data["id"].(float64))

		w := api.do(t, http.MethodPut, "/items/"+id, "", map[string]any{"title": "X"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = api.do(t, http.MethodPut, "/items/"+id, token, map[string]any{"title": "Renamed"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Renamed", decodeEnvelope(t, w).Data.(map[string]any)["title"])

		w = api.do(t, http.MethodDelete, "/items/"+id, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = api.do(t, http.MethodGet, "/items/"+id, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid status rejected", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.registerAndLogin(t, "testuser", 0)

		w := api.do(t, http.MethodPost, "/items", token, map[string]any{
			"title": "Post", "slug": "post", "status": "live",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
