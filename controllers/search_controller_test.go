package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchTitles(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	videos, ok := body["videos"].([]interface{})
	require.True(t, ok)
	titles := make([]string, 0, len(videos))
	for _, v := range videos {
		titles = append(titles, v.(map[string]interface{})["title"].(string))
	}
	return titles
}

func TestSearchVideos(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	pythonista, _ := createUser(t, db, "pythonista", true)
	gopher, _ := createUser(t, db, "gopher", true)
	createVideo(t, db, pythonista, "Python Tutorial", "python-tutorial")
	createVideo(t, db, gopher, "Go Basics", "go-basics")

	// Khớp tiêu đề, không phân biệt hoa thường
	w := doRequest(r, "GET", "/search?q=python", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, float64(1), body["results_count"])
	assert.Equal(t, []string{"Python Tutorial"}, searchTitles(t, body))

	// Khớp username của creator
	w = doRequest(r, "GET", "/search?q=GOPHER", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = parseBody(t, w)
	assert.Equal(t, []string{"Go Basics"}, searchTitles(t, body))

	// Khớp mô tả
	w = doRequest(r, "GET", "/search?q="+url.QueryEscape("Mô tả cho video Go"), "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = parseBody(t, w)
	assert.Equal(t, []string{"Go Basics"}, searchTitles(t, body))
}

func TestSearchEmptyQuery(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	createVideo(t, db, creator, "Video A", "video-a")

	// Query rỗng không trả về toàn bộ catalog
	for _, path := range []string{"/search", "/search?q=", "/search?q=%20%20"} {
		w := doRequest(r, "GET", path, "", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		body := parseBody(t, w)
		assert.Equal(t, float64(0), body["results_count"])
	}
}

func TestSearchNoMatches(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	creator, _ := createUser(t, db, "creator1", true)
	createVideo(t, db, creator, "Video A", "video-a")

	w := doRequest(r, "GET", "/search?q=khongcogi", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), parseBody(t, w)["results_count"])
}
