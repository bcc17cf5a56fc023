package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edurate/models"
	"edurate/services"
	"edurate/vote"
)

func writeData(t *testing.T, w http.ResponseWriter, status int, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data}))
}

func TestListCoursesSendsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses", r.URL.Path)
		assert.Equal(t, "intro", r.URL.Query().Get("search"))
		assert.Equal(t, "Computer Science", r.URL.Query().Get("department"))
		writeData(t, w, http.StatusOK, []models.Course{{ID: 1, Code: "CS101", Rating: 4.5, NumReviews: 2}})
	}))
	defer srv.Close()

	courses, err := New(srv.URL).ListCourses(context.Background(), services.Filter{Search: "intro", Department: "Computer Science"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.Equal(t, 4.5, courses[0].Rating)
}

func TestListCoursesWithoutFilterHasNoQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeData(t, w, http.StatusOK, []models.Course{})
	}))
	defer srv.Close()

	courses, err := New(srv.URL + "/").ListCourses(context.Background(), services.Filter{})
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCourseDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/courses/7":
			writeData(t, w, http.StatusOK, models.Course{ID: 7, Name: "Linear Algebra"})
		case "/api/courses/7/reviews":
			writeData(t, w, http.StatusOK, []models.Review{{ID: 3, CourseID: 7, Rating: 5}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	course, reviews, err := New(srv.URL).CourseDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", course.Name)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"error":"Course not found"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetCourse(context.Background(), 99)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Course not found", apiErr.Error())
}

func TestAPIErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Departments(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "server error: Bad Gateway", apiErr.Message)
}

func TestSubmitReviewOmitsEmptyName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/courses/2/reviews", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 4.0, body["rating"])
		assert.Equal(t, "Clear lectures and fair exams", body["comment"])
		assert.NotContains(t, body, "student_name")
		writeData(t, w, http.StatusCreated, models.Review{ID: 10, CourseID: 2, Rating: 4, StudentName: models.AnonymousName})
	}))
	defer srv.Close()

	created, err := New(srv.URL).SubmitReview(context.Background(), 2, 4, "Clear lectures and fair exams", "")
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousName, created.StudentName)
}

func TestVoteSendsSwitchFrom(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/courses/1/reviews/5/downvote", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "up", body["switch_from"])
		writeData(t, w, http.StatusOK, models.Review{ID: 5, Upvotes: 0, Downvotes: 1})
	}))
	defer srv.Close()

	updated, err := New(srv.URL).Vote(context.Background(), 1, 5, vote.Down, vote.Up)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Downvotes)
	assert.EqualValues(t, 1, calls.Load())
}

func TestVoteFirstTimeSendsNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses/1/reviews/5/upvote", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		assert.Empty(t, data)
		writeData(t, w, http.StatusOK, models.Review{ID: 5, Upvotes: 1})
	}))
	defer srv.Close()

	updated, err := New(srv.URL).Vote(context.Background(), 1, 5, vote.Up, vote.None)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Upvotes)
}

func TestVoteRejectsNoDirection(t *testing.T) {
	_, err := New("http://127.0.0.1:1").Vote(context.Background(), 1, 5, vote.None, vote.None)
	assert.Error(t, err)
}

func TestScorerDrivesClient(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeData(t, w, http.StatusOK, models.Review{ID: 5})
	}))
	defer srv.Close()

	s := vote.NewScorer(New(srv.URL), nil)
	ctx := context.Background()

	_, err := s.Cast(ctx, 1, 5, vote.Up)
	require.NoError(t, err)
	_, err = s.Cast(ctx, 1, 5, vote.Up)
	require.NoError(t, err)
	_, err = s.Cast(ctx, 1, 5, vote.Down)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/courses/1/reviews/5/upvote",
		"/api/courses/1/reviews/5/downvote",
	}, paths)
}
