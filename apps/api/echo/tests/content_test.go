package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/phronisis/apps/api/echo"
	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/progress"
	testutil "github.com/trezcool/phronisis/tests"
)

func completeLesson(t *testing.T, a *testApp, userID, slug, lessonID string) {
	t.Helper()

	_, err := a.progRepo.CreateProgress(context.Background(), progress.Progress{
		UserID:          userID,
		PerspectiveSlug: slug,
		LessonID:        lessonID,
		Status:          progress.StatusCompleted,
		Score:           100,
		UpdatedAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
}

func Test_contentApi_list(t *testing.T) {
	a := setup(t)

	learner := testutil.CreateUser(t, a.usrRepo, "Hero", "hero@test.cd", "", false)
	token := getToken(t, a, learner)

	fresh := []echoapi.PerspectiveListItem{
		{Slug: "understanding-arguments", Title: "Understanding Arguments", Summary: "Learn to spot claims and the reasons behind them.", Order: 1, LessonCount: 2},
		{Slug: "digital-media-literacy", Title: "Digital Media Literacy", Summary: "Judge the reliability of what you read online.", Order: 2, LessonCount: 1},
	}

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/perspectives")
		a.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("fresh catalog", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/perspectives", token)
		a.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, fresh)}, rec)
	})

	t.Run("completion moves the percent", func(t *testing.T) {
		completeLesson(t, a, learner.ID, "understanding-arguments", "what-is-an-argument")

		want := make([]echoapi.PerspectiveListItem, len(fresh))
		copy(want, fresh)
		want[0].Percent = 50

		req, rec := newAuthRequest(http.MethodGet, "/v1/perspectives", token)
		a.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}, rec)
	})
}

func Test_contentApi_retrieve(t *testing.T) {
	a := setup(t)

	learner := testutil.CreateUser(t, a.usrRepo, "Hero", "hero@test.cd", "", false)
	token := getToken(t, a, learner)
	p := testCatalog()[0]

	detail := func(challengeDone bool, lessons ...echoapi.LessonDetail) []byte {
		return marchallObj(t, echoapi.PerspectiveDetail{
			Slug:               p.Slug,
			Title:              p.Title,
			Summary:            p.Summary,
			Order:              p.Order,
			Lessons:            lessons,
			CreatorChallenge:   p.CreatorChallenge,
			Resources:          p.Resources,
			ChallengeCompleted: challengeDone,
		})
	}

	t.Run("unknown slug", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/perspectives/ghost", token)
		a.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("fresh detail", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/perspectives/"+p.Slug, token)
		a.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: detail(false,
				echoapi.LessonDetail{Lesson: p.Lessons[0], Status: progress.StatusNotStarted},
				echoapi.LessonDetail{Lesson: p.Lessons[1], Status: progress.StatusNotStarted},
			),
		}, rec)
	})

	t.Run("progress shows up per lesson", func(t *testing.T) {
		completeLesson(t, a, learner.ID, p.Slug, p.Lessons[0].ID)
		completeLesson(t, a, learner.ID, p.Slug, progress.ChallengeLessonID)

		req, rec := newAuthRequest(http.MethodGet, "/v1/perspectives/"+p.Slug, token)
		a.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: detail(true,
				echoapi.LessonDetail{Lesson: p.Lessons[0], Status: progress.StatusCompleted, Score: 100},
				echoapi.LessonDetail{Lesson: p.Lessons[1], Status: progress.StatusNotStarted},
			),
		}, rec)
	})
}

func Test_contentApi_upload(t *testing.T) {
	a := setup(t)

	admin := testutil.CreateUser(t, a.usrRepo, "Admin", "admin@test.cd", "", true)
	learner := testutil.CreateUser(t, a.usrRepo, "Hero", "hero@test.cd", "", false)
	adminToken := getToken(t, a, admin)

	reqMsg := "this field is required"
	valid := content.Perspective{
		Slug:    "fresh-perspective",
		Title:   "Fresh Perspective",
		Summary: "Brand new.",
		Order:   3,
		Lessons: []content.Lesson{{ID: "only-lesson", Title: "Only Lesson"}},
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, a, learner), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "required fields", token: adminToken, wantCode: http.StatusBadRequest,
			body: []byte(`{}`),
			wantData: marchallObj(t, map[string]string{
				"slug":    reqMsg,
				"title":   reqMsg,
				"summary": reqMsg,
				"order":   reqMsg,
				"lessons": reqMsg,
			}),
		},
		{
			name: "invalid slug", token: adminToken, wantCode: http.StatusBadRequest,
			body: marchallObj(t, content.Perspective{
				Slug:    "Not A Slug",
				Title:   "T",
				Summary: "S",
				Order:   1,
				Lessons: []content.Lesson{{ID: "l1", Title: "L1"}},
			}),
			wantData: marchallObj(t, map[string]string{"slug": "only lowercase alphanumeric characters and hyphens are allowed"}),
		},
		{
			name: "upload succeeds", token: adminToken, wantCode: http.StatusCreated,
			body:     marchallObj(t, valid),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Perspective saved."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/perspectives"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			a.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("uploaded perspective is served", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/perspectives/fresh-perspective", adminToken)
		a.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}
