package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/phronisis/apps/api/echo"
	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
	"github.com/trezcool/phronisis/core/review"
	"github.com/trezcool/phronisis/core/user"
	emailsvc "github.com/trezcool/phronisis/services/email"
	inmemdb "github.com/trezcool/phronisis/storage/database/inmem"
	testutil "github.com/trezcool/phronisis/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	app  *echoapi.Server
	conf *core.Config

	usrRepo   user.Repository
	artRepo   artifact.Repository
	revRepo   review.Repository
	progRepo  progress.Repository
	eventRepo event.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	conf.ContentDir = t.TempDir()
	logger := testutil.NewLogger()
	emailsvc.ClearSentMessages()

	loader := content.NewLoader(conf.ContentDir, logger)
	for _, p := range testCatalog() {
		if err := loader.Save(p); err != nil {
			t.Fatalf("saving perspective fixture: %v", err)
		}
	}

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	artRepo := inmemdb.NewArtifactRepository(db)
	revRepo := inmemdb.NewReviewRepository(db)
	progRepo := inmemdb.NewProgressRepository(db)
	eventRepo := inmemdb.NewEventRepository(db)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	eventSvc := event.NewService(eventRepo, logger, nil)
	contentSvc, err := content.NewService(loader, logger, nil)
	if err != nil {
		t.Fatalf("content.NewService(): %v", err)
	}
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	progressSvc := progress.NewService(progRepo, contentSvc, eventSvc)
	artifactSvc := artifact.NewService(artRepo, contentSvc, eventSvc)
	reviewSvc := review.NewService(revRepo, artifactSvc, progressSvc, usrSvc, eventSvc, mailSvc, conf)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		UserSvc:     usrSvc,
		ContentSvc:  contentSvc,
		ProgressSvc: progressSvc,
		ArtifactSvc: artifactSvc,
		ReviewSvc:   reviewSvc,
		EventSvc:    eventSvc,
	})

	return &testApp{
		app:       app,
		conf:      conf,
		usrRepo:   usrRepo,
		artRepo:   artRepo,
		revRepo:   revRepo,
		progRepo:  progRepo,
		eventRepo: eventRepo,
	}
}

// testCatalog is the perspective fixture served by every test server.
func testCatalog() []content.Perspective {
	return []content.Perspective{
		{
			Slug:    "understanding-arguments",
			Title:   "Understanding Arguments",
			Summary: "Learn to spot claims and the reasons behind them.",
			Order:   1,
			Lessons: []content.Lesson{
				{
					ID:       "what-is-an-argument",
					Title:    "What Is an Argument?",
					KeyIdeas: []string{"An argument is a claim supported by reasons."},
					QuickChecks: []content.QuickCheck{
						{
							Question:    "Which of these is an argument?",
							Choices:     []string{"The sky is blue.", "You should sleep more because rest improves focus."},
							AnswerIndex: 1,
							Feedback:    []string{"A bare statement gives no reasons.", "Right, a claim backed by a reason."},
						},
					},
					Minigame: &content.Minigame{
						Type:          content.MinigameChoice,
						Title:         "Spot the Argument",
						Prompt:        "Pick the statement that argues for something.",
						Options:       []string{"Water boils at 100C.", "Buy local because it cuts emissions."},
						CorrectOption: "Buy local because it cuts emissions.",
						Explanation:   "It gives a reason for a claim.",
					},
				},
				{
					ID:    "premises-and-conclusions",
					Title: "Premises and Conclusions",
					Minigame: &content.Minigame{
						Type:   content.MinigameSlider,
						Title:  "Confidence Meter",
						Prompt: "How confident are you in the conclusion?",
					},
				},
			},
			CreatorChallenge: &content.CreatorChallenge{
				Prompt:   "Write a short argument on a topic you care about.",
				Criteria: []string{"One clear claim", "At least two supporting reasons"},
			},
			Resources: []content.Resource{
				{Label: "Stanford Encyclopedia: Argument", URL: "https://plato.stanford.edu/entries/argument/"},
			},
		},
		{
			Slug:    "digital-media-literacy",
			Title:   "Digital Media Literacy",
			Summary: "Judge the reliability of what you read online.",
			Order:   2,
			Lessons: []content.Lesson{
				{
					ID:       "evaluating-sources",
					Title:    "Evaluating Sources",
					KeyIdeas: []string{"Check who published it and why."},
				},
			},
		},
	}
}

func countEvents(t *testing.T, repo event.Repository, eventType string) int {
	t.Helper()

	events, err := repo.QueryRecentEvents(context.Background(), event.RecentLimit)
	if err != nil {
		t.Fatalf("QueryRecentEvents(): %v", err)
	}
	var count int
	for _, ev := range events {
		if ev.Type == eventType {
			count++
		}
	}
	return count
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, a *testApp, usr user.User) string {
	claims := echoapi.GetUserClaims(usr, a.conf)
	token, err := echoapi.GenerateToken(claims, a.conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
