package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"puppy-admin/internal/common/config"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/common/validation"
	"puppy-admin/internal/models"
	"puppy-admin/internal/screens"
	"puppy-admin/internal/session"
	"puppy-admin/internal/waitlist"
)

type fakeWaitlist struct {
	mu      sync.Mutex
	apps    []models.WaitlistApplication
	listErr error
	updErr  error
	updates []string
}

func (f *fakeWaitlist) ListApplications(context.Context) ([]models.WaitlistApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.WaitlistApplication(nil), f.apps...), nil
}

func (f *fakeWaitlist) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+"="+string(status))
	return f.updErr
}

type fakePuppies struct {
	listErr error
	created []models.NewPuppy
}

func (f *fakePuppies) List(context.Context) ([]models.Puppy, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []models.Puppy{{ID: 1, Name: "Rex", Gender: models.GenderMale}}, nil
}

func (f *fakePuppies) Create(_ context.Context, in models.NewPuppy) (*models.Puppy, error) {
	f.created = append(f.created, in)
	d, _ := models.ParseDate(in.AvailableDate)
	return &models.Puppy{ID: int64(len(f.created)), Name: in.Name, Gender: in.Gender, AvailableDate: d, ImageURL: in.ImageURL}, nil
}

type fakeTestimonials struct {
	createErr error
}

func (f *fakeTestimonials) List(context.Context) ([]models.Testimonial, error) {
	return []models.Testimonial{}, nil
}

func (f *fakeTestimonials) Create(_ context.Context, in models.NewTestimonial) (*models.Testimonial, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Testimonial{ID: 1, Name: in.Name, Rating: in.Rating, Message: in.Message}, nil
}

type harness struct {
	srv          *Server
	store        *session.Store
	registry     *screens.Registry
	waitlist     *fakeWaitlist
	puppies      *fakePuppies
	testimonials *fakeTestimonials
	token        string
}

func pending(id, first, last string) models.WaitlistApplication {
	return models.WaitlistApplication{
		ID: id, FirstName: first, LastName: last,
		Email:           first + "@example.com",
		ApplicationDate: models.NewDate(2024, 3, 1),
		Status:          models.StatusPending,
	}
}

func newHarness(t *testing.T, checks ...HealthCheck) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	log := logger.NewNoOpLogger()
	store := session.NewStore(client, config.SessionConfig{KeyPrefix: "admin:session:", TTL: 3600}, clock, log)

	wl := &fakeWaitlist{apps: []models.WaitlistApplication{
		pending("1", "Jane", "Smith"),
		pending("2", "John", "Doe"),
	}}
	registry := screens.NewRegistry(screens.Config{IdleTTL: time.Hour, MaxScreens: 4},
		func(token string) waitlist.Service { return session.NewGuard(store, token, wl) },
		clock, nil, log)
	t.Cleanup(func() { registry.CloseAll(context.Background()) })

	validator, err := validation.NewValidator()
	require.NoError(t, err)

	h := &harness{
		store:        store,
		registry:     registry,
		waitlist:     wl,
		puppies:      &fakePuppies{},
		testimonials: &fakeTestimonials{},
	}
	h.srv = NewServer(Deps{
		Screens:      registry,
		MaxScreens:   4,
		Sessions:     store,
		Puppies:      h.puppies,
		Testimonials: h.testimonials,
		Validator:    validator,
		HealthChecks: checks,
		Clock:        clock,
		Logger:       log,
	})

	sess, err := store.Create(context.Background(), "admin@puppies.example")
	require.NoError(t, err)
	h.token = sess.Token
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return h.doAs(t, h.token, method, path, body)
}

func (h *harness) doAs(t *testing.T, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code     string                 `json:"code"`
		Details  string                 `json:"details"`
		Metadata map[string]interface{} `json:"metadata"`
	} `json:"error"`
}

type screenBody struct {
	ScreenID string `json:"screen_id"`
	View     struct {
		State string         `json:"state"`
		Error string         `json:"error"`
		Table *waitlist.Page `json:"table"`
		// detail is decoded loosely; only presence matters here
		Detail map[string]interface{} `json:"detail"`
	} `json:"view"`
}

type statusBody struct {
	screenBody
	Notifications []models.Notification `json:"notifications"`
	Error         *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (h *harness) open(t *testing.T) screenBody {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/admin/waitlist/screens", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[screenBody](t, rec)
}
