package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frocha/mesada/internal/database"
	"github.com/frocha/mesada/internal/model"
	"github.com/frocha/mesada/internal/store"
	"github.com/frocha/mesada/internal/summary"
	"github.com/frocha/mesada/internal/websocket"
)

type testEnv struct {
	db          *sql.DB
	children    *ChildHandler
	tasks       *TaskHandler
	completions *CompletedTaskHandler
	summaries   *SummaryHandler

	childStore *store.ChildStore
	taskStore  *store.TaskStore
}

func setupHandlers(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.Default()
	hub := websocket.NewHub(logger)

	childStore := store.NewChildStore(db)
	taskStore := store.NewTaskStore(db)
	completionStore := store.NewCompletedTaskStore(db)
	svc := summary.NewService(completionStore, taskStore)

	return &testEnv{
		db:          db,
		children:    NewChildHandler(childStore, hub, logger),
		tasks:       NewTaskHandler(taskStore, hub, logger),
		completions: NewCompletedTaskHandler(completionStore, taskStore, childStore, hub, logger),
		summaries:   NewSummaryHandler(svc, logger),
		childStore:  childStore,
		taskStore:   taskStore,
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return v
}

func TestChildCreateValidation(t *testing.T) {
	env := setupHandlers(t)

	rec := postJSON(t, env.children.Create, "/api/children", map[string]string{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] == "" {
		t.Error("expected error message in body")
	}

	rec = postJSON(t, env.children.Create, "/api/children", map[string]string{"name": "Alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	child := decode[model.Child](t, rec)
	if child.Name != "Alice" || child.ID == "" {
		t.Errorf("got %+v", child)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	env := setupHandlers(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"value": 5}},
		{"negative value", map[string]any{"title": "X", "value": -1}},
		{"both flags", map[string]any{"title": "X", "value": 1, "isDiscount": true, "isBonus": true}},
	}
	for _, tc := range cases {
		rec := postJSON(t, env.tasks.Create, "/api/tasks", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}

	rec := postJSON(t, env.tasks.Create, "/api/tasks", map[string]any{"title": "Make bed", "value": 2.5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestTaskValueZeroAllowed(t *testing.T) {
	env := setupHandlers(t)

	rec := postJSON(t, env.tasks.Create, "/api/tasks", map[string]any{"title": "Unpaid chore", "value": 0})
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestToggleRoundTrip(t *testing.T) {
	env := setupHandlers(t)

	child, err := env.childStore.Create("Alice")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	task, err := env.taskStore.Create("Make bed", "", 2, false, false, 0)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	body := map[string]string{"taskId": task.ID, "childId": child.ID, "date": "2024-03-05"}

	rec := postJSON(t, env.completions.Toggle, "/api/completed-tasks/toggle", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first toggle status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	created := decode[model.CompletedTask](t, rec)
	if created.TaskID != task.ID || created.ChildID != child.ID {
		t.Errorf("got %+v", created)
	}

	rec = postJSON(t, env.completions.Toggle, "/api/completed-tasks/toggle", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("second toggle status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	msg := decode[map[string]string](t, rec)
	if msg["message"] != "Task uncompleted" {
		t.Errorf("message = %q, want %q", msg["message"], "Task uncompleted")
	}
}

func TestToggleUnknownTask(t *testing.T) {
	env := setupHandlers(t)

	child, _ := env.childStore.Create("Alice")
	body := map[string]string{"taskId": "no-such-task", "childId": child.ID, "date": "2024-03-05"}

	rec := postJSON(t, env.completions.Toggle, "/api/completed-tasks/toggle", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestDailySummaryEndpoint(t *testing.T) {
	env := setupHandlers(t)

	child, _ := env.childStore.Create("Alice")
	paid, _ := env.taskStore.Create("Make bed", "", 10, false, false, 0)
	discount, _ := env.taskStore.Create("Left light on", "", 2, true, false, 1)

	for _, task := range []string{paid.ID, discount.ID} {
		rec := postJSON(t, env.completions.Toggle, "/api/completed-tasks/toggle",
			map[string]string{"taskId": task, "childId": child.ID, "date": "2024-03-05"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("toggle status = %d (body: %s)", rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest("GET", "/api/daily-summary?childId="+child.ID+"&date=2024-03-05", nil)
	rec := httptest.NewRecorder()
	env.summaries.Daily(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	s := decode[model.DailySummary](t, rec)
	if s.TotalValue != 10 {
		t.Errorf("totalValue = %v, want 10 (discounts excluded)", s.TotalValue)
	}
	if s.CompletedTasks != 1 {
		t.Errorf("completedTasks = %d, want 1", s.CompletedTasks)
	}
	if s.TotalTasks != 1 {
		t.Errorf("totalTasks = %d, want 1", s.TotalTasks)
	}
	if s.TotalDiscountWeek != 2 {
		t.Errorf("totalDiscountWeek = %v, want 2", s.TotalDiscountWeek)
	}
}

func TestMonthlySummaryEndpoint(t *testing.T) {
	env := setupHandlers(t)

	child, _ := env.childStore.Create("Alice")
	paid, _ := env.taskStore.Create("Make bed", "", 10, false, false, 0)
	discount, _ := env.taskStore.Create("Left light on", "", 3, true, false, 1)

	for _, day := range []string{"2024-03-05", "2024-03-06"} {
		rec := postJSON(t, env.completions.Toggle, "/api/completed-tasks/toggle",
			map[string]string{"taskId": paid.ID, "childId": child.ID, "date": day})
		if rec.Code != http.StatusCreated {
			t.Fatalf("toggle status = %d (body: %s)", rec.Code, rec.Body.String())
		}
	}
	rec := postJSON(t, env.completions.Toggle, "/api/completed-tasks/toggle",
		map[string]string{"taskId": discount.ID, "childId": child.ID, "date": "2024-03-05"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("toggle status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest("GET", "/api/monthly-summary?childId="+child.ID+"&date=2024-03-15", nil)
	rec2 := httptest.NewRecorder()
	env.summaries.Monthly(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec2.Code, rec2.Body.String())
	}

	s := decode[model.MonthlySummary](t, rec2)
	if s.TotalValue != 17 {
		t.Errorf("totalValue = %v, want 17 (20 paid - 3 discount)", s.TotalValue)
	}
	if s.TotalDiscounts != 3 {
		t.Errorf("totalDiscounts = %v, want 3", s.TotalDiscounts)
	}
	if s.CompletedTasks != 2 {
		t.Errorf("completedTasks = %d, want 2", s.CompletedTasks)
	}
}

func TestSummaryMissingParams(t *testing.T) {
	env := setupHandlers(t)

	req := httptest.NewRequest("GET", "/api/daily-summary?date=2024-03-05", nil)
	rec := httptest.NewRecorder()
	env.summaries.Daily(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing childId: status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/daily-summary?childId=c1", nil)
	rec = httptest.NewRecorder()
	env.summaries.Daily(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing date: status = %d, want 400", rec.Code)
	}
}

func TestReorderEndpoint(t *testing.T) {
	env := setupHandlers(t)

	a, _ := env.taskStore.Create("A", "", 1, false, false, 0)
	b, _ := env.taskStore.Create("B", "", 1, false, false, 1)

	rec := postJSON(t, env.tasks.Reorder, "/api/tasks/reorder", map[string]any{"taskIds": []string{b.ID, a.ID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	tasks := decode[[]model.Task](t, rec)
	if len(tasks) != 2 || tasks[0].ID != b.ID || tasks[1].ID != a.ID {
		t.Errorf("unexpected order: %+v", tasks)
	}
}
