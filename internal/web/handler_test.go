package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/web"
	mocks "github.com/UnknownOlympus/hestia/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	taskA = models.Task{ID: "a1", AssignedTo: "User 1", Status: models.StatusCompleted, DueDate: "2025-04-01",
		Priority: models.PriorityHigh, Description: "Replace fiber"}
	taskB = models.Task{ID: "b2", AssignedTo: "User 2", Status: models.StatusInProgress, DueDate: "2025-04-02",
		Priority: models.PriorityLow, Description: "Order cable"}
)

type browser struct {
	t       *testing.T
	baseURL string
	http    *http.Client
}

func newBrowser(t *testing.T, initial ...models.Task) (*browser, *mocks.TaskService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := mocks.NewTaskService(t)
	service.On("List", mock.Anything).Return(initial, nil).Once()

	sessions := web.NewSessions(logger, service, metrics.NewMetrics(prometheus.NewRegistry()))
	router, err := web.NewRouter(logger, sessions)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &browser{t: t, baseURL: server.URL, http: client.CreateHTTPClient(logger, 0)}, service
}

func (b *browser) open() *goquery.Document {
	b.t.Helper()

	resp, err := b.http.Get(b.baseURL + "/")
	require.NoError(b.t, err)

	return b.parse(resp)
}

func (b *browser) submit(path string, form url.Values) *goquery.Document {
	b.t.Helper()

	resp, err := b.http.PostForm(b.baseURL+path, form)
	require.NoError(b.t, err)

	return b.parse(resp)
}

func (b *browser) parse(resp *http.Response) *goquery.Document {
	b.t.Helper()
	defer resp.Body.Close()

	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(b.t, err)

	return doc
}

func rowIDs(doc *goquery.Document) []string {
	ids := make([]string, 0)
	doc.Find("#tasks tbody tr").Each(func(_ int, row *goquery.Selection) {
		id, _ := row.Attr("data-task-id")
		ids = append(ids, id)
	})
	return ids
}

func draftForm(draft models.Draft) url.Values {
	return url.Values{
		"assignedTo":  {draft.AssignedTo},
		"status":      {string(draft.Status)},
		"dueDate":     {draft.DueDate},
		"priority":    {string(draft.Priority)},
		"description": {draft.Description},
	}
}

func TestBoard_Render(t *testing.T) {
	t.Parallel()
	b, _ := newBrowser(t, taskA, taskB)

	doc := b.open()

	assert.Equal(t, []string{"a1", "b2"}, rowIDs(doc))
	assert.Equal(t, "2 records", doc.Find("#records").Text())

	row := doc.Find(`tr[data-task-id="a1"]`)
	assert.Equal(t, "User 1", row.Find(".assigned").Text())
	assert.True(t, row.Find(".status").HasClass("text-green"))
	assert.True(t, row.Find(".priority").HasClass("text-red"))
	assert.Equal(t, "Replace fiber", row.Find(".description").Text())

	rowB := doc.Find(`tr[data-task-id="b2"]`)
	assert.True(t, rowB.Find(".status").HasClass("text-blue"))
	assert.True(t, rowB.Find(".priority").HasClass("text-green"))

	assert.Equal(t, 0, doc.Find(".menu").Length())
	assert.Equal(t, 0, doc.Find(".modal").Length())
	assert.Equal(t, 3, doc.Find(`#pagination select option`).Length())

	// reloading the page does not fetch the list again
	assert.Equal(t, []string{"a1", "b2"}, rowIDs(b.open()))
}

func TestBoard_Refresh(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA)
	b.open()

	service.On("List", mock.Anything).Return([]models.Task{taskB, taskA}, nil).Once()
	doc := b.submit("/refresh", nil)

	assert.Equal(t, []string{"b2", "a1"}, rowIDs(doc))
}

func TestBoard_RefreshFailure(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA)
	b.open()

	service.On("List", mock.Anything).Return(nil, client.ErrNetwork).Once()
	doc := b.submit("/refresh", nil)

	assert.Equal(t, []string{"a1"}, rowIDs(doc))
	kind, _ := doc.Find("#notice").Attr("data-kind")
	assert.Equal(t, "network", kind)
}

func TestBoard_DropdownExclusive(t *testing.T) {
	t.Parallel()
	b, _ := newBrowser(t, taskA, taskB)
	b.open()

	doc := b.submit("/tasks/b2/menu", nil)
	assert.Equal(t, 1, doc.Find(`tr[data-task-id="b2"] .menu`).Length())

	doc = b.submit("/tasks/a1/menu", nil)
	assert.Equal(t, 1, doc.Find(`tr[data-task-id="a1"] .menu`).Length())
	assert.Equal(t, 0, doc.Find(`tr[data-task-id="b2"] .menu`).Length())

	doc = b.submit("/tasks/a1/menu", nil)
	assert.Equal(t, 0, doc.Find(".menu").Length())
}

func TestBoard_CreateTask(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA)
	b.open()

	doc := b.submit("/tasks/new", nil)
	require.Equal(t, "New Task", doc.Find("#task-modal h2").Text())
	assert.Equal(t, "", doc.Find(`select[name="assignedTo"] option[selected]`).Text())
	assert.Equal(t, "Not Started", doc.Find(`select[name="status"] option[selected]`).Text())
	assert.Equal(t, "Normal", doc.Find(`select[name="priority"] option[selected]`).Text())
	action, _ := doc.Find("#task-form").Attr("action")
	assert.Equal(t, "/tasks/create", action)

	draft := models.Draft{AssignedTo: "User 4", Status: models.StatusNotStarted, DueDate: "2025-05-05",
		Priority: models.PriorityNormal, Description: "Survey site"}
	service.On("Create", mock.Anything, draft).Return(draft.WithID("c3"), nil).Once()

	doc = b.submit("/tasks/create", draftForm(draft))

	assert.Equal(t, []string{"a1", "c3"}, rowIDs(doc))
	assert.Equal(t, 0, doc.Find(".modal").Length())
	assert.Equal(t, "2 records", doc.Find("#records").Text())
}

func TestBoard_CreateRequiresAssignee(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t)
	b.open()
	b.submit("/tasks/new", nil)

	draft := models.NewDraft()
	draft.Description = "nobody"
	doc := b.submit("/tasks/create", draftForm(draft))

	service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 1, doc.Find("#task-modal").Length())
	assert.Equal(t, "nobody", doc.Find(`textarea[name="description"]`).Text())
	kind, _ := doc.Find("#notice").Attr("data-kind")
	assert.Equal(t, "validation", kind)
}

func TestBoard_CreateFailureKeepsDialog(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA)
	b.open()
	b.submit("/tasks/new", nil)

	draft := models.Draft{AssignedTo: "User 2", Status: models.StatusNotStarted, Priority: models.PriorityNormal}
	service.On("Create", mock.Anything, draft).Return(models.Task{}, client.ErrServer).Once()

	doc := b.submit("/tasks/create", draftForm(draft))

	assert.Equal(t, []string{"a1"}, rowIDs(doc))
	assert.Equal(t, 1, doc.Find("#task-modal").Length())
	assert.Equal(t, "User 2", doc.Find(`select[name="assignedTo"] option[selected]`).Text())
	kind, _ := doc.Find("#notice").Attr("data-kind")
	assert.Equal(t, "server", kind)
}

func TestBoard_EditTask(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA, taskB)
	b.open()
	b.submit("/tasks/a1/menu", nil)

	doc := b.submit("/tasks/a1/edit", nil)
	require.Equal(t, "Edit Task", doc.Find("#task-modal h2").Text())
	assert.Equal(t, 0, doc.Find(".menu").Length())
	assert.Equal(t, "User 1", doc.Find(`select[name="assignedTo"] option[selected]`).Text())
	assert.Equal(t, "Completed", doc.Find(`select[name="status"] option[selected]`).Text())
	dueDate, _ := doc.Find(`input[name="dueDate"]`).Attr("value")
	assert.Equal(t, "2025-04-01", dueDate)
	action, _ := doc.Find("#task-form").Attr("action")
	assert.Equal(t, "/tasks/a1/update", action)

	draft := models.DraftFromTask(taskA)
	draft.Description = "Replace fiber and splice"
	service.On("Update", mock.Anything, "a1", draft).Return(draft.WithID("a1"), nil).Once()

	doc = b.submit("/tasks/a1/update", draftForm(draft))

	assert.Equal(t, []string{"a1", "b2"}, rowIDs(doc))
	assert.Equal(t, "Replace fiber and splice", doc.Find(`tr[data-task-id="a1"] .description`).Text())
	assert.Equal(t, 0, doc.Find(".modal").Length())
}

func TestBoard_EditKeepsUnknownValues(t *testing.T) {
	t.Parallel()
	legacy := models.Task{ID: "l9", AssignedTo: "User 3", Status: models.Status("Blocked"), DueDate: "2025-03-03",
		Priority: models.Priority("Urgent"), Description: "imported"}
	b, service := newBrowser(t, legacy)
	b.open()

	doc := b.submit("/tasks/l9/edit", nil)

	status := doc.Find(`select[name="status"] option[selected]`)
	require.Equal(t, 1, status.Length())
	assert.Equal(t, "Blocked", status.Text())
	priority := doc.Find(`select[name="priority"] option[selected]`)
	require.Equal(t, 1, priority.Length())
	assert.Equal(t, "Urgent", priority.Text())

	draft := models.DraftFromTask(legacy)
	service.On("Update", mock.Anything, "l9", draft).Return(legacy, nil).Once()

	doc = b.submit("/tasks/l9/update", draftForm(draft))

	assert.Equal(t, 0, doc.Find(".modal").Length())
}

func TestBoard_UpdateWrongTarget(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA, taskB)
	b.open()
	b.submit("/tasks/a1/edit", nil)

	doc := b.submit("/tasks/b2/update", draftForm(models.DraftFromTask(taskB)))

	service.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, doc.Find("#task-modal").Length())
}

func TestBoard_DeleteTask(t *testing.T) {
	t.Parallel()
	b, service := newBrowser(t, taskA, taskB)
	b.open()
	b.submit("/tasks/b2/menu", nil)

	doc := b.submit("/tasks/b2/delete", nil)
	require.Equal(t, 1, doc.Find("#delete-modal").Length())
	assert.Contains(t, doc.Find("#delete-modal p").Text(), "Do you want to delete task User 2?")

	doc = b.submit("/dialog/cancel", nil)
	assert.Equal(t, 0, doc.Find(".modal").Length())
	assert.Equal(t, []string{"a1", "b2"}, rowIDs(doc))
	service.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	service.On("Delete", mock.Anything, "b2").Return(nil).Once()
	b.submit("/tasks/b2/delete", nil)
	doc = b.submit("/tasks/b2/delete/confirm", nil)

	assert.Equal(t, []string{"a1"}, rowIDs(doc))
	assert.Equal(t, 0, doc.Find(".modal").Length())
}

func TestSessions_Isolated(t *testing.T) {
	t.Parallel()
	first, service := newBrowser(t, taskA)
	first.open()
	first.submit("/tasks/new", nil)

	second := &browser{t: t, baseURL: first.baseURL, http: client.CreateHTTPClient(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)}
	service.On("List", mock.Anything).Return([]models.Task{taskA}, nil).Once()
	doc := second.open()

	assert.Equal(t, 0, doc.Find(".modal").Length())
	assert.Equal(t, []string{"a1"}, rowIDs(doc))
}

func TestColors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text-gray", web.StatusColor(models.StatusNotStarted))
	assert.Equal(t, "text-gray", web.StatusColor(models.Status("Blocked")))
	assert.Equal(t, "text-yellow", web.PriorityColor(models.PriorityNormal))
	assert.Equal(t, "text-gray", web.PriorityColor(models.Priority("")))
}
