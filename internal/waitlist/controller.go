// internal/waitlist/controller.go
package waitlist

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/common/metrics"
	"puppy-admin/internal/models"
)

// State is the lifecycle state of the record collection.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

const DefaultPageSize = 10

// Options configures a Controller.
type Options struct {
	PageSize   int
	OnDecision DecisionHook
}

// View is the full rendering of a screen. Page is nil unless State is ready.
type View struct {
	State  State                       `json:"state"`
	Error  string                      `json:"error,omitempty"`
	Page   *Page                       `json:"table,omitempty"`
	Detail *models.WaitlistApplication `json:"detail,omitempty"`
}

// Controller owns one screen's copy of the waitlist. Its mutex is never held
// across a remote call.
type Controller struct {
	service    Service
	notifier   Notifier
	onDecision DecisionHook
	pageSize   int
	log        logger.Logger

	mu       sync.Mutex
	state    State
	message  string
	records  []models.WaitlistApplication
	filter   string
	sort     *Sort
	page     int
	hidden   map[Column]bool
	selected map[string]bool
	updating map[string]int
	detailID string
	loadSeq  uint64
	torn     bool
}

// NewController creates an idle controller. Nothing is fetched until Load.
func NewController(service Service, notifier Notifier, opts Options, log logger.Logger) *Controller {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if notifier == nil {
		notifier = NotifierFunc(func(models.NotificationKind, string) {})
	}
	return &Controller{
		service:    service,
		notifier:   notifier,
		onDecision: opts.OnDecision,
		pageSize:   opts.PageSize,
		log:        logger.Component(log, "waitlist"),
		state:      StateIdle,
		hidden:     make(map[Column]bool),
		selected:   make(map[string]bool),
		updating:   make(map[string]int),
	}
}

// Load fetches the full collection. A later Load supersedes an earlier one
// still in flight; results arriving after Teardown are dropped.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return ErrTornDown
	}
	c.loadSeq++
	seq := c.loadSeq
	c.state = StateLoading
	c.message = ""
	c.mu.Unlock()

	start := time.Now()
	records, err := c.service.ListApplications(ctx)
	if err == nil {
		err = checkUnique(records)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.torn {
		c.log.Debug("Discarding load result after teardown", nil)
		return ErrTornDown
	}
	if seq != c.loadSeq {
		c.log.Debug("Discarding superseded load result", map[string]interface{}{"seq": seq})
		return ErrSuperseded
	}

	metrics.WaitlistLoads.WithLabelValues(loadOutcome(err)).Inc()
	metrics.WaitlistLoadDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.state = StateError
		c.message = loadMessage(err)
		c.records = nil
		c.detailID = ""
		c.log.WithError(err).Warn("Failed to load waitlist", nil)
		return fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}

	c.records = slices.Clone(records)
	c.state = StateReady
	c.page = 0
	c.detailID = ""
	clear(c.hidden)
	clear(c.selected)

	c.log.Info("Waitlist loaded", map[string]interface{}{"count": len(records)})
	return nil
}

// ReplaceAll swaps the whole collection at once. Presentation state is kept.
func (c *Controller) ReplaceAll(records []models.WaitlistApplication) error {
	if err := checkUnique(records); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.torn {
		return ErrTornDown
	}
	c.replaceAllLocked(slices.Clone(records))
	c.state = StateReady
	c.message = ""
	return nil
}

func (c *Controller) replaceAllLocked(records []models.WaitlistApplication) {
	c.records = records
}

// SetStatus moves one application to a terminal status. Local state changes
// only after the remote write is confirmed. The write is issued even when the
// record already has the target status.
func (c *Controller) SetStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return ErrTornDown
	}
	if c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownApplication, id)
	}
	c.updating[id]++
	decided := c.records[c.indexLocked(id)]
	name := decided.FullName()
	c.mu.Unlock()

	err := c.service.UpdateStatus(ctx, id, status)

	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		c.log.Debug("Dropping status update result after teardown", map[string]interface{}{"applicationId": id})
		return ErrTornDown
	}
	c.doneUpdatingLocked(id)

	if err != nil {
		c.mu.Unlock()
		metrics.WaitlistStatusUpdates.WithLabelValues(string(status), "failure").Inc()
		c.log.WithError(err).Warn("Failed to update application status", map[string]interface{}{
			"applicationId": id,
			"status":        string(status),
		})
		c.notify(ctx, models.NotificationError,
			fmt.Sprintf("Could not update the application from %s. Please try again.", name))
		return fmt.Errorf("%w: %w", ErrUpdateFailure, err)
	}

	decided.Status = status
	// a reload may have replaced or failed the collection meanwhile; only a
	// ready collection that still holds the record is patched
	if i := indexOf(c.records, id); c.state == StateReady && i >= 0 {
		patched := slices.Clone(c.records)
		patched[i].Status = status
		c.replaceAllLocked(patched)
		if c.detailID == id {
			c.detailID = ""
		}
	}
	c.mu.Unlock()

	metrics.WaitlistStatusUpdates.WithLabelValues(string(status), "success").Inc()
	c.log.Info("Application status updated", map[string]interface{}{
		"applicationId": id,
		"status":        string(status),
	})
	c.notify(ctx, models.NotificationSuccess,
		fmt.Sprintf("Application from %s marked %s.", name, status))

	if c.onDecision != nil {
		c.onDecision(ctx, decided)
	}
	return nil
}

// OpenDetail shows the detail view for one application.
func (c *Controller) OpenDetail(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return err
	}
	if c.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownApplication, id)
	}
	c.detailID = id
	return nil
}

func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailID = ""
}

// SelectRow sets the selection of one application.
func (c *Controller) SelectRow(id string, selected bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return err
	}
	if c.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownApplication, id)
	}
	if selected {
		c.selected[id] = true
	} else {
		delete(c.selected, id)
	}
	return nil
}

// SelectPage sets the selection of every row on the current page.
func (c *Controller) SelectPage(selected bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return err
	}
	for _, row := range Derive(c.records, c.viewStateLocked(), c.pageSize).Rows {
		if selected {
			c.selected[row.ID] = true
		} else {
			delete(c.selected, row.ID)
		}
	}
	return nil
}

// SetColumnVisible shows or hides a data column.
func (c *Controller) SetColumnVisible(col Column, visible bool) error {
	if _, err := ParseColumn(string(col)); err != nil {
		return err
	}
	if !col.Hideable() {
		return fmt.Errorf("%w: %s", ErrColumnNotHideable, col)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if visible {
		delete(c.hidden, col)
	} else {
		c.hidden[col] = true
	}
	return nil
}

// SetFilter replaces the global filter and returns to the first page.
func (c *Controller) SetFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter != query {
		c.filter = query
		c.page = 0
	}
}

// ToggleSort sorts by col ascending, or descending if it already is ascending.
func (c *Controller) ToggleSort(col Column) error {
	if err := checkSortable(col); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	desc := c.sort != nil && c.sort.Column == col && !c.sort.Desc
	c.setSortLocked(Sort{Column: col, Desc: desc})
	return nil
}

// SetSort makes col the single active sort key.
func (c *Controller) SetSort(col Column, desc bool) error {
	if err := checkSortable(col); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSortLocked(Sort{Column: col, Desc: desc})
	return nil
}

func (c *Controller) setSortLocked(next Sort) {
	if c.sort == nil || *c.sort != next {
		c.sort = &next
		c.page = 0
	}
}

func checkSortable(col Column) error {
	if _, err := ParseColumn(string(col)); err != nil {
		return err
	}
	if !col.Sortable() {
		return fmt.Errorf("%w: %s", ErrColumnNotSortable, col)
	}
	return nil
}

func (c *Controller) ClearSort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sort != nil {
		c.sort = nil
		c.page = 0
	}
}

// NextPage advances one page. It is a no-op on the last page.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := pageCountFor(len(Filter(c.records, c.filter)), c.pageSize)
	current := clampPage(c.page, count)
	if current < count-1 {
		c.page = current + 1
	}
}

// PreviousPage goes back one page. It is a no-op on the first page.
func (c *Controller) PreviousPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := pageCountFor(len(Filter(c.records, c.filter)), c.pageSize)
	current := clampPage(c.page, count)
	if current > 0 {
		c.page = current - 1
	}
}

// GoToPage jumps to a page index, clamped into range.
func (c *Controller) GoToPage(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := pageCountFor(len(Filter(c.records, c.filter)), c.pageSize)
	c.page = clampPage(index, count)
}

// Teardown detaches the screen. Completions of calls still in flight become no-ops.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.torn = true
}

func (c *Controller) TornDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.torn
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Records returns a copy of the collection.
func (c *Controller) Records() []models.WaitlistApplication {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.records)
}

// View derives the current rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{State: c.state}
	switch c.state {
	case StateError:
		v.Error = c.message
		return v
	case StateReady:
	default:
		return v
	}

	page := Derive(c.records, c.viewStateLocked(), c.pageSize)
	v.Page = &page
	if i := c.indexLocked(c.detailID); i >= 0 {
		detail := c.records[i]
		v.Detail = &detail
	}
	return v
}

func (c *Controller) viewStateLocked() ViewState {
	updating := make(map[string]bool, len(c.updating))
	for id := range c.updating {
		updating[id] = true
	}
	var sort *Sort
	if c.sort != nil {
		s := *c.sort
		sort = &s
	}
	return ViewState{
		Filter:    c.filter,
		Sort:      sort,
		PageIndex: c.page,
		Hidden:    c.hidden,
		Selected:  c.selected,
		Updating:  updating,
	}
}

func (c *Controller) notify(ctx context.Context, kind models.NotificationKind, message string) {
	c.notifier.Notify(kind, message)
	if n := callNotifier(ctx); n != nil {
		n.Notify(kind, message)
	}
}

func (c *Controller) readyLocked() error {
	if c.torn {
		return ErrTornDown
	}
	if c.state != StateReady {
		return ErrNotReady
	}
	return nil
}

func (c *Controller) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return indexOf(c.records, id)
}

func (c *Controller) doneUpdatingLocked(id string) {
	if c.updating[id] <= 1 {
		delete(c.updating, id)
		return
	}
	c.updating[id]--
}

func indexOf(records []models.WaitlistApplication, id string) int {
	return slices.IndexFunc(records, func(r models.WaitlistApplication) bool { return r.ID == id })
}

func checkUnique(records []models.WaitlistApplication) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
