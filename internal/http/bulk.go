package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pantry/internal/entities"
	"github.com/mrlokans/pantry/internal/extraction"
	"github.com/mrlokans/pantry/internal/review"
	"github.com/mrlokans/pantry/internal/services"
	"github.com/mrlokans/pantry/internal/tasks"
)

// BulkController owns the bulk ingestion pipeline: free-text parsing,
// the item-by-item review flow, and the final commit.
type BulkController struct {
	extractor  *extraction.Service
	sessions   *review.SessionStore
	committer  *services.CommitService
	taskClient *tasks.Client
}

func NewBulkController(extractor *extraction.Service, sessions *review.SessionStore, committer *services.CommitService, taskClient *tasks.Client) *BulkController {
	return &BulkController{
		extractor:  extractor,
		sessions:   sessions,
		committer:  committer,
		taskClient: taskClient,
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

// ParseText extracts inventory items from free-form text and opens a
// review session over them.
// POST /api/inventory/parse
func (bc *BulkController) ParseText(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondValidation(c, "text is required")
		return
	}

	items, err := bc.extractor.Parse(c.Request.Context(), req.Text)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if len(items) == 0 {
		respondValidation(c, "no inventory items found in text")
		return
	}

	session, err := bc.sessions.Create(GetUserID(c), items)
	if err != nil {
		respondInternalError(c, err, "create review session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": session.Token,
		"items": session.Queue.Items(),
		"total": len(items),
	})
}

// GetSession returns the full state of a review session.
// GET /api/inventory/review/:token
func (bc *BulkController) GetSession(c *gin.Context) {
	session, ok := bc.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sessionState(session))
}

// ApproveCurrent approves the item awaiting review and advances.
// POST /api/inventory/review/:token/approve
func (bc *BulkController) ApproveCurrent(c *gin.Context) {
	session, ok := bc.session(c)
	if !ok {
		return
	}

	if err := session.Queue.Approve(); err != nil {
		respondQueueError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionState(session))
}

// RejectCurrent rejects the item awaiting review and advances.
// POST /api/inventory/review/:token/reject
func (bc *BulkController) RejectCurrent(c *gin.Context) {
	session, ok := bc.session(c)
	if !ok {
		return
	}

	if err := session.Queue.Reject(); err != nil {
		respondQueueError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionState(session))
}

// EditCurrent replaces the fields of the item awaiting review. The edited
// item goes through the same normalization as parsed items and returns to
// pending for a fresh decision.
// POST /api/inventory/review/:token/edit
func (bc *BulkController) EditCurrent(c *gin.Context) {
	session, ok := bc.session(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	normalized := extraction.ValidateItems([]any{raw})
	if len(normalized) == 0 {
		respondValidation(c, "edited item must have a product name")
		return
	}

	queue := session.Queue
	if err := queue.StartEdit(); err != nil && !errors.Is(err, review.ErrItemEditing) {
		respondQueueError(c, err)
		return
	}
	if err := queue.SaveEdit(normalized[0]); err != nil {
		respondQueueError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionState(session))
}

// CommitSession writes all approved items to the inventory and closes the
// session. Every item must be decided first.
// POST /api/inventory/review/:token/commit
func (bc *BulkController) CommitSession(c *gin.Context) {
	session, ok := bc.session(c)
	if !ok {
		return
	}

	queue := session.Queue
	if !queue.Complete() {
		decided, total := queue.Progress()
		respondValidation(c, "review is not finished: "+itemsLeftMessage(total-decided))
		return
	}

	approved := queue.Approved()
	if len(approved) == 0 {
		bc.sessions.Delete(session.Token)
		c.JSON(http.StatusOK, gin.H{"items": []any{}, "committed": 0})
		return
	}

	created, err := bc.committer.Commit(c.Request.Context(), session.UserID, approved)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	bc.sessions.Delete(session.Token)
	bc.enqueueEstimates(created)

	c.JSON(http.StatusOK, gin.H{
		"items":     created,
		"committed": len(created),
	})
}

// AbandonSession discards a review session without committing anything.
// DELETE /api/inventory/review/:token
func (bc *BulkController) AbandonSession(c *gin.Context) {
	session, ok := bc.session(c)
	if !ok {
		return
	}

	bc.sessions.Delete(session.Token)
	respondSuccess(c, "review session abandoned")
}

type batchRequest struct {
	Items []map[string]any `json:"items"`
}

// CommitBatch writes pre-reviewed items directly, skipping the session
// flow. Items go through the same normalization as parsed text; items
// without a product name are dropped.
// POST /api/inventory/batch
func (bc *BulkController) CommitBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondValidation(c, "items are required")
		return
	}

	raw := make([]any, len(req.Items))
	for i, item := range req.Items {
		raw[i] = item
	}

	normalized := extraction.ValidateItems(raw)
	created, err := bc.committer.Commit(c.Request.Context(), GetUserID(c), normalized)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	bc.enqueueEstimates(created)

	respondCreated(c, gin.H{
		"items":     created,
		"committed": len(created),
	})
}

// enqueueEstimates schedules background expiration estimation for freshly
// committed items that landed without a date.
func (bc *BulkController) enqueueEstimates(created []entities.InventoryItem) {
	if bc.taskClient == nil {
		return
	}
	for i := range created {
		if created[i].ExpirationDate != "" {
			continue
		}
		_, _ = bc.taskClient.Add(tasks.EstimateExpirationTask{
			UserID: created[i].UserID,
			ItemID: created[i].ID,
		}).Save()
	}
}

// session loads and authorizes the review session named in the URL.
func (bc *BulkController) session(c *gin.Context) (*review.Session, bool) {
	token := c.Param("token")
	session, ok := bc.sessions.Get(token)
	if !ok || session.UserID != GetUserID(c) {
		respondNotFound(c, "review session")
		return nil, false
	}
	return session, true
}

func sessionState(session *review.Session) gin.H {
	queue := session.Queue
	decided, total := queue.Progress()

	state := gin.H{
		"token":    session.Token,
		"items":    queue.Items(),
		"decided":  decided,
		"total":    total,
		"complete": queue.Complete(),
	}

	if index, current, ok := queue.Current(); ok {
		state["current"] = gin.H{"index": index, "item": current}
	}

	return state
}

func respondQueueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review.ErrNoActiveItem),
		errors.Is(err, review.ErrItemEditing),
		errors.Is(err, review.ErrNotEditing):
		respondValidation(c, err.Error())
	default:
		respondInternalError(c, err, "review queue")
	}
}

func itemsLeftMessage(left int) string {
	if left == 1 {
		return "1 item still awaits a decision"
	}
	return strconv.Itoa(left) + " items still await a decision"
}
