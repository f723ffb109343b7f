package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"dapur-keluarga/internal/middleware"
	"dapur-keluarga/internal/service/discussion"
	"dapur-keluarga/internal/service/feed"
	"dapur-keluarga/internal/service/recipe"
)

// DiscussionHandler serves the threaded comments and ratings of one recipe.
// Each request opens a discussion against the comment feed for its own
// lifetime and closes it before returning; the stream endpoint keeps one
// open for as long as the client stays connected.
type DiscussionHandler struct {
	feedService   *feed.Service
	recipeService recipe.Service
	log           zerolog.Logger
}

func NewDiscussionHandler(feedService *feed.Service, recipeService recipe.Service, log zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		feedService:   feedService,
		recipeService: recipeService,
		log:           log,
	}
}

func (h *DiscussionHandler) open(c *fiber.Ctx) (*discussion.Discussion, error) {
	recipeID, err := uuid.Parse(c.Params("recipeId"))
	if err != nil {
		return nil, middleware.BadRequest("Invalid recipe ID")
	}

	r, err := h.recipeService.GetByID(c.Context(), recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			return nil, middleware.NotFound("Recipe not found")
		}
		return nil, err
	}

	viewer := discussion.Viewer{}
	if u := middleware.GetCurrentUser(c); u != nil {
		viewer = discussion.Viewer{ID: u.ID, FullName: u.FullName, AvatarURL: u.AvatarURL}
	}

	return discussion.Open(h.feedService, recipeID, r.UserID, viewer, h.log)
}

func (h *DiscussionHandler) GetThread(c *fiber.Ctx) error {
	d, err := h.open(c)
	if err != nil {
		return err
	}
	defer d.Close()

	return c.Status(fiber.StatusOK).JSON(threadPayload(d))
}

func (h *DiscussionHandler) Create(c *fiber.Ctx) error {
	var input struct {
		Content string `json:"content"`
		Rating  *int   `json:"rating"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	d, err := h.open(c)
	if err != nil {
		return err
	}
	defer d.Close()

	id, err := d.AddComment(c.Context(), input.Content, input.Rating)
	if err != nil {
		return mapDiscussionError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *DiscussionHandler) CreateReply(c *fiber.Ctx) error {
	parentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return middleware.BadRequest("Invalid comment ID")
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	d, err := h.open(c)
	if err != nil {
		return err
	}
	defer d.Close()

	id, err := d.AddReply(c.Context(), parentID, input.Content)
	if err != nil {
		return mapDiscussionError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *DiscussionHandler) Update(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return middleware.BadRequest("Invalid comment ID")
	}

	var input struct {
		Content string `json:"content"`
		Rating  *int   `json:"rating"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	d, err := h.open(c)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.UpdateComment(c.Context(), commentID, input.Content, input.Rating); err != nil {
		return mapDiscussionError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DiscussionHandler) Delete(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return middleware.BadRequest("Invalid comment ID")
	}

	d, err := h.open(c)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.DeleteComment(c.Context(), commentID); err != nil {
		return mapDiscussionError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Stream pushes the discussion over server-sent events: one snapshot on
// connect, then one per change, until the client disconnects or the feed
// subscription degrades. The discussion is closed when the writer returns,
// so a dropped client tears its subscription down.
func (h *DiscussionHandler) Stream(c *fiber.Ctx) error {
	d, err := h.open(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer d.Close()

		if err := writeThreadEvent(w, d); err != nil {
			return
		}

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case <-d.Changes():
				if degraded, ferr := d.Degraded(); degraded {
					data, _ := json.Marshal(ferr.Error())
					fmt.Fprintf(w, "event: error\ndata: %s\n\n", data)
					_ = w.Flush()
					return
				}
				if err := writeThreadEvent(w, d); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeThreadEvent(w *bufio.Writer, d *discussion.Discussion) error {
	payload, err := json.Marshal(threadPayload(d))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: discussion\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func threadPayload(d *discussion.Discussion) fiber.Map {
	return fiber.Map{
		"threads":        d.Threads(),
		"rating":         d.RatingSummary(),
		"viewer_comment": d.ViewerExistingRating(),
	}
}

func mapDiscussionError(err error) error {
	switch {
	case errors.Is(err, discussion.ErrEmptyText), errors.Is(err, discussion.ErrInvalidRating):
		return middleware.ValidationError(err.Error())
	case errors.Is(err, discussion.ErrUnauthenticated):
		return middleware.Unauthorized(err.Error())
	case errors.Is(err, feed.ErrNotAuthor):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, feed.ErrRecipeNotFound), errors.Is(err, feed.ErrCommentNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, feed.ErrReplyImmutable), errors.Is(err, feed.ErrReplyDepth):
		return middleware.BadRequest(err.Error())
	}
	return err
}
