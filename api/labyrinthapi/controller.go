package labyrinthapi

import (
	"errors"
	"net/http"

	"github.com/beka-birhanu/vinom-labyrinth/api/identity"
	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	protobufMIME = "application/x-protobuf"
	formatASCII  = "ascii"
)

// Controller serves labyrinth generation and lookup.
type Controller struct {
	labyrinths i.LabyrinthService
	jobs       i.JobService
	encoder    i.LabyrinthEncoder
}

// NewController initializes a labyrinth Controller.
func NewController(ls i.LabyrinthService, js i.JobService, enc i.LabyrinthEncoder) (*Controller, error) {
	if ls == nil || js == nil || enc == nil {
		return nil, errors.New("labyrinth controller dependency must not be nil")
	}
	return &Controller{
		labyrinths: ls,
		jobs:       js,
		encoder:    enc,
	}, nil
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {
	labyrinths := route.Group("/labyrinths")
	{
		labyrinths.POST("", c.generate)
		labyrinths.GET("", c.list)
		labyrinths.GET("/:ID", c.byID)
		labyrinths.POST("/jobs", c.submit)
		labyrinths.GET("/jobs/:ID", c.job)
	}
}

// generate builds a labyrinth synchronously.
func (c *Controller) generate(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var request GenerateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := c.labyrinths.Generate(ctx.Request.Context(), owner, request.toDomain())
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.render(ctx, http.StatusCreated, l)
}

// list returns the caller's labyrinths.
func (c *Controller) list(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	labyrinths, err := c.labyrinths.ByOwner(ctx.Request.Context(), owner)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	summaries := make([]LabyrinthSummary, 0, len(labyrinths))
	for _, l := range labyrinths {
		summaries = append(summaries, LabyrinthSummary{
			ID:        l.ID.String(),
			Width:     l.Width,
			Length:    l.Length,
			Seed:      l.Seed,
			CreatedAt: l.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, summaries)
}

// byID returns one labyrinth as JSON, protobuf or an ASCII dump.
func (c *Controller) byID(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	l, err := c.labyrinths.ByID(ctx.Request.Context(), ID)
	if err == nil && l.Owner != owner {
		err = dmn.ErrLabyrinthNotFound
	}
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.render(ctx, http.StatusOK, l)
}

// submit queues a generation job.
func (c *Controller) submit(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var request GenerateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := c.jobs.Submit(ctx.Request.Context(), owner, request.toDomain())
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, newJobResponse(job))
}

// job reports a job's progress.
func (c *Controller) job(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	job, err := c.jobs.Job(ctx.Request.Context(), ID)
	if err == nil && job.Owner != owner {
		err = dmn.ErrJobNotFound
	}
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, newJobResponse(job))
}

func (c *Controller) render(ctx *gin.Context, status int, l *dmn.Labyrinth) {
	res, err := l.Result()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch {
	case ctx.Query("format") == formatASCII:
		ctx.String(status, "%s", res.Grid.String())
	case ctx.GetHeader("Accept") == protobufMIME:
		b, err := c.encoder.MarshalLabyrinth(res)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.Data(status, protobufMIME, b)
	default:
		ctx.JSON(status, newLabyrinthResponse(l, res.Grid))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, labyrinth.ErrInvalidConfiguration), errors.Is(err, dmn.ErrDimensionTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, labyrinth.ErrGenerationExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dmn.ErrLabyrinthNotFound), errors.Is(err, dmn.ErrJobNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
