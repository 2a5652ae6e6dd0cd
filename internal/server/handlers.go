package server

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-planner/internal/budget"
	"wedding-planner/internal/checkout"
	"wedding-planner/internal/repository"
	"wedding-planner/internal/service"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePlan(c *gin.Context) {
	view, err := s.plans.View(c.Request.Context(), s.now())
	if err != nil {
		if errors.Is(err, service.ErrNoWeddingDate) {
			c.JSON(http.StatusConflict, gin.H{"error": "No wedding date set. Please start again."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleSetPlan(c *gin.Context) {
	var in service.PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.plans.SetPlan(c.Request.Context(), in); err != nil {
		if errors.Is(err, service.ErrInvalidPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type taskPatchRequest struct {
	Done *bool   `json:"done"`
	Note *string `json:"note"`
}

func (s *Server) handlePatchTask(c *gin.Context) {
	var in taskPatchRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := s.plans.SetTaskStatus(c.Request.Context(), c.Param("key"), repository.StatusPatch{
		Done: in.Done,
		Note: in.Note,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownTask) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown task key"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) handleBudget(c *gin.Context) {
	view, err := s.budgets.View(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleAddExpense(c *gin.Context) {
	var in service.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.budgets.AddExpense(c.Request.Context(), in, s.now())
	if err != nil {
		if errors.Is(err, budget.ErrInvalidExpense) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleDeleteExpense(c *gin.Context) {
	if err := s.budgets.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleCheckout maps the checkout error taxonomy onto the response shape
// of the route it replaces: {url} on success, {error} with a 500 otherwise.
// One request in, one provider attempt out; no retry.
func (s *Server) handleCheckout(c *gin.Context) {
	sessionURL, err := s.checkout.CreateSession(c.Request.Context())
	if err != nil {
		var pe *checkout.ProviderError
		switch {
		case errors.Is(err, checkout.ErrMissingCredential):
			c.JSON(http.StatusInternalServerError, gin.H{"error": checkout.ErrMissingCredential.Error()})
		case errors.As(err, &pe):
			c.JSON(http.StatusInternalServerError, gin.H{"error": pe.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Network error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": sessionURL})
}

// handleExportCSV streams the premium checklist export: one row per task,
// window groups flattened in display order.
func (s *Server) handleExportCSV(c *gin.Context) {
	view, err := s.plans.View(c.Request.Context(), s.now())
	if err != nil {
		if errors.Is(err, service.ErrNoWeddingDate) {
			c.JSON(http.StatusConflict, gin.H{"error": "No wedding date set. Please start again."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="wedding_plan.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"due", "title", "window", "category", "done", "note"})
	for _, g := range view.Groups {
		for _, t := range g.Items {
			done := "no"
			if t.Done {
				done = "yes"
			}
			_ = w.Write([]string{t.Due, t.Title, g.Label, t.Category, done, t.Note})
		}
	}
	w.Flush()
}
