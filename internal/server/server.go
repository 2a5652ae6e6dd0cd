// Package server exposes the planner over HTTP. Handlers stay thin: each
// one reads persisted state through a service, runs the pure engines and
// writes the result back, mirroring the read/compute/write cycles of the
// pages this API replaces.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wedding-planner/internal/model"
	"wedding-planner/internal/repository"
	"wedding-planner/internal/service"
)

// Plans is the plan surface the handlers need.
type Plans interface {
	View(ctx context.Context, now time.Time) (*service.PlanView, error)
	SetPlan(ctx context.Context, in service.PlanInput) error
	SetTaskStatus(ctx context.Context, key string, patch repository.StatusPatch) (model.TaskStatus, error)
}

// Budgets is the budget surface the handlers need.
type Budgets interface {
	View(ctx context.Context) (*service.BudgetView, error)
	AddExpense(ctx context.Context, in service.ExpenseInput, now time.Time) (model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// Checkout starts one payment session per call.
type Checkout interface {
	CreateSession(ctx context.Context) (string, error)
}

// Server wires the HTTP API over the services.
type Server struct {
	plans    Plans
	budgets  Budgets
	checkout Checkout
	router   *gin.Engine
	now      func() time.Time
}

// New builds the router. The clock defaults to time.Now and is swapped out
// in tests.
func New(plans Plans, budgets Budgets, checkout Checkout) *Server {
	s := &Server{
		plans:    plans,
		budgets:  budgets,
		checkout: checkout,
		router:   gin.Default(),
		now:      time.Now,
	}
	s.routes(s.router)
	return s
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/plan", s.handlePlan)
		api.POST("/plan", s.handleSetPlan)
		api.PATCH("/tasks/:key", s.handlePatchTask)
		api.GET("/budget", s.handleBudget)
		api.POST("/expenses", s.handleAddExpense)
		api.DELETE("/expenses/:id", s.handleDeleteExpense)
		api.POST("/checkout", s.handleCheckout)
		api.GET("/export.csv", s.handleExportCSV)
	}
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
