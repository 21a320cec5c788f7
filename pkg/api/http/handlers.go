package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/internal/application/orchestrator"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// ExecuteRequest selects per-run execution policy
type ExecuteRequest struct {
	Version                 int     `json:"version,omitempty"`
	ValidateBeforeExecution *bool   `json:"validate_before_execution,omitempty"`
	ContinueOnError         bool    `json:"continue_on_error"`
	DelayMultiplier         *float64 `json:"delay_multiplier,omitempty"`
	ExecutionTimeoutSeconds int     `json:"execution_timeout_seconds,omitempty"`
}

// ExecuteResponse acknowledges an asynchronous execution launch
type ExecuteResponse struct {
	ExecutionID string `json:"execution_id"`
	ScenarioID  string `json:"scenario_id"`
	Status      string `json:"status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleListTemplates returns the template catalog
func (s *Server) handleListTemplates(c *gin.Context) {
	templates := s.service.Templates()
	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// handleGetTemplate returns one template
func (s *Server) handleGetTemplate(c *gin.Context) {
	tmpl, err := s.service.Template(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Template not found",
			},
		})
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// handleCreateScenario validates and stores a new scenario
func (s *Server) handleCreateScenario(c *gin.Context) {
	var scenario domain.ScenarioDefinition
	if err := c.ShouldBindJSON(&scenario); err != nil {
		s.logger.Error("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	id, version, err := s.service.CreateScenario(c.Request.Context(), &scenario)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"scenario_id": id,
		"version":     version,
	})
}

// handleListScenarios lists the latest version of every scenario
func (s *Server) handleListScenarios(c *gin.Context) {
	scenarios, err := s.service.ListScenarios(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenarios": scenarios,
		"total":     len(scenarios),
	})
}

// handleGetScenario returns one scenario, latest or pinned version
func (s *Server) handleGetScenario(c *gin.Context) {
	version := 0
	if v := c.Query("version"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: "version must be a non-negative integer",
				},
			})
			return
		}
		version = parsed
	}

	scenario, err := s.service.GetScenario(c.Request.Context(), c.Param("id"), version)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenario)
}

// handleUpdateScenario stores an edit as a new version
func (s *Server) handleUpdateScenario(c *gin.Context) {
	var scenario domain.ScenarioDefinition
	if err := c.ShouldBindJSON(&scenario); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	scenario.ID = c.Param("id")

	version, err := s.service.UpdateScenario(c.Request.Context(), &scenario)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenario_id": scenario.ID,
		"version":     version,
	})
}

// handleDeleteScenario removes all versions of a scenario
func (s *Server) handleDeleteScenario(c *gin.Context) {
	deleted, err := s.service.DeleteScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Scenario not found",
			},
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleValidateScenario runs validation without persisting
func (s *Server) handleValidateScenario(c *gin.Context) {
	version := 0
	if v := c.Query("version"); v != "" {
		version, _ = strconv.Atoi(v)
	}

	scenario, err := s.service.GetScenario(c.Request.Context(), c.Param("id"), version)
	if err != nil {
		s.respondError(c, err)
		return
	}

	opts := orchestrator.ValidationOptions{
		StrictTemplateValidation: c.Query("strict") != "false",
		ValidateMitreReferences:  c.Query("mitre") != "false",
	}
	result := s.service.ValidateScenario(scenario, opts)
	c.JSON(http.StatusOK, gin.H{
		"valid":      result.Valid(),
		"violations": result.Violations,
		"warnings":   result.Warnings,
	})
}

// handleExecuteScenario launches an asynchronous execution
func (s *Server) handleExecuteScenario(c *gin.Context) {
	var req ExecuteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: err.Error(),
				},
			})
			return
		}
	}

	opts := domain.DefaultExecutionOptions()
	opts.Version = req.Version
	opts.ContinueOnError = req.ContinueOnError
	if req.ValidateBeforeExecution != nil {
		opts.ValidateBeforeExecution = *req.ValidateBeforeExecution
	}
	if req.DelayMultiplier != nil {
		opts.DelayMultiplier = *req.DelayMultiplier
	}
	if req.ExecutionTimeoutSeconds > 0 {
		opts.ExecutionTimeout = time.Duration(req.ExecutionTimeoutSeconds) * time.Second
	}

	scenarioID := c.Param("id")
	execID, err := s.service.ExecuteScenario(c.Request.Context(), scenarioID, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, ExecuteResponse{
		ExecutionID: execID,
		ScenarioID:  scenarioID,
		Status:      string(domain.ExecutionStatusRunning),
	})
}

// handleCancelExecution requests cooperative cancellation
func (s *Server) handleCancelExecution(c *gin.Context) {
	scenarioID := c.Param("id")
	if err := s.service.CancelExecution(scenarioID); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenario_id": scenarioID,
		"status":      string(domain.ExecutionStatusCancelling),
	})
}

// handleExecutionState returns the live or last archived state
func (s *Server) handleExecutionState(c *gin.Context) {
	state, err := s.service.ExecutionState(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// handleExecutionResult returns the terminal summary of the last run
func (s *Server) handleExecutionResult(c *gin.Context) {
	result, err := s.service.ExecutionResult(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrExecutionNotFound) {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: ErrorDetail{
				Code:    "NOT_COMPLETED",
				Message: err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps the engine's error taxonomy onto HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "VALIDATION_FAILED",
				Message: ve.Error(),
				Details: ve.Result,
			},
		})
		return
	}

	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: ErrorDetail{
				Code:    ce.Reason,
				Message: ce.Error(),
			},
		})
		return
	}

	if errors.Is(err, domain.ErrScenarioNotFound) ||
		errors.Is(err, domain.ErrTemplateNotFound) ||
		errors.Is(err, domain.ErrExecutionNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "NOT_FOUND",
				Message: err.Error(),
			},
		})
		return
	}

	s.logger.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL",
			Message: err.Error(),
		},
	})
}
