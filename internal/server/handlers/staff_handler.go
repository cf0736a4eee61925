package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/service/catalog"
)

// StaffHandler serves pay grades and employees.
type StaffHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

func NewStaffHandler(svc *catalog.Service, logger *zap.Logger) *StaffHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffHandler{svc: svc, logger: logger}
}

type updatePayGradePayload struct {
	ID string `json:"id" binding:"required"`
	models.PayGradeRequest
}

func (h *StaffHandler) ListPayGrades(c *gin.Context) {
	grades, err := h.svc.ListPayGrades(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pay_grades": grades})
}

func (h *StaffHandler) CreatePayGrade(c *gin.Context) {
	var req models.PayGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := h.svc.CreatePayGrade(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "pay grade created", "id": grade.ID.Hex()})
}

func (h *StaffHandler) UpdatePayGrade(c *gin.Context) {
	var payload updatePayGradePayload
	if !bindJSON(c, &payload) {
		return
	}

	if _, err := h.svc.UpdatePayGrade(c.Request.Context(), identity(c), payload.ID, payload.PayGradeRequest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pay grade updated", "id": payload.ID})
}

func (h *StaffHandler) DeletePayGrade(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeletePayGrade(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pay grade deleted", "id": id})
}

type updateEmployeePayload struct {
	ID string `json:"id" binding:"required"`
	models.EmployeeRequest
}

func (h *StaffHandler) ListEmployees(c *gin.Context) {
	employees, err := h.svc.ListEmployees(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

func (h *StaffHandler) CreateEmployee(c *gin.Context) {
	var req models.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.svc.CreateEmployee(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "employee created", "id": employee.ID.Hex()})
}

func (h *StaffHandler) UpdateEmployee(c *gin.Context) {
	var payload updateEmployeePayload
	if !bindJSON(c, &payload) {
		return
	}

	if _, err := h.svc.UpdateEmployee(c.Request.Context(), identity(c), payload.ID, payload.EmployeeRequest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee updated", "id": payload.ID})
}

func (h *StaffHandler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteEmployee(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee deleted", "id": id})
}
