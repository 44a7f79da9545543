package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contactdomain "github.com/waslahq/wasla/internal/contact/domain"
)

func (s *Server) SubmitContact(c *gin.Context) {
	var req contactdomain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	contact, err := s.contactSvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":     contact.ID.String(),
		"status": contact.Status,
	})
}

func (s *Server) ListLeads(c *gin.Context) {
	leads, err := s.contactSvc.List(c.Request.Context(), currentUser(c), bindLeadFilter(c), bindPagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (s *Server) LeadDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := s.contactSvc.Detail(c.Request.Context(), currentUser(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateLeadStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	lead, err := s.contactSvc.UpdateStatus(c.Request.Context(), currentUser(c), id, contactdomain.Status(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type AddNoteRequest struct {
	NoteText string `json:"note_text"`
}

func (s *Server) AddLeadNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	note, err := s.contactSvc.AddNote(c.Request.Context(), currentUser(c), id, req.NoteText)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (s *Server) ExportLeads(c *gin.Context) {
	payload, filename, err := s.contactSvc.ExportCSV(c.Request.Context(), bindLeadFilter(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

type AssignLeadRequest struct {
	SalesmanID string `json:"salesman_id"`
}

func (s *Server) AssignLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	salesmanID, err := parseID(req.SalesmanID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	assignment, err := s.contactSvc.Assign(c.Request.Context(), currentUser(c), id, salesmanID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (s *Server) UnassignLead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.contactSvc.Unassign(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListSalesmen(c *gin.Context) {
	salesmen, err := s.authsvc.ListSalesmen(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	out := make([]userResponse, 0, len(salesmen))
	for i := range salesmen {
		out = append(out, toUserResponse(&salesmen[i]))
	}
	c.JSON(http.StatusOK, gin.H{"salesmen": out})
}
