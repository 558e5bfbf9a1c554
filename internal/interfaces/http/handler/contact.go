package handler

import (
	"github.com/gin-gonic/gin"
	contactapp "github.com/shopfront/backend/internal/application/contact"
)

// ContactHandler serves the caller's delivery contacts
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List godoc
// @ID           listContacts
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} Envelope[[]contactapp.ContactResponse]
// @Security     BearerAuth
// @Router       /contacts/ [get]
func (h *ContactHandler) List(c *gin.Context) {
	var filter contactapp.ContactListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	resp, err := h.contactService.List(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// Create godoc
// @ID           createContact
// @Summary      Create a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body contactapp.ContactRequest true "Address and phone"
// @Success      201 {object} Envelope[contactapp.ContactResponse]
// @Failure      400 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /contacts/ [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactapp.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.contactService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @ID           getContact
// @Summary      Get a contact
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      200 {object} Envelope[contactapp.ContactResponse]
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /contacts/{id}/ [get]
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.contactService.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateContact
// @Summary      Replace a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Param        request body contactapp.ContactRequest true "Address and phone"
// @Success      200 {object} Envelope[contactapp.ContactResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /contacts/{id}/ [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req contactapp.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.contactService.Update(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteContact
// @Summary      Delete a contact
// @Description  Orders that used the contact keep their reference
// @Tags         contacts
// @Param        id path string true "Contact ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorEnvelope
// @Security     BearerAuth
// @Router       /contacts/{id}/ [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
