package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akggautamasar/shopmatee-api/internal/service"
	appErrors "github.com/akggautamasar/shopmatee-api/pkg/errors"
	"github.com/akggautamasar/shopmatee-api/pkg/response"
)

// AccountBookHandler wires contact and transaction routes.
type AccountBookHandler struct {
	accounts *service.AccountBookService
}

// NewAccountBookHandler constructs a new AccountBookHandler.
func NewAccountBookHandler(accounts *service.AccountBookService) *AccountBookHandler {
	return &AccountBookHandler{accounts: accounts}
}

// ListContacts godoc
// @Summary List account-book contacts
// @Tags Account Book
// @Produce json
// @Param search query string false "Search by name/phone"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /contacts [get]
func (h *AccountBookHandler) ListContacts(c *gin.Context) {
	page := 1
	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = p
	}
	size := 50
	if s, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		size = s
	}

	contacts, pagination, err := h.accounts.ListContacts(c.Request.Context(), strings.TrimSpace(c.Query("search")), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contacts, pagination)
}

// CreateContact godoc
// @Summary Create contact
// @Tags Account Book
// @Accept json
// @Produce json
// @Param payload body service.SaveContactRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /contacts [post]
func (h *AccountBookHandler) CreateContact(c *gin.Context) {
	var req service.SaveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact payload"))
		return
	}
	contact, err := h.accounts.CreateContact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contact)
}

// UpdateContact godoc
// @Summary Update contact
// @Tags Account Book
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param payload body service.SaveContactRequest true "Contact payload"
// @Success 200 {object} response.Envelope
// @Router /contacts/{id} [put]
func (h *AccountBookHandler) UpdateContact(c *gin.Context) {
	var req service.SaveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact payload"))
		return
	}
	contact, err := h.accounts.UpdateContact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contact, nil)
}

// DeleteContact godoc
// @Summary Delete contact and its transactions
// @Tags Account Book
// @Param id path string true "Contact ID"
// @Success 204
// @Router /contacts/{id} [delete]
func (h *AccountBookHandler) DeleteContact(c *gin.Context) {
	if err := h.accounts.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddTransaction godoc
// @Summary Record a credit or debit for a contact
// @Tags Account Book
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param payload body service.AddTransactionRequest true "Transaction payload"
// @Success 201 {object} response.Envelope
// @Router /contacts/{id}/transactions [post]
func (h *AccountBookHandler) AddTransaction(c *gin.Context) {
	var req service.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transaction payload"))
		return
	}
	tx, err := h.accounts.AddTransaction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}

// DeleteTransaction godoc
// @Summary Delete one transaction
// @Tags Account Book
// @Param id path string true "Transaction ID"
// @Success 204
// @Router /transactions/{id} [delete]
func (h *AccountBookHandler) DeleteTransaction(c *gin.Context) {
	if err := h.accounts.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statement godoc
// @Summary Full ledger and totals for one contact
// @Tags Account Book
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} response.Envelope
// @Router /contacts/{id}/statement [get]
func (h *AccountBookHandler) Statement(c *gin.Context) {
	statement, err := h.accounts.Statement(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statement, nil)
}

// Balances godoc
// @Summary Balance summary for every contact
// @Tags Account Book
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /contacts/balances [get]
func (h *AccountBookHandler) Balances(c *gin.Context) {
	balances, err := h.accounts.Balances(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balances, nil)
}
