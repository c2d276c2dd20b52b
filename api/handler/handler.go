package handler

import (
	"github.com/gin-gonic/gin"

	"licensing-core/api/response"
	"licensing-core/service"
	"licensing-core/types"
)

type ContractHandler struct {
	contractSvc *service.ContractService
}

func NewContractHandler(contractSvc *service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

// Create prices and opens a new contract.
func (h *ContractHandler) Create(c *gin.Context) {
	var req types.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, types.InvalidArgument("invalid request body: %s", err.Error()))
		return
	}

	view, err := h.contractSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Pay records a payment against a contract.
func (h *ContractHandler) Pay(c *gin.Context) {
	var req types.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, types.BadRequest("invalid request body: %s", err.Error()))
		return
	}

	view, err := h.contractSvc.Pay(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

func (h *ContractHandler) Get(c *gin.Context) {
	view, err := h.contractSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

func (h *ContractHandler) List(c *gin.Context) {
	views, err := h.contractSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}
