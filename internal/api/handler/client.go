package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

type ClientHandler struct {
	clientSvc *service.ClientService
}

func NewClientHandler(clientSvc *service.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// Create 建立客户档案
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	client, err := h.clientSvc.Create(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, client)
}

// List 客户列表，支持搜索与分页
func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	clients, total, err := h.clientSvc.List(page, pageSize, search)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, clients)
}

// Get 客户详情
func (h *ClientHandler) Get(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	client, err := h.clientSvc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, client)
}

// Update 更新客户档案
func (h *ClientHandler) Update(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	client, err := h.clientSvc.Update(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, client)
}

// Delete 删除客户
func (h *ClientHandler) Delete(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	if err := h.clientSvc.Delete(id); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// CreateDog 为客户登记犬只
func (h *ClientHandler) CreateDog(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.CreateDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	dog, err := h.clientSvc.CreateDog(clientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidBirthDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dog)
}

// ListDogs 客户名下犬只
func (h *ClientHandler) ListDogs(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	dogs, err := h.clientSvc.ListDogs(clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, dogs)
}

// GetDog 犬只详情
func (h *ClientHandler) GetDog(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	dog, err := h.clientSvc.GetDog(id)
	if err != nil {
		if errors.Is(err, service.ErrDogNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, dog)
}

// UpdateDog 更新犬只信息
func (h *ClientHandler) UpdateDog(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	dog, err := h.clientSvc.UpdateDog(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDogNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidBirthDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dog)
}

// DeleteDog 删除犬只
func (h *ClientHandler) DeleteDog(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	if err := h.clientSvc.DeleteDog(id); err != nil {
		if errors.Is(err, service.ErrDogNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// UploadDogPhoto 上传犬只照片
func (h *ClientHandler) UploadDogPhoto(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	data, ext, ok := readUploadedImage(c, "photo")
	if !ok {
		return
	}

	url, err := h.clientSvc.UploadDogPhoto(id, data, ext)
	if err != nil {
		if errors.Is(err, service.ErrDogNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"photo_url": url})
}
