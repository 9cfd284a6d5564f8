package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/api/middleware"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/oss"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

type AuthHandler struct {
	authSvc   *service.AuthService
	ossClient *oss.Client
}

func NewAuthHandler(authSvc *service.AuthService, ossClient *oss.Client) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, ossClient: ossClient}
}

// Register 客户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	resp, err := h.authSvc.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Login 邮箱密码登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	resp, err := h.authSvc.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserDisabled):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// GoogleLogin 跳转 Google 授权页
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")

	authURL, err := h.authSvc.GoogleAuthURL(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback Google 授权回调
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.ParamError(c, "")
		return
	}

	resp, redirectURI, err := h.authSvc.GoogleCallback(c.Request.Context(), state, code)
	if err != nil {
		response.AuthError(c, "Google 登录失败")
		return
	}

	// 前端指定了回跳地址则携带 token 跳回
	if redirectURI != "" {
		c.Redirect(http.StatusTemporaryRedirect, redirectURI+"?token="+resp.Token)
		return
	}

	response.Success(c, resp)
}

// GetProfile 当前用户信息
func (h *AuthHandler) GetProfile(c *gin.Context) {
	info, err := h.authSvc.GetProfile(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// UpdateProfile 更新当前用户信息
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	info, err := h.authSvc.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUsernameTaken):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// UploadAvatar 上传头像
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	if h.ossClient == nil {
		response.ServerError(c, "对象存储未配置")
		return
	}

	data, ext, ok := readUploadedImage(c, "avatar")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	url, err := h.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	if err := h.authSvc.UpdateAvatar(userID, url); err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"avatar_url": url})
}

// ListTeachers 训导师列表
func (h *AuthHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.authSvc.ListTeachers()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, teachers)
}

// readUploadedImage 读取 multipart 图片，校验格式与大小
func readUploadedImage(c *gin.Context, field string) (data []byte, ext string, ok bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		response.ParamError(c, "缺少上传文件")
		return nil, "", false
	}
	defer file.Close()

	if header.Size > 10<<20 {
		response.ParamError(c, "文件超过大小限制")
		return nil, "", false
	}

	ext = strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.ParamError(c, "不支持的图片格式")
		return nil, "", false
	}

	data, err = io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return nil, "", false
	}

	return data, ext, true
}
