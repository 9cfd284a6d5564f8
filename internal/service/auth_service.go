package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/jwt"
	"github.com/dogacademy/academy_go_server/internal/pkg/oauth"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrUsernameTaken      = errors.New("用户名已被占用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("账号已被停用")
)

type AuthService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	clientRepo  *repository.ClientRepository
	googleOAuth *oauth.GoogleOAuth // 未配置时为空，Google 登录不可用
	stateStore  *oauth.StateStore
	cfg         *config.Config
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	clientRepo *repository.ClientRepository,
	googleOAuth *oauth.GoogleOAuth,
	stateStore *oauth.StateStore,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		googleOAuth: googleOAuth,
		stateStore:  stateStore,
		cfg:         cfg,
	}
}

// Register 客户自助注册，同时建立客户档案并绑定账号
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *model.User
	var client *model.Client

	err = s.db.Transaction(func(tx *gorm.DB) error {
		hashStr := string(hash)
		user = &model.User{
			Username:     req.Username,
			Email:        &req.Email,
			PasswordHash: &hashStr,
			FullName:     req.FullName,
			Phone:        req.Phone,
			Role:         model.RoleClient,
			Active:       true,
		}
		if err := repository.NewUserRepository(tx).Create(user); err != nil {
			return err
		}

		client = &model.Client{
			UserID:   &user.ID,
			FullName: req.FullName,
			Phone:    req.Phone,
			Email:    req.Email,
		}
		return repository.NewClientRepository(tx).Create(client)
	})
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		UserID:   user.ID,
		ClientID: client.ID,
	}, nil
}

// Login 邮箱密码登录，返回 JWT
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		// 第三方登录账号未设置密码
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}

	token, err := jwt.GenerateToken(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  toUserInfo(user),
	}, nil
}

// GoogleAuthURL 生成 Google 授权跳转地址
func (s *AuthService) GoogleAuthURL(ctx context.Context, redirectURI string) (string, error) {
	if s.googleOAuth == nil {
		return "", errors.New("Google 登录未启用")
	}

	state, err := s.stateStore.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}

	return s.googleOAuth.GetAuthURL(state), nil
}

// GoogleCallback 处理 Google 回调：校验 state、换取用户信息、
// 首次登录自动建号并建立客户档案
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*dto.LoginResponse, string, error) {
	if s.googleOAuth == nil {
		return nil, "", errors.New("Google 登录未启用")
	}

	redirectURI, err := s.stateStore.ValidateState(ctx, state)
	if err != nil {
		return nil, "", err
	}

	token, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}

	gUser, err := s.googleOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, "", err
	}

	user, err := s.findOrCreateGoogleUser(gUser)
	if err != nil {
		return nil, "", err
	}
	if !user.Active {
		return nil, "", ErrUserDisabled
	}

	jwtToken, err := jwt.GenerateToken(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return &dto.LoginResponse{
		Token: jwtToken,
		User:  toUserInfo(user),
	}, redirectURI, nil
}

func (s *AuthService) findOrCreateGoogleUser(gUser *oauth.GoogleUser) (*model.User, error) {
	user, err := s.userRepo.GetByGoogleID(gUser.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 已有同邮箱账号则绑定 Google ID
	user, err = s.userRepo.GetByEmail(gUser.Email)
	if err == nil {
		if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"google_id": gUser.ID}); err != nil {
			return nil, err
		}
		user.GoogleID = &gUser.ID
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var created *model.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		created = &model.User{
			Username:  fmt.Sprintf("google_%d", time.Now().UnixNano()%100000000),
			Email:     &gUser.Email,
			FullName:  gUser.Name,
			AvatarURL: gUser.AvatarURL,
			Role:      model.RoleClient,
			GoogleID:  &gUser.ID,
			Active:    true,
		}
		if err := repository.NewUserRepository(tx).Create(created); err != nil {
			return err
		}

		client := &model.Client{
			UserID:   &created.ID,
			FullName: gUser.Name,
			Email:    gUser.Email,
		}
		return repository.NewClientRepository(tx).Create(client)
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetProfile 获取当前用户信息
func (s *AuthService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

// UpdateProfile 更新当前用户信息
func (s *AuthService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameTaken
		}
		fields["username"] = *req.Username
	}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	user, err = s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// UpdateAvatar 更新用户头像地址（文件已上传至 OSS）
func (s *AuthService) UpdateAvatar(userID int64, avatarURL string) error {
	return s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": avatarURL})
}

// ListTeachers 训导师列表（排课时选择用）
func (s *AuthService) ListTeachers() ([]*dto.UserInfo, error) {
	users, err := s.userRepo.ListByRole(model.RoleTeacher)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, toUserInfo(u))
	}
	return infos, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Phone:     user.Phone,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}
