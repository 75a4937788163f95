package service

import (
	"Toasoan/internal/api/config"
	"Toasoan/internal/api/dto"
	"Toasoan/internal/event"
	"Toasoan/internal/model"
	"Toasoan/internal/pkg/redis"
	"Toasoan/internal/pkg/security"
	"Toasoan/internal/policy"
	"Toasoan/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, dto *dto.LoginDTO) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	ResolveCaller(ctx context.Context, id uint64) (policy.Caller, error)
	ListUsers(ctx context.Context, caller policy.Caller, role string, page, pageSize int) (*dto.PageResult, error)
	ChangeRole(ctx context.Context, caller policy.Caller, userID uint64, dto *dto.ChangeRoleDTO) (*dto.UserDTO, error)
	GetRoleHistory(ctx context.Context, caller policy.Caller, userID uint64) ([]*dto.RoleChangeDTO, error)
	EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapAdminConfig) error
}

type UserServiceImpl struct {
	userRepo  repository.UserRepo
	publisher event.Publisher
}

func NewUserService(userRepo repository.UserRepo, publisher event.Publisher) UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Register 自助注册一律为 reader，其余角色只能由管理员授予
func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	username := strings.TrimSpace(regDTO.Username)
	email := strings.ToLower(strings.TrimSpace(regDTO.Email))

	if u, err := s.userRepo.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrUsernameExist
	}
	if u, err := s.userRepo.GetUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrEmailExist
	}

	hash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(regDTO.FullName),
		Role:         policy.RoleReader.String(),
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrUsernameExist
		}
		return nil, err
	}
	return toUserDTO(user), nil
}

// Login 支持用户名或邮箱登录，账号不存在与密码错误返回同一个错误
func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.LoginResultDTO, error) {
	user, err := s.findByAccount(ctx, strings.TrimSpace(loginDTO.Account))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrLoginFailed
	}
	if err = security.CheckPasswordHash(loginDTO.Password, user.PasswordHash); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return nil, ErrLoginFailed
		}
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResultDTO{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      toUserDTO(user),
	}, nil
}

// Logout 将 token 签名加入黑名单直到其自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		// 已失效的 token 无需处理
		return nil
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil
	}
	ttl := claims.TTL(time.Now())
	if ttl <= 0 {
		return nil
	}
	return redis.BlacklistToken(ctx, signature, ttl)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

// ResolveCaller 每次请求按数据库中的当前角色鉴权，角色变更立即生效
func (s *UserServiceImpl) ResolveCaller(ctx context.Context, id uint64) (policy.Caller, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return policy.Anonymous(), err
	}
	if user == nil {
		return policy.Anonymous(), ErrUserNotFound
	}
	role, ok := policy.ParseRole(user.Role)
	if !ok {
		return policy.Anonymous(), ErrInvalidRole
	}
	return policy.Caller{ID: user.ID, Role: role}, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, caller policy.Caller, role string, page, pageSize int) (*dto.PageResult, error) {
	if err := policy.Decide(caller, policy.OpUserManage, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if role != "" {
		if _, ok := policy.ParseRole(role); !ok {
			return nil, ErrInvalidRole
		}
	}
	users, total, err := s.userRepo.ListUsers(ctx, role, page, pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		list = append(list, toUserDTO(u))
	}
	return newPage(list, total, page, pageSize), nil
}

// ChangeRole 管理员修改角色，以旧角色为条件更新并写入审计记录
func (s *UserServiceImpl) ChangeRole(ctx context.Context, caller policy.Caller, userID uint64, roleDTO *dto.ChangeRoleDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err = policy.Decide(caller, policy.OpUserManage, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	newRole, ok := policy.ParseRole(roleDTO.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if user.Role == newRole.String() {
		return nil, ErrRoleUnchanged
	}
	if user.Role == policy.RoleAdmin.String() {
		admins, err := s.userRepo.CountByRole(ctx, policy.RoleAdmin.String())
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	change := &model.RoleChange{
		UserID:    user.ID,
		OldRole:   user.Role,
		NewRole:   newRole.String(),
		ChangedBy: caller.ID,
		Reason:    strings.TrimSpace(roleDTO.Reason),
	}
	affected, err := s.userRepo.ChangeUserRole(ctx, change)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrRoleChangedRace
	}
	log.InfoContext(ctx, "user role changed", "user_id", user.ID, "old", change.OldRole, "new", change.NewRole, "by", caller.ID)

	publishEvent(ctx, s.publisher, event.New(event.RoleChanged, caller.ID, 0).
		To(user.ID).
		With("old_role", change.OldRole).
		With("new_role", change.NewRole))

	user.Role = change.NewRole
	return toUserDTO(user), nil
}

func (s *UserServiceImpl) GetRoleHistory(ctx context.Context, caller policy.Caller, userID uint64) ([]*dto.RoleChangeDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err = policy.Decide(caller, policy.OpUserManage, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	changes, err := s.userRepo.GetRoleChanges(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.RoleChangeDTO, 0, len(changes))
	if err = copier.Copy(&res, &changes); err != nil {
		return nil, err
	}
	return res, nil
}

// EnsureBootstrapAdmin 库中没有管理员时按配置创建第一个
func (s *UserServiceImpl) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapAdminConfig) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	admins, err := s.userRepo.CountByRole(ctx, policy.RoleAdmin.String())
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}
	existing, err := s.userRepo.GetUserByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		log.WarnContext(ctx, "bootstrap admin username is taken by a non-admin user", "username", cfg.Username)
		return nil
	}

	hash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	user := &model.User{
		Username:     cfg.Username,
		Email:        strings.ToLower(cfg.Email),
		PasswordHash: hash,
		FullName:     "Quản trị viên",
		Role:         policy.RoleAdmin.String(),
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return err
	}
	log.InfoContext(ctx, "bootstrap admin created", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *UserServiceImpl) findByAccount(ctx context.Context, account string) (*model.User, error) {
	if strings.Contains(account, "@") {
		return s.userRepo.GetUserByEmail(ctx, strings.ToLower(account))
	}
	return s.userRepo.GetUserByUsername(ctx, account)
}

func toUserDTO(u *model.User) *dto.UserDTO {
	d := &dto.UserDTO{}
	_ = copier.Copy(d, u)
	return d
}
