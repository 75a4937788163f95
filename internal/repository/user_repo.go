package repository

import (
	"Toasoan/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, role string, page, pageSize int) ([]*model.User, int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	GetUserIdsByRoles(ctx context.Context, roles []string) ([]uint64, error)
	CreateUser(ctx context.Context, user *model.User) error
	ChangeUserRole(ctx context.Context, change *model.RoleChange) (int64, error)
	GetRoleChanges(ctx context.Context, userID uint64) ([]*model.RoleChange, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *UserRepoImpl) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).Where(query, args...).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) ListUsers(ctx context.Context, role string, page, pageSize int) ([]*model.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*model.User, 0)
	err := query.Order("id ASC").Scopes(Paginate(page, pageSize)).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserRepoImpl) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// GetUserIdsByRoles 通知群发时取某几类角色的全部用户
func (s *UserRepoImpl) GetUserIdsByRoles(ctx context.Context, roles []string) ([]uint64, error) {
	ids := make([]uint64, 0)
	if len(roles) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("role IN ?", roles).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// ChangeUserRole 以 OldRole 为条件更新角色并写审计记录，返回 0 表示角色已被并发修改
func (s *UserRepoImpl) ChangeUserRole(ctx context.Context, change *model.RoleChange) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("id = ? AND role = ?", change.UserID, change.OldRole).
			Update("role", change.NewRole)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Create(change).Error
	})
	return affected, err
}

func (s *UserRepoImpl) GetRoleChanges(ctx context.Context, userID uint64) ([]*model.RoleChange, error) {
	changes := make([]*model.RoleChange, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&changes).Error
	return changes, err
}
