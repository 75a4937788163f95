package repository

import (
	"Toasoan/internal/model"
	"Toasoan/internal/workflow"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type DeletionRequestQuery struct {
	Status   string
	AuthorID uint64
	Page     int
	PageSize int
}

type DeletionRequestRepo interface {
	CreateRequest(ctx context.Context, req *model.DeletionRequest) error
	GetRequest(ctx context.Context, id uint64) (*model.DeletionRequest, error)
	GetPendingByArticle(ctx context.Context, articleID uint64) (*model.DeletionRequest, error)
	ListRequests(ctx context.Context, q DeletionRequestQuery) ([]*model.DeletionRequest, int64, error)
	ResolveRequest(ctx context.Context, req *model.DeletionRequest, to workflow.DeletionStatus, reviewerID uint64, now time.Time) (int64, error)
}

type DeletionRequestRepoImpl struct {
	db *gorm.DB
}

func NewDeletionRequestRepo(db *gorm.DB) DeletionRequestRepo {
	return &DeletionRequestRepoImpl{db: db}
}

// CreateRequest 写入待审核申请，同一文章已有待审核申请时返回唯一键冲突
func (s *DeletionRequestRepoImpl) CreateRequest(ctx context.Context, req *model.DeletionRequest) error {
	key := req.ArticleID
	req.Status = string(workflow.DeletionPending)
	req.PendingKey = &key
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *DeletionRequestRepoImpl) GetRequest(ctx context.Context, id uint64) (*model.DeletionRequest, error) {
	var req model.DeletionRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (s *DeletionRequestRepoImpl) GetPendingByArticle(ctx context.Context, articleID uint64) (*model.DeletionRequest, error) {
	var req model.DeletionRequest
	err := s.db.WithContext(ctx).
		Where("pending_key = ?", articleID).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (s *DeletionRequestRepoImpl) ListRequests(ctx context.Context, q DeletionRequestQuery) ([]*model.DeletionRequest, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.DeletionRequest{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.AuthorID != 0 {
		query = query.Where("author_id = ?", q.AuthorID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := make([]*model.DeletionRequest, 0)
	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(Paginate(q.Page, q.PageSize)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ResolveRequest 以 pending 为条件结束申请；批准时同一事务内删除文章。返回 0 表示申请已不是 pending
func (s *DeletionRequestRepoImpl) ResolveRequest(ctx context.Context, req *model.DeletionRequest, to workflow.DeletionStatus, reviewerID uint64, now time.Time) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.DeletionRequest{}).
			Where("id = ? AND status = ?", req.ID, string(workflow.DeletionPending)).
			Updates(map[string]interface{}{
				"status":      string(to),
				"pending_key": nil,
				"reviewer_id": reviewerID,
				"reviewed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 || to != workflow.DeletionApproved {
			return nil
		}
		_, err := deleteArticleTx(tx, req.ArticleID, "")
		return err
	})
	return affected, err
}
