package repository

import (
	"Toasoan/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySQL 8 与 SQLite 均支持 WITH RECURSIVE
const (
	descendantsSQL = `WITH RECURSIVE subtree AS (
	SELECT * FROM comments WHERE parent_id = ?
	UNION ALL
	SELECT c.* FROM comments c JOIN subtree s ON c.parent_id = s.id
)
SELECT * FROM subtree ORDER BY created_at ASC, id ASC`

	subtreeIDsSQL = `WITH RECURSIVE subtree(id) AS (
	SELECT id FROM comments WHERE id IN ?
	UNION ALL
	SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
)
SELECT id FROM subtree`
)

// maxSubtreePasses 删除期间并发插入的回复最多补删的轮数
const maxSubtreePasses = 8

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id uint64) (*model.Comment, error)
	UpdateCommentContent(ctx context.Context, id uint64, content string) (int64, error)
	ListTopLevel(ctx context.Context, articleID uint64) ([]*model.Comment, error)
	ListArticleReplies(ctx context.Context, articleID uint64) ([]*model.Comment, error)
	ListDescendants(ctx context.Context, commentID uint64) ([]*model.Comment, error)
	DeleteSubtree(ctx context.Context, commentID uint64) (int64, error)
	ToggleLike(ctx context.Context, commentID, userID uint64) (bool, int64, error)
	CountLikes(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error)
	LikedBy(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error)
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db: db}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *CommentRepoImpl) GetComment(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (s *CommentRepoImpl) UpdateCommentContent(ctx context.Context, id uint64, content string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content)
	return result.RowsAffected, result.Error
}

// ListTopLevel 一级评论，新的在前
func (s *CommentRepoImpl) ListTopLevel(ctx context.Context, articleID uint64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := s.db.WithContext(ctx).
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// ListArticleReplies 文章下全部回复，按时间正序，由调用方在内存中组树
func (s *CommentRepoImpl) ListArticleReplies(ctx context.Context, articleID uint64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := s.db.WithContext(ctx).
		Where("article_id = ? AND parent_id IS NOT NULL", articleID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// ListDescendants 某条评论的全部后代（不含自身），按时间正序
func (s *CommentRepoImpl) ListDescendants(ctx context.Context, commentID uint64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := s.db.WithContext(ctx).Raw(descendantsSQL, commentID).Scan(&comments).Error
	return comments, err
}

// DeleteSubtree 在一个事务内删除评论及其全部后代和点赞，返回删除的评论数
func (s *CommentRepoImpl) DeleteSubtree(ctx context.Context, commentID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roots := []uint64{commentID}
		for pass := 0; pass < maxSubtreePasses && len(roots) > 0; pass++ {
			ids := make([]uint64, 0)
			if err := tx.Raw(subtreeIDsSQL, roots).Scan(&ids).Error; err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}

			if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
			result := tx.Where("id IN ?", ids).Delete(&model.Comment{})
			if result.Error != nil {
				return result.Error
			}
			total += result.RowsAffected

			// 收集期间新插入、父节点已被删除的回复
			orphans := make([]uint64, 0)
			if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", ids).Pluck("id", &orphans).Error; err != nil {
				return err
			}
			roots = orphans
		}
		return nil
	})
	return total, err
}

// ToggleLike 已点赞则取消，否则点赞；返回操作后的状态和点赞总数
func (s *CommentRepoImpl) ToggleLike(ctx context.Context, commentID, userID uint64) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&model.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			like := &model.CommentLike{UserID: userID, CommentID: commentID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&model.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *CommentRepoImpl) CountLikes(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}
	rows := make([]model.CommentLikeCount, 0)
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.CommentID] = r.Count
	}
	return counts, nil
}

func (s *CommentRepoImpl) LikedBy(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool)
	if userID == 0 || len(commentIDs) == 0 {
		return liked, nil
	}
	ids := make([]uint64, 0)
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
