package service

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/event"
	"Toasoan/internal/model"
	"Toasoan/internal/policy"
	"Toasoan/internal/repository"
	"Toasoan/internal/workflow"
	"context"
	log "log/slog"
	"strings"
	"unicode/utf8"
)

const commentPreviewRunes = 80

type CommentService interface {
	ListTopLevel(ctx context.Context, caller policy.Caller, articleID uint64) ([]*dto.CommentDTO, error)
	ListReplies(ctx context.Context, caller policy.Caller, commentID uint64) ([]*dto.CommentDTO, error)
	CreateComment(ctx context.Context, caller policy.Caller, articleID uint64, dto *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, caller policy.Caller, commentID uint64, dto *dto.CommentUpdateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, caller policy.Caller, commentID uint64) (int64, error)
	ToggleLike(ctx context.Context, caller policy.Caller, commentID uint64) (*dto.CommentLikeDTO, error)
}

type CommentServiceImpl struct {
	commentRepo repository.CommentRepo
	articleRepo repository.ArticleRepo
	userRepo    repository.UserRepo
	publisher   event.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepo,
	articleRepo repository.ArticleRepo,
	userRepo repository.UserRepo,
	publisher event.Publisher,
) CommentService {
	return &CommentServiceImpl{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// ListTopLevel 一级评论新的在前，每层回复按时间正序，整棵树一次取出在内存中组装
func (s *CommentServiceImpl) ListTopLevel(ctx context.Context, caller policy.Caller, articleID uint64) ([]*dto.CommentDTO, error) {
	if _, err := s.visibleArticle(ctx, caller, articleID); err != nil {
		return nil, err
	}
	roots, err := s.commentRepo.ListTopLevel(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return make([]*dto.CommentDTO, 0), nil
	}
	replies, err := s.commentRepo.ListArticleReplies(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return s.buildForest(ctx, caller, roots, replies)
}

// ListReplies 某条评论下的完整回复树（不含自身）
func (s *CommentServiceImpl) ListReplies(ctx context.Context, caller policy.Caller, commentID uint64) ([]*dto.CommentDTO, error) {
	comment, err := s.load(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err = s.visibleArticle(ctx, caller, comment.ArticleID); err != nil {
		return nil, err
	}
	descendants, err := s.commentRepo.ListDescendants(ctx, commentID)
	if err != nil {
		return nil, err
	}

	roots := make([]*model.Comment, 0)
	rest := make([]*model.Comment, 0, len(descendants))
	for _, c := range descendants {
		if c.ParentID != nil && *c.ParentID == commentID {
			roots = append(roots, c)
		} else {
			rest = append(rest, c)
		}
	}
	return s.buildForest(ctx, caller, roots, rest)
}

// CreateComment 只能评论已发布的文章；回复时父评论必须属于同一篇文章
func (s *CommentServiceImpl) CreateComment(ctx context.Context, caller policy.Caller, articleID uint64, createDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if err = policy.Decide(caller, policy.OpCommentCreate, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if article.Status != workflow.StatusPublished.String() {
		return nil, ErrCommentClosed
	}
	content := strings.TrimSpace(createDTO.Content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	var parent *model.Comment
	if createDTO.ParentID != nil {
		if parent, err = s.load(ctx, *createDTO.ParentID); err != nil {
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, ErrCommentParent
		}
	}

	comment := &model.Comment{
		ArticleID: articleID,
		AuthorID:  caller.ID,
		ParentID:  createDTO.ParentID,
		Content:   content,
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if parent != nil && parent.AuthorID != caller.ID {
		publishEvent(ctx, s.publisher, event.New(event.CommentReplied, caller.ID, articleID).
			To(parent.AuthorID).
			With("comment_id", comment.ID).
			With("preview", preview(content)))
	}

	forest, err := s.buildForest(ctx, caller, []*model.Comment{comment}, nil)
	if err != nil {
		return nil, err
	}
	return forest[0], nil
}

func (s *CommentServiceImpl) UpdateComment(ctx context.Context, caller policy.Caller, commentID uint64, updateDTO *dto.CommentUpdateDTO) (*dto.CommentDTO, error) {
	comment, err := s.load(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, policy.OpCommentUpdate, policy.Resource{OwnerID: comment.AuthorID}).Err(); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(updateDTO.Content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	if _, err = s.commentRepo.UpdateCommentContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	// 重新读取，期间被删除时返回 NotFound
	if comment, err = s.load(ctx, commentID); err != nil {
		return nil, err
	}
	forest, err := s.buildForest(ctx, caller, []*model.Comment{comment}, nil)
	if err != nil {
		return nil, err
	}
	return forest[0], nil
}

// DeleteComment 连同整棵回复子树和点赞一起删除，返回删除的评论数
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, caller policy.Caller, commentID uint64) (int64, error) {
	comment, err := s.load(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if err = policy.Decide(caller, policy.OpCommentDelete, policy.Resource{OwnerID: comment.AuthorID}).Err(); err != nil {
		return 0, err
	}
	removed, err := s.commentRepo.DeleteSubtree(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, ErrCommentNotFound
	}
	log.InfoContext(ctx, "comment subtree deleted", "comment_id", commentID, "removed", removed, "by", caller.ID)
	return removed, nil
}

// ToggleLike 未点赞则点赞，已点赞则取消
func (s *CommentServiceImpl) ToggleLike(ctx context.Context, caller policy.Caller, commentID uint64) (*dto.CommentLikeDTO, error) {
	comment, err := s.load(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, policy.OpCommentLike, policy.Resource{OwnerID: comment.AuthorID}).Err(); err != nil {
		return nil, err
	}
	liked, count, err := s.commentRepo.ToggleLike(ctx, commentID, caller.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CommentLikeDTO{Liked: liked, LikeCount: count}, nil
}

// visibleArticle 评论的可见性跟随文章
func (s *CommentServiceImpl) visibleArticle(ctx context.Context, caller policy.Caller, articleID uint64) (*model.Article, error) {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if err = policy.Decide(caller, policy.OpArticleView, resourceOf(article)).Err(); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *CommentServiceImpl) load(ctx context.Context, id uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// buildForest 以 roots 为根组装树；replies 需按时间正序，父节点不在集合中的回复被忽略
func (s *CommentServiceImpl) buildForest(ctx context.Context, caller policy.Caller, roots, replies []*model.Comment) ([]*dto.CommentDTO, error) {
	all := make([]*model.Comment, 0, len(roots)+len(replies))
	all = append(all, roots...)
	all = append(all, replies...)

	ids := make([]uint64, 0, len(all))
	authorSet := make(map[uint64]struct{})
	authorIDs := make([]uint64, 0)
	for _, c := range all {
		ids = append(ids, c.ID)
		if _, ok := authorSet[c.AuthorID]; !ok {
			authorSet[c.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}

	counts, err := s.commentRepo.CountLikes(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.commentRepo.LikedBy(ctx, caller.ID, ids)
	if err != nil {
		return nil, err
	}
	authors, err := loadUserBriefs(ctx, s.userRepo, authorIDs)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint64]*dto.CommentDTO, len(all))
	for _, c := range all {
		nodes[c.ID] = &dto.CommentDTO{
			ID:        c.ID,
			ArticleID: c.ArticleID,
			ParentID:  c.ParentID,
			AuthorID:  c.AuthorID,
			Author:    authors[c.AuthorID],
			Content:   c.Content,
			LikeCount: counts[c.ID],
			LikedByMe: liked[c.ID],
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Replies:   make([]*dto.CommentDTO, 0),
		}
	}

	children := make(map[uint64][]*model.Comment)
	for _, c := range replies {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	// 显式工作栈代替递归，树深度不受调用栈限制
	forest := make([]*dto.CommentDTO, 0, len(roots))
	stack := make([]uint64, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, nodes[r.ID])
		stack = append(stack, r.ID)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := nodes[id]
		for _, child := range children[id] {
			parent.Replies = append(parent.Replies, nodes[child.ID])
			stack = append(stack, child.ID)
		}
	}
	return forest, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= commentPreviewRunes {
		return content
	}
	return string([]rune(content)[:commentPreviewRunes]) + "…"
}
