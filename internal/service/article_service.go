package service

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/event"
	"Toasoan/internal/model"
	"Toasoan/internal/pkg/consts"
	"Toasoan/internal/pkg/util"
	"Toasoan/internal/policy"
	"Toasoan/internal/repository"
	"Toasoan/internal/workflow"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

// ViewCounter 浏览量缓冲计数器
type ViewCounter interface {
	Incr(ctx context.Context, articleID uint64) error
	Buffered(ctx context.Context, articleID uint64) (int64, error)
}

type ArticleService interface {
	CreateArticle(ctx context.Context, caller policy.Caller, dto *dto.ArticleCreateDTO) (*dto.ArticleDTO, error)
	GetArticle(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error)
	ListArticles(ctx context.Context, caller policy.Caller, query *dto.ArticleQueryDTO) (*dto.PageResult, error)
	ListMyArticles(ctx context.Context, caller policy.Caller, query *dto.ArticleQueryDTO) (*dto.PageResult, error)
	UpdateArticle(ctx context.Context, caller policy.Caller, id uint64, dto *dto.ArticleUpdateDTO) (*dto.ArticleDTO, error)
	DeleteArticle(ctx context.Context, caller policy.Caller, id uint64) error
	SubmitArticle(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error)
	ReviewArticle(ctx context.Context, caller policy.Caller, id uint64, dto *dto.ArticleReviewDTO) (*dto.ArticleDTO, error)
	PublishArticle(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error)
}

type ArticleServiceImpl struct {
	articleRepo  repository.ArticleRepo
	categoryRepo repository.CategoryRepo
	views        ViewCounter
	publisher    event.Publisher
	now          func() time.Time
}

func NewArticleService(
	articleRepo repository.ArticleRepo,
	categoryRepo repository.CategoryRepo,
	views ViewCounter,
	publisher event.Publisher,
) ArticleService {
	return &ArticleServiceImpl{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		views:        views,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *ArticleServiceImpl) CreateArticle(ctx context.Context, caller policy.Caller, createDTO *dto.ArticleCreateDTO) (*dto.ArticleDTO, error) {
	if err := policy.Decide(caller, policy.OpArticleCreate, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, createDTO.CategoryID); err != nil {
		return nil, err
	}

	article := &model.Article{
		AuthorID:   caller.ID,
		CategoryID: createDTO.CategoryID,
		Status:     workflow.StatusDraft.String(),
		Title:      strings.TrimSpace(createDTO.Title),
		Content:    createDTO.Content,
		Excerpt:    strings.TrimSpace(createDTO.Excerpt),
		Thumbnail:  strings.TrimSpace(createDTO.Thumbnail),
	}
	if article.Excerpt == "" {
		article.Excerpt = util.Excerpt(article.Content, consts.ExcerptMaxRunes)
	}
	if err := s.articleRepo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	return s.reload(ctx, caller, article.ID)
}

// GetArticle 先判断存在再鉴权；已发布文章每次读取浏览量 +1
func (s *ArticleServiceImpl) GetArticle(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, policy.OpArticleView, resourceOf(article)).Err(); err != nil {
		return nil, err
	}

	if article.Status == workflow.StatusPublished.String() {
		article.ViewCount += s.countView(ctx, article.ID)
	}
	return toArticleDTO(caller, article, true), nil
}

func (s *ArticleServiceImpl) ListArticles(ctx context.Context, caller policy.Caller, query *dto.ArticleQueryDTO) (*dto.PageResult, error) {
	return s.list(ctx, caller, policy.ScopeFor(caller), query)
}

// ListMyArticles 本人的全部文章，任意状态
func (s *ArticleServiceImpl) ListMyArticles(ctx context.Context, caller policy.Caller, query *dto.ArticleQueryDTO) (*dto.PageResult, error) {
	if caller.IsAnonymous() {
		return nil, policy.ErrUnauthenticated
	}
	q := *query
	q.AuthorID = caller.ID
	return s.list(ctx, caller, policy.ListScope{OwnerID: caller.ID}, &q)
}

func (s *ArticleServiceImpl) list(ctx context.Context, caller policy.Caller, scope policy.ListScope, query *dto.ArticleQueryDTO) (*dto.PageResult, error) {
	if query.Status != "" {
		if _, ok := workflow.ParseArticleStatus(query.Status); !ok {
			return nil, ErrParamInvalid
		}
	}
	statuses := make([]string, 0, len(scope.Statuses))
	for _, st := range scope.Statuses {
		statuses = append(statuses, st.String())
	}
	articles, total, err := s.articleRepo.ListArticles(ctx, repository.ArticleQuery{
		Statuses:   statuses,
		OwnerID:    scope.OwnerID,
		Status:     query.Status,
		CategoryID: query.CategoryID,
		AuthorID:   query.AuthorID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ArticleDTO, 0, len(articles))
	for _, a := range articles {
		list = append(list, toArticleDTO(caller, a, false))
	}
	return newPage(list, total, query.Page, query.PageSize), nil
}

// UpdateArticle 编辑内容；未发布的文章编辑后回到 draft，已发布的保持 published
func (s *ArticleServiceImpl) UpdateArticle(ctx context.Context, caller policy.Caller, id uint64, updateDTO *dto.ArticleUpdateDTO) (*dto.ArticleDTO, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, policy.OpArticleUpdate, resourceOf(article)).Err(); err != nil {
		return nil, err
	}
	from := workflow.ArticleStatus(article.Status)
	to, err := workflow.NextArticleStatus(from, workflow.ActionEdit)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": to.String()}
	if updateDTO.CategoryID != nil && *updateDTO.CategoryID != article.CategoryID {
		if err = s.checkCategory(ctx, *updateDTO.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *updateDTO.CategoryID
	}
	if updateDTO.Title != nil {
		fields["title"] = strings.TrimSpace(*updateDTO.Title)
	}
	if updateDTO.Content != nil {
		fields["content"] = *updateDTO.Content
		if updateDTO.Excerpt == nil {
			fields["excerpt"] = util.Excerpt(*updateDTO.Content, consts.ExcerptMaxRunes)
		}
	}
	if updateDTO.Excerpt != nil {
		excerpt := strings.TrimSpace(*updateDTO.Excerpt)
		if excerpt == "" {
			content := article.Content
			if updateDTO.Content != nil {
				content = *updateDTO.Content
			}
			excerpt = util.Excerpt(content, consts.ExcerptMaxRunes)
		}
		fields["excerpt"] = excerpt
	}
	if updateDTO.Thumbnail != nil {
		fields["thumbnail"] = strings.TrimSpace(*updateDTO.Thumbnail)
	}

	affected, err := s.articleRepo.UpdateArticle(ctx, id, from.String(), fields)
	if err != nil {
		return nil, err
	}
	if err = s.settle(ctx, id, from, affected); err != nil {
		return nil, err
	}
	return s.reload(ctx, caller, id)
}

// DeleteArticle 管理员不限状态；作者只能删除自己的草稿
func (s *ArticleServiceImpl) DeleteArticle(ctx context.Context, caller policy.Caller, id uint64) error {
	article, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err = policy.Decide(caller, policy.OpArticleDelete, resourceOf(article)).Err(); err != nil {
		return err
	}

	expect := article.Status
	if caller.Role == policy.RoleAdmin {
		expect = ""
	}
	affected, err := s.articleRepo.DeleteArticle(ctx, id, expect)
	if err != nil {
		return err
	}
	if affected == 0 {
		current, err := s.articleRepo.GetArticle(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrArticleNotFound
		}
		return ErrArticleChanged
	}

	log.InfoContext(ctx, "article deleted", "article_id", id, "status", article.Status, "by", caller.ID)
	if article.AuthorID != caller.ID {
		publishEvent(ctx, s.publisher, event.New(event.ArticleDeleted, caller.ID, id).
			To(article.AuthorID).
			With("title", article.Title))
	}
	return nil
}

// SubmitArticle 作者提交审核，只能从 draft 提交
func (s *ArticleServiceImpl) SubmitArticle(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error) {
	article, err := s.transit(ctx, caller, id, policy.OpArticleSubmit, workflow.ActionSubmit)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, event.New(event.ArticleSubmitted, caller.ID, id).
		ToStaff().
		With("title", article.Title))
	return s.reload(ctx, caller, id)
}

// ReviewArticle 审核：approved / rejected 要求当前为 pending，published 等同于发布
func (s *ArticleServiceImpl) ReviewArticle(ctx context.Context, caller policy.Caller, id uint64, reviewDTO *dto.ArticleReviewDTO) (*dto.ArticleDTO, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, policy.OpArticleReview, resourceOf(article)).Err(); err != nil {
		return nil, err
	}
	action, err := workflow.ReviewAction(reviewDTO.Status)
	if err != nil {
		return nil, err
	}
	if action == workflow.ActionPublish {
		return s.PublishArticle(ctx, caller, id)
	}

	article, err = s.transit(ctx, caller, id, policy.OpArticleReview, action)
	if err != nil {
		return nil, err
	}

	typ := event.ArticleApproved
	if action == workflow.ActionReject {
		typ = event.ArticleRejected
	}
	e := event.New(typ, caller.ID, id).To(article.AuthorID).With("title", article.Title)
	if note := strings.TrimSpace(reviewDTO.Note); note != "" {
		e.With("note", note)
	}
	publishEvent(ctx, s.publisher, e)
	return s.reload(ctx, caller, id)
}

// PublishArticle 不要求先经过 approved；重复发布不改变 published_at
func (s *ArticleServiceImpl) PublishArticle(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error) {
	article, err := s.transit(ctx, caller, id, policy.OpArticlePublish, workflow.ActionPublish)
	if err != nil {
		return nil, err
	}
	if article.PublishedAt == nil {
		publishEvent(ctx, s.publisher, event.New(event.ArticlePublished, caller.ID, id).
			To(article.AuthorID).
			With("title", article.Title))
	}
	return s.reload(ctx, caller, id)
}

// transit 读取当前状态 → 鉴权 → 计算迁移 → 带状态条件写入，返回迁移前的文章
func (s *ArticleServiceImpl) transit(ctx context.Context, caller policy.Caller, id uint64, op policy.Operation, action workflow.Action) (*model.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, op, resourceOf(article)).Err(); err != nil {
		return nil, err
	}
	from := workflow.ArticleStatus(article.Status)
	to, err := workflow.NextArticleStatus(from, action)
	if err != nil {
		return nil, err
	}

	affected, err := s.articleRepo.TransitStatus(ctx, id, from.String(), to.String(), s.now())
	if err != nil {
		return nil, err
	}
	if err = s.settle(ctx, id, from, affected); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "article status changed", "article_id", id, "action", action, "from", from, "to", to, "by", caller.ID)
	return article, nil
}

// settle 条件更新未命中时重新读取：已删除为 NotFound，状态被并发修改为 InvalidState，
// 状态未变说明数据库判定无需修改
func (s *ArticleServiceImpl) settle(ctx context.Context, id uint64, expect workflow.ArticleStatus, affected int64) error {
	if affected > 0 {
		return nil
	}
	current, err := s.articleRepo.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrArticleNotFound
	}
	if current.Status != expect.String() {
		return ErrArticleChanged
	}
	return nil
}

// countView 优先写 Redis 缓冲，失败时直接写库；返回尚未落库的浏览量
func (s *ArticleServiceImpl) countView(ctx context.Context, id uint64) int64 {
	if s.views != nil {
		err := s.views.Incr(ctx, id)
		if err == nil {
			buffered, err := s.views.Buffered(ctx, id)
			if err != nil {
				return 1
			}
			return buffered
		}
		log.WarnContext(ctx, "buffer article view failed, fallback to db", "article_id", id, "err", err)
	}
	if err := s.articleRepo.IncrViewCount(ctx, id, 1); err != nil {
		log.WarnContext(ctx, "increase article view failed", "article_id", id, "err", err)
		return 0
	}
	return 1
}

func (s *ArticleServiceImpl) checkCategory(ctx context.Context, id uint64) error {
	category, err := s.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *ArticleServiceImpl) load(ctx context.Context, id uint64) (*model.Article, error) {
	article, err := s.articleRepo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

func (s *ArticleServiceImpl) reload(ctx context.Context, caller policy.Caller, id uint64) (*dto.ArticleDTO, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toArticleDTO(caller, article, true), nil
}

func resourceOf(a *model.Article) policy.Resource {
	return policy.Resource{OwnerID: a.AuthorID, Status: workflow.ArticleStatus(a.Status)}
}

func toArticleDTO(caller policy.Caller, a *model.Article, detail bool) *dto.ArticleDTO {
	d := &dto.ArticleDTO{}
	_ = copier.Copy(d, a)
	d.Author = toUserBrief(&a.Author)
	d.CategoryName = a.Category.Name
	if !detail {
		d.Content = ""
		return d
	}
	for _, op := range policy.Permitted(caller, resourceOf(a), policy.ArticleOperations...) {
		d.Actions = append(d.Actions, string(op))
	}
	return d
}
