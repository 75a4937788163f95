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
	"time"

	"github.com/jinzhu/copier"
)

type DeletionRequestService interface {
	CreateRequest(ctx context.Context, caller policy.Caller, articleID uint64, dto *dto.DeletionRequestCreateDTO) (*dto.DeletionRequestDTO, error)
	ApproveRequest(ctx context.Context, caller policy.Caller, requestID uint64) (*dto.DeletionRequestDTO, error)
	RejectRequest(ctx context.Context, caller policy.Caller, requestID uint64) (*dto.DeletionRequestDTO, error)
	ListRequests(ctx context.Context, caller policy.Caller, query *dto.DeletionRequestQueryDTO) (*dto.PageResult, error)
	ListMyRequests(ctx context.Context, caller policy.Caller, query *dto.DeletionRequestQueryDTO) (*dto.PageResult, error)
}

type DeletionRequestServiceImpl struct {
	requestRepo repository.DeletionRequestRepo
	articleRepo repository.ArticleRepo
	publisher   event.Publisher
	now         func() time.Time
}

func NewDeletionRequestService(
	requestRepo repository.DeletionRequestRepo,
	articleRepo repository.ArticleRepo,
	publisher event.Publisher,
) DeletionRequestService {
	return &DeletionRequestServiceImpl{
		requestRepo: requestRepo,
		articleRepo: articleRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// CreateRequest 依次检查：文章存在、调用方是作者、理由长度、文章已发布、没有待审核申请
func (s *DeletionRequestServiceImpl) CreateRequest(ctx context.Context, caller policy.Caller, articleID uint64, createDTO *dto.DeletionRequestCreateDTO) (*dto.DeletionRequestDTO, error) {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if err = policy.Decide(caller, policy.OpDeletionRequestCreate, resourceOf(article)).Err(); err != nil {
		return nil, err
	}
	if err = workflow.ValidateDeletionReason(createDTO.Reason); err != nil {
		return nil, err
	}
	if article.Status != workflow.StatusPublished.String() {
		return nil, ErrDeletionState
	}

	pending, err := s.requestRepo.GetPendingByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrDeletionExist
	}

	req := &model.DeletionRequest{
		ArticleID: articleID,
		AuthorID:  caller.ID,
		Reason:    strings.TrimSpace(createDTO.Reason),
	}
	if err = s.requestRepo.CreateRequest(ctx, req); err != nil {
		// 并发创建时由唯一索引兜底
		if repository.IsDuplicateKey(err) {
			return nil, ErrDeletionExist
		}
		return nil, err
	}

	publishEvent(ctx, s.publisher, event.New(event.DeletionRequested, caller.ID, articleID).
		ToStaff().
		With("request_id", req.ID).
		With("title", article.Title).
		With("reason", req.Reason))
	return toDeletionRequestDTO(req), nil
}

// ApproveRequest 通过申请并在同一事务内删除文章
func (s *DeletionRequestServiceImpl) ApproveRequest(ctx context.Context, caller policy.Caller, requestID uint64) (*dto.DeletionRequestDTO, error) {
	return s.resolve(ctx, caller, requestID, true)
}

// RejectRequest 驳回为终态，作者可重新发起新申请
func (s *DeletionRequestServiceImpl) RejectRequest(ctx context.Context, caller policy.Caller, requestID uint64) (*dto.DeletionRequestDTO, error) {
	return s.resolve(ctx, caller, requestID, false)
}

func (s *DeletionRequestServiceImpl) resolve(ctx context.Context, caller policy.Caller, requestID uint64, approve bool) (*dto.DeletionRequestDTO, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err = policy.Decide(caller, policy.OpDeletionRequestReview, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	to, err := workflow.NextDeletionStatus(workflow.DeletionStatus(req.Status), approve)
	if err != nil {
		return nil, err
	}

	affected, err := s.requestRepo.ResolveRequest(ctx, req, to, caller.ID, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 并发审核，已被他人处理
		return nil, workflow.ErrDeletionNotPending
	}
	log.InfoContext(ctx, "deletion request resolved", "request_id", req.ID, "article_id", req.ArticleID, "status", to, "by", caller.ID)

	typ := event.DeletionRejected
	if approve {
		typ = event.DeletionApproved
	}
	publishEvent(ctx, s.publisher, event.New(typ, caller.ID, req.ArticleID).
		To(req.AuthorID).
		With("request_id", req.ID))

	req, err = s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return toDeletionRequestDTO(req), nil
}

// ListRequests 审核人员查看全部申请
func (s *DeletionRequestServiceImpl) ListRequests(ctx context.Context, caller policy.Caller, query *dto.DeletionRequestQueryDTO) (*dto.PageResult, error) {
	if err := policy.Decide(caller, policy.OpDeletionRequestListAll, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.DeletionRequestQuery{
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

func (s *DeletionRequestServiceImpl) ListMyRequests(ctx context.Context, caller policy.Caller, query *dto.DeletionRequestQueryDTO) (*dto.PageResult, error) {
	if caller.IsAnonymous() {
		return nil, policy.ErrUnauthenticated
	}
	return s.list(ctx, repository.DeletionRequestQuery{
		Status:   query.Status,
		AuthorID: caller.ID,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

func (s *DeletionRequestServiceImpl) list(ctx context.Context, q repository.DeletionRequestQuery) (*dto.PageResult, error) {
	if q.Status != "" && !workflow.DeletionStatus(q.Status).Valid() {
		return nil, ErrParamInvalid
	}
	reqs, total, err := s.requestRepo.ListRequests(ctx, q)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.DeletionRequestDTO, 0, len(reqs))
	if err = copier.Copy(&list, &reqs); err != nil {
		return nil, err
	}
	return newPage(list, total, q.Page, q.PageSize), nil
}

func (s *DeletionRequestServiceImpl) load(ctx context.Context, id uint64) (*model.DeletionRequest, error) {
	req, err := s.requestRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrDeletionNotFound
	}
	return req, nil
}

func toDeletionRequestDTO(r *model.DeletionRequest) *dto.DeletionRequestDTO {
	d := &dto.DeletionRequestDTO{}
	_ = copier.Copy(d, r)
	return d
}
