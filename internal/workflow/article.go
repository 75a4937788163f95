package workflow

import "Toasoan/internal/pkg/bizerr"

// ArticleStatus 文章生命周期状态，articles.status 字段的唯一取值来源
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusApproved  ArticleStatus = "approved"
	StatusRejected  ArticleStatus = "rejected"
	StatusPublished ArticleStatus = "published"
)

// AllArticleStatuses 按生命周期顺序排列
var AllArticleStatuses = []ArticleStatus{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusPublished}

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

func (s ArticleStatus) String() string {
	return string(s)
}

// ParseArticleStatus 解析外部传入的状态字符串
func ParseArticleStatus(raw string) (ArticleStatus, bool) {
	s := ArticleStatus(raw)
	return s, s.Valid()
}

// Action 触发状态迁移的操作
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPublish Action = "publish"
	ActionEdit    Action = "edit"
)

var (
	ErrInvalidTransition = bizerr.New(bizerr.KindInvalidState, "Trạng thái hiện tại của bài viết không cho phép thao tác này")
	ErrInvalidReview     = bizerr.New(bizerr.KindInvalidInput, "Trạng thái duyệt không hợp lệ")
)

// transitions 合法迁移表：action -> from -> to
// rejected 不会落库，驳回直接回到 draft，作者只需在 draft 上修改后重新提交
var transitions = map[Action]map[ArticleStatus]ArticleStatus{
	ActionSubmit: {
		StatusDraft: StatusPending,
	},
	ActionApprove: {
		StatusPending: StatusApproved,
	},
	ActionReject: {
		StatusPending: StatusDraft,
	},
	// 发布不校验是否经过审核通过，与原有行为保持一致
	ActionPublish: {
		StatusDraft:     StatusPublished,
		StatusPending:   StatusPublished,
		StatusApproved:  StatusPublished,
		StatusRejected:  StatusPublished,
		StatusPublished: StatusPublished,
	},
	ActionEdit: {
		StatusDraft:     StatusDraft,
		StatusPending:   StatusDraft,
		StatusApproved:  StatusDraft,
		StatusRejected:  StatusDraft,
		StatusPublished: StatusPublished,
	},
}

// NextArticleStatus 计算 from 状态执行 action 后的目标状态
func NextArticleStatus(from ArticleStatus, action Action) (ArticleStatus, error) {
	edges, ok := transitions[action]
	if !ok {
		return from, ErrInvalidTransition
	}
	to, ok := edges[from]
	if !ok {
		return from, ErrInvalidTransition
	}
	return to, nil
}

// CanTransition 仅判断迁移是否合法
func CanTransition(from ArticleStatus, action Action) bool {
	_, err := NextArticleStatus(from, action)
	return err == nil
}

// ReviewAction 将审核接口提交的目标状态映射为迁移操作
func ReviewAction(target string) (Action, error) {
	switch ArticleStatus(target) {
	case StatusApproved:
		return ActionApprove, nil
	case StatusRejected:
		return ActionReject, nil
	case StatusPublished:
		return ActionPublish, nil
	}
	return "", ErrInvalidReview
}
