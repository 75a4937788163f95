package policy

import "Toasoan/internal/workflow"

// Operation 需要鉴权的操作
type Operation string

const (
	OpArticleView    Operation = "article.view"
	OpArticleCreate  Operation = "article.create"
	OpArticleUpdate  Operation = "article.update"
	OpArticleDelete  Operation = "article.delete"
	OpArticleSubmit  Operation = "article.submit"
	OpArticleReview  Operation = "article.review"
	OpArticlePublish Operation = "article.publish"

	OpCommentCreate Operation = "comment.create"
	OpCommentLike   Operation = "comment.like"
	OpCommentUpdate Operation = "comment.update"
	OpCommentDelete Operation = "comment.delete"

	OpDeletionRequestCreate  Operation = "deletion_request.create"
	OpDeletionRequestReview  Operation = "deletion_request.review"
	OpDeletionRequestListAll Operation = "deletion_request.list_all"

	OpCategoryWrite  Operation = "category.write"
	OpCategoryDelete Operation = "category.delete"
	OpUserManage     Operation = "user.manage"
	OpMediaUpload    Operation = "media.upload"
)

// ArticleOperations 文章相关操作，用于计算详情页可执行的动作
var ArticleOperations = []Operation{
	OpArticleUpdate, OpArticleDelete, OpArticleSubmit, OpArticleReview, OpArticlePublish,
}

// Grant 一条授权规则，同一操作的多条规则之间为“或”关系
type Grant struct {
	// Public 为 true 时匿名用户也满足，Roles 被忽略
	Public bool
	// Roles 为空表示任意已登录角色
	Roles []Role
	// OwnerOnly 要求调用方是资源所有者
	OwnerOnly bool
	// Statuses 为空表示不限资源状态
	Statuses []workflow.ArticleStatus
}

var (
	staff   = []Role{RoleAdmin, RoleEditor}
	writers = []Role{RoleAdmin, RoleEditor, RoleAuthor}
)

// rules 角色 × 状态 × 所有权 授权表
var rules = map[Operation][]Grant{
	OpArticleView: {
		{Public: true, Statuses: []workflow.ArticleStatus{workflow.StatusPublished}},
		{Roles: staff, Statuses: []workflow.ArticleStatus{workflow.StatusPending, workflow.StatusApproved}},
		{Roles: writers, OwnerOnly: true},
	},
	OpArticleCreate: {
		{Roles: writers},
	},
	OpArticleUpdate: {
		{Roles: staff},
		{Roles: []Role{RoleAuthor}, OwnerOnly: true},
	},
	OpArticleDelete: {
		{Roles: []Role{RoleAdmin}},
		{Roles: []Role{RoleAuthor}, OwnerOnly: true, Statuses: []workflow.ArticleStatus{workflow.StatusDraft}},
	},
	// 状态是否允许提交由生命周期判断，这里只管身份
	OpArticleSubmit: {
		{Roles: writers, OwnerOnly: true},
	},
	OpArticleReview: {
		{Roles: staff},
	},
	OpArticlePublish: {
		{Roles: staff},
	},

	OpCommentCreate: {
		{Roles: []Role{RoleReader, RoleAuthor}},
	},
	OpCommentLike: {
		{},
	},
	OpCommentUpdate: {
		{OwnerOnly: true},
	},
	OpCommentDelete: {
		{Roles: []Role{RoleAdmin}},
		{OwnerOnly: true},
	},

	OpDeletionRequestCreate: {
		{OwnerOnly: true},
	},
	OpDeletionRequestReview: {
		{Roles: staff},
	},
	OpDeletionRequestListAll: {
		{Roles: staff},
	},

	OpCategoryWrite: {
		{Roles: staff},
	},
	OpCategoryDelete: {
		{Roles: []Role{RoleAdmin}},
	},
	OpUserManage: {
		{Roles: []Role{RoleAdmin}},
	},
	OpMediaUpload: {
		{Roles: writers},
	},
}

// GrantsFor 返回某操作的授权规则副本
func GrantsFor(op Operation) []Grant {
	grants := rules[op]
	out := make([]Grant, len(grants))
	copy(out, grants)
	return out
}

func (g Grant) matchRole(c Caller) bool {
	if g.Public {
		return true
	}
	if c.IsAnonymous() {
		return false
	}
	if len(g.Roles) == 0 {
		return true
	}
	for _, r := range g.Roles {
		if r == c.Role {
			return true
		}
	}
	return false
}

func (g Grant) matchStatus(s workflow.ArticleStatus) bool {
	if len(g.Statuses) == 0 {
		return true
	}
	for _, st := range g.Statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (g Grant) match(c Caller, res Resource) bool {
	if !g.matchRole(c) {
		return false
	}
	if g.OwnerOnly && !c.Owns(res.OwnerID) {
		return false
	}
	return g.matchStatus(res.Status)
}
