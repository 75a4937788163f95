package policy

import (
	"Toasoan/internal/pkg/bizerr"
	"Toasoan/internal/workflow"
)

var (
	ErrUnauthenticated = bizerr.New(bizerr.KindUnauthenticated, "Vui lòng đăng nhập để tiếp tục")
	ErrForbidden       = bizerr.New(bizerr.KindForbidden, "Bạn không có quyền thực hiện thao tác này")
)

// Resource 鉴权时目标资源的当前状态，Status 仅文章类资源有意义
type Resource struct {
	OwnerID uint64
	Status  workflow.ArticleStatus
}

// Decision 鉴权结果，Allowed 为 false 时 Reason 一定非空
type Decision struct {
	Allowed bool
	Reason  *bizerr.Error
}

// Err 允许时返回 nil，方便调用方直接 return
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason *bizerr.Error) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide 纯函数，不读写任何状态
func Decide(c Caller, op Operation, res Resource) Decision {
	grants, ok := rules[op]
	if !ok {
		return deny(ErrForbidden)
	}
	for _, g := range grants {
		if g.match(c, res) {
			return allow()
		}
	}
	if c.IsAnonymous() {
		return deny(ErrUnauthenticated)
	}
	return deny(ErrForbidden)
}

// Allowed Decide 的布尔简写
func Allowed(c Caller, op Operation, res Resource) bool {
	return Decide(c, op, res).Allowed
}

// Permitted 过滤出调用方在该资源上被允许的操作
func Permitted(c Caller, res Resource, ops ...Operation) []Operation {
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if Allowed(c, op, res) {
			out = append(out, op)
		}
	}
	return out
}

// ListScope 列表查询的可见范围：任意作者的 Statuses 状态文章，加上 OwnerID 本人的全部文章
type ListScope struct {
	Statuses []workflow.ArticleStatus
	OwnerID  uint64
}

// Visible 判断单篇文章是否落在范围内
func (s ListScope) Visible(ownerID uint64, status workflow.ArticleStatus) bool {
	if s.OwnerID != 0 && s.OwnerID == ownerID {
		return true
	}
	for _, st := range s.Statuses {
		if st == status {
			return true
		}
	}
	return false
}

// ScopeFor 由 OpArticleView 规则推导列表可见范围，保证列表与详情的判定一致
func ScopeFor(c Caller) ListScope {
	var scope ListScope
	seen := make(map[workflow.ArticleStatus]struct{})
	for _, g := range rules[OpArticleView] {
		if !g.matchRole(c) {
			continue
		}
		if g.OwnerOnly {
			if !c.IsAnonymous() {
				scope.OwnerID = c.ID
			}
			continue
		}
		for _, st := range g.Statuses {
			if _, ok := seen[st]; ok {
				continue
			}
			seen[st] = struct{}{}
			scope.Statuses = append(scope.Statuses, st)
		}
	}
	return scope
}
