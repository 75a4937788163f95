package policy

import (
	"fmt"
	"testing"

	"Toasoan/internal/pkg/bizerr"
	"Toasoan/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	callerID = uint64(7)
	otherID  = uint64(99)
)

// callers 四种角色加匿名
func callers() []Caller {
	out := []Caller{Anonymous()}
	for _, r := range AllRoles {
		out = append(out, Caller{ID: callerID, Role: r})
	}
	return out
}

func roleName(c Caller) string {
	if c.IsAnonymous() {
		return "anonymous"
	}
	return string(c.Role)
}

func in(r Role, roles ...Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// expectArticle 按文字描述的规则独立实现一遍，用于交叉校验规则表
func expectArticle(c Caller, op Operation, owner bool, status workflow.ArticleStatus) bool {
	anon := c.IsAnonymous()
	owner = owner && !anon
	r := c.Role
	switch op {
	case OpArticleView:
		if status == workflow.StatusPublished {
			return true
		}
		if anon {
			return false
		}
		if owner && in(r, RoleAuthor, RoleEditor, RoleAdmin) {
			return true
		}
		return in(r, RoleEditor, RoleAdmin) && (status == workflow.StatusPending || status == workflow.StatusApproved)
	case OpArticleCreate:
		return !anon && in(r, RoleAuthor, RoleEditor, RoleAdmin)
	case OpArticleUpdate:
		return !anon && (in(r, RoleEditor, RoleAdmin) || (r == RoleAuthor && owner))
	case OpArticleDelete:
		return !anon && (r == RoleAdmin || (r == RoleAuthor && owner && status == workflow.StatusDraft))
	case OpArticleSubmit:
		return owner && in(r, RoleAuthor, RoleEditor, RoleAdmin)
	case OpArticleReview, OpArticlePublish:
		return !anon && in(r, RoleEditor, RoleAdmin)
	}
	panic("unexpected op " + op)
}

func TestDecide_ArticleMatrix(t *testing.T) {
	ops := []Operation{
		OpArticleView, OpArticleCreate, OpArticleUpdate, OpArticleDelete,
		OpArticleSubmit, OpArticleReview, OpArticlePublish,
	}
	for _, c := range callers() {
		for _, op := range ops {
			for _, status := range workflow.AllArticleStatuses {
				for _, owner := range []bool{true, false} {
					name := fmt.Sprintf("%s/%s/%s/owner=%v", roleName(c), op, status, owner)
					t.Run(name, func(t *testing.T) {
						res := Resource{OwnerID: otherID, Status: status}
						if owner {
							res.OwnerID = c.ID
						}
						want := expectArticle(c, op, owner, status)
						d := Decide(c, op, res)
						assert.Equal(t, want, d.Allowed)
						if want {
							assert.NoError(t, d.Err())
							return
						}
						require.NotNil(t, d.Reason)
						if c.IsAnonymous() {
							assert.True(t, bizerr.Is(d.Err(), bizerr.KindUnauthenticated))
						} else {
							assert.True(t, bizerr.Is(d.Err(), bizerr.KindForbidden))
						}
					})
				}
			}
		}
	}
}

func TestDecide_ArticleViewTable(t *testing.T) {
	// 非本人文章的可见性，逐格列出
	testCases := []struct {
		role      string
		published bool
		pending   bool
		approved  bool
		draft     bool
	}{
		{role: "anonymous", published: true},
		{role: "reader", published: true},
		{role: "author", published: true},
		{role: "editor", published: true, pending: true, approved: true},
		{role: "admin", published: true, pending: true, approved: true},
	}
	byName := make(map[string]Caller)
	for _, c := range callers() {
		byName[roleName(c)] = c
	}
	for _, tc := range testCases {
		t.Run(tc.role, func(t *testing.T) {
			c := byName[tc.role]
			view := func(s workflow.ArticleStatus) bool {
				return Allowed(c, OpArticleView, Resource{OwnerID: otherID, Status: s})
			}
			assert.Equal(t, tc.published, view(workflow.StatusPublished))
			assert.Equal(t, tc.pending, view(workflow.StatusPending))
			assert.Equal(t, tc.approved, view(workflow.StatusApproved))
			assert.Equal(t, tc.draft, view(workflow.StatusDraft))
		})
	}
}

func TestDecide_CommentMatrix(t *testing.T) {
	for _, c := range callers() {
		for _, owner := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/owner=%v", roleName(c), owner), func(t *testing.T) {
				res := Resource{OwnerID: otherID}
				if owner {
					res.OwnerID = c.ID
				}
				anon := c.IsAnonymous()
				isOwner := owner && !anon

				assert.Equal(t, !anon && in(c.Role, RoleReader, RoleAuthor), Allowed(c, OpCommentCreate, res))
				assert.Equal(t, !anon, Allowed(c, OpCommentLike, res))
				assert.Equal(t, isOwner, Allowed(c, OpCommentUpdate, res))
				assert.Equal(t, isOwner || (!anon && c.Role == RoleAdmin), Allowed(c, OpCommentDelete, res))
			})
		}
	}
}

func TestDecide_DeletionRequestAndAdminOps(t *testing.T) {
	for _, c := range callers() {
		t.Run(roleName(c), func(t *testing.T) {
			anon := c.IsAnonymous()
			staff := !anon && in(c.Role, RoleEditor, RoleAdmin)
			admin := !anon && c.Role == RoleAdmin

			assert.Equal(t, !anon, Allowed(c, OpDeletionRequestCreate, Resource{OwnerID: c.ID, Status: workflow.StatusPublished}))
			assert.False(t, Allowed(c, OpDeletionRequestCreate, Resource{OwnerID: otherID, Status: workflow.StatusPublished}))
			assert.Equal(t, staff, Allowed(c, OpDeletionRequestReview, Resource{}))
			assert.Equal(t, staff, Allowed(c, OpDeletionRequestListAll, Resource{}))
			assert.Equal(t, staff, Allowed(c, OpCategoryWrite, Resource{}))
			assert.Equal(t, admin, Allowed(c, OpCategoryDelete, Resource{}))
			assert.Equal(t, admin, Allowed(c, OpUserManage, Resource{}))
			assert.Equal(t, !anon && c.Role != RoleReader, Allowed(c, OpMediaUpload, Resource{}))
		})
	}
}

func TestDecide_UnknownOperation(t *testing.T) {
	d := Decide(Caller{ID: 1, Role: RoleAdmin}, Operation("nope"), Resource{})
	assert.False(t, d.Allowed)
	assert.ErrorIs(t, d.Err(), ErrForbidden)
}

func TestScopeFor(t *testing.T) {
	pub := []workflow.ArticleStatus{workflow.StatusPublished}
	staffScope := []workflow.ArticleStatus{workflow.StatusPublished, workflow.StatusPending, workflow.StatusApproved}

	assert.Equal(t, ListScope{Statuses: pub}, ScopeFor(Anonymous()))
	assert.Equal(t, ListScope{Statuses: pub}, ScopeFor(Caller{ID: callerID, Role: RoleReader}))
	assert.Equal(t, ListScope{Statuses: pub, OwnerID: callerID}, ScopeFor(Caller{ID: callerID, Role: RoleAuthor}))
	assert.Equal(t, ListScope{Statuses: staffScope, OwnerID: callerID}, ScopeFor(Caller{ID: callerID, Role: RoleEditor}))
	assert.Equal(t, ListScope{Statuses: staffScope, OwnerID: callerID}, ScopeFor(Caller{ID: callerID, Role: RoleAdmin}))
}

func TestScopeFor_AgreesWithDecide(t *testing.T) {
	for _, c := range callers() {
		scope := ScopeFor(c)
		for _, status := range workflow.AllArticleStatuses {
			for _, owner := range []uint64{c.ID, otherID} {
				want := Allowed(c, OpArticleView, Resource{OwnerID: owner, Status: status})
				got := scope.Visible(owner, status)
				if owner == 0 {
					// 匿名调用方不存在“本人文章”
					continue
				}
				assert.Equal(t, want, got, "%s %s owner=%d", roleName(c), status, owner)
			}
		}
	}
}

func TestPermitted(t *testing.T) {
	author := Caller{ID: callerID, Role: RoleAuthor}
	got := Permitted(author, Resource{OwnerID: callerID, Status: workflow.StatusDraft}, ArticleOperations...)
	assert.ElementsMatch(t, []Operation{OpArticleUpdate, OpArticleDelete, OpArticleSubmit}, got)

	editor := Caller{ID: callerID, Role: RoleEditor}
	got = Permitted(editor, Resource{OwnerID: otherID, Status: workflow.StatusPending}, ArticleOperations...)
	assert.ElementsMatch(t, []Operation{OpArticleUpdate, OpArticleReview, OpArticlePublish}, got)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("editor")
	assert.True(t, ok)
	assert.Equal(t, RoleEditor, r)
	_, ok = ParseRole("root")
	assert.False(t, ok)
}
