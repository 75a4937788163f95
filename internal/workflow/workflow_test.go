package workflow

import (
	"strings"
	"testing"

	"Toasoan/internal/pkg/bizerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextArticleStatus_AllEdges(t *testing.T) {
	// 未列出的 (from, action) 组合都必须被拒绝
	allowed := map[Action]map[ArticleStatus]ArticleStatus{
		ActionSubmit:  {StatusDraft: StatusPending},
		ActionApprove: {StatusPending: StatusApproved},
		ActionReject:  {StatusPending: StatusDraft},
		ActionPublish: {
			StatusDraft: StatusPublished, StatusPending: StatusPublished, StatusApproved: StatusPublished,
			StatusRejected: StatusPublished, StatusPublished: StatusPublished,
		},
		ActionEdit: {
			StatusDraft: StatusDraft, StatusPending: StatusDraft, StatusApproved: StatusDraft,
			StatusRejected: StatusDraft, StatusPublished: StatusPublished,
		},
	}

	actions := []Action{ActionSubmit, ActionApprove, ActionReject, ActionPublish, ActionEdit}
	for _, action := range actions {
		for _, from := range AllArticleStatuses {
			t.Run(string(action)+"_from_"+string(from), func(t *testing.T) {
				to, err := NextArticleStatus(from, action)
				want, ok := allowed[action][from]
				if !ok {
					require.ErrorIs(t, err, ErrInvalidTransition)
					assert.True(t, bizerr.Is(err, bizerr.KindInvalidState))
					assert.Equal(t, from, to, "非法迁移不得改变状态")
					return
				}
				require.NoError(t, err)
				assert.Equal(t, want, to)
			})
		}
	}
}

func TestNextArticleStatus_RejectedIsNeverAResult(t *testing.T) {
	actions := []Action{ActionSubmit, ActionApprove, ActionReject, ActionPublish, ActionEdit}
	for _, action := range actions {
		for _, from := range AllArticleStatuses {
			to, err := NextArticleStatus(from, action)
			if err == nil {
				assert.NotEqual(t, StatusRejected, to)
			}
		}
	}
}

func TestNextArticleStatus_UnknownAction(t *testing.T) {
	_, err := NextArticleStatus(StatusDraft, Action("archive"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReviewAction(t *testing.T) {
	testCases := []struct {
		target  string
		want    Action
		wantErr bool
	}{
		{target: "approved", want: ActionApprove},
		{target: "rejected", want: ActionReject},
		{target: "published", want: ActionPublish},
		{target: "draft", wantErr: true},
		{target: "pending", wantErr: true},
		{target: "", wantErr: true},
		{target: "APPROVED", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			got, err := ReviewAction(tc.target)
			if tc.wantErr {
				assert.True(t, bizerr.Is(err, bizerr.KindInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseArticleStatus(t *testing.T) {
	s, ok := ParseArticleStatus("published")
	assert.True(t, ok)
	assert.Equal(t, StatusPublished, s)

	_, ok = ParseArticleStatus("archived")
	assert.False(t, ok)
}

func TestNextDeletionStatus(t *testing.T) {
	to, err := NextDeletionStatus(DeletionPending, true)
	require.NoError(t, err)
	assert.Equal(t, DeletionApproved, to)

	to, err = NextDeletionStatus(DeletionPending, false)
	require.NoError(t, err)
	assert.Equal(t, DeletionRejected, to)

	for _, from := range []DeletionStatus{DeletionApproved, DeletionRejected} {
		assert.True(t, from.Terminal())
		for _, approve := range []bool{true, false} {
			got, err := NextDeletionStatus(from, approve)
			assert.ErrorIs(t, err, ErrDeletionNotPending)
			assert.Equal(t, from, got)
		}
	}
}

func TestValidateDeletionReason(t *testing.T) {
	assert.Error(t, ValidateDeletionReason("too short"))
	assert.NoError(t, ValidateDeletionReason("this needs to go now"))
	assert.NoError(t, ValidateDeletionReason("Bài viết sai"))
	assert.Error(t, ValidateDeletionReason("   short    "))
	assert.NoError(t, ValidateDeletionReason(strings.Repeat("a", 500)))
	assert.Error(t, ValidateDeletionReason(strings.Repeat("a", 501)))
	assert.True(t, bizerr.Is(ValidateDeletionReason(""), bizerr.KindInvalidInput))
}
