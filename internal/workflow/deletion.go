package workflow

import (
	"strings"
	"unicode/utf8"

	"Toasoan/internal/pkg/bizerr"
)

// DeletionStatus 删除申请状态，approved / rejected 均为终态
type DeletionStatus string

const (
	DeletionPending  DeletionStatus = "pending"
	DeletionApproved DeletionStatus = "approved"
	DeletionRejected DeletionStatus = "rejected"
)

func (s DeletionStatus) Valid() bool {
	switch s {
	case DeletionPending, DeletionApproved, DeletionRejected:
		return true
	}
	return false
}

func (s DeletionStatus) Terminal() bool {
	return s == DeletionApproved || s == DeletionRejected
}

const (
	DeletionReasonMinLen = 10
	DeletionReasonMaxLen = 500
)

var (
	ErrDeletionNotPending = bizerr.New(bizerr.KindInvalidState, "Yêu cầu xóa đã được xử lý")
	ErrDeletionReasonLen  = bizerr.New(bizerr.KindInvalidInput, "Lý do xóa phải từ 10 đến 500 ký tự")
)

// NextDeletionStatus 审核删除申请，approve 为 true 表示通过
func NextDeletionStatus(from DeletionStatus, approve bool) (DeletionStatus, error) {
	if from != DeletionPending {
		return from, ErrDeletionNotPending
	}
	if approve {
		return DeletionApproved, nil
	}
	return DeletionRejected, nil
}

// ValidateDeletionReason 按字符数（非字节数）校验申请理由
func ValidateDeletionReason(reason string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(reason))
	if n < DeletionReasonMinLen || n > DeletionReasonMaxLen {
		return ErrDeletionReasonLen
	}
	return nil
}
