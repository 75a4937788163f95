package service

import (
	"Toasoan/internal/pkg/bizerr"
)

var (
	ErrParamInvalid     = bizerr.New(bizerr.KindInvalidInput, "Tham số không hợp lệ")
	ErrUserNotFound     = bizerr.New(bizerr.KindNotFound, "Người dùng không tồn tại")
	ErrUsernameExist    = bizerr.New(bizerr.KindConflict, "Tên đăng nhập đã tồn tại")
	ErrEmailExist       = bizerr.New(bizerr.KindConflict, "Email đã được sử dụng")
	ErrLoginFailed      = bizerr.New(bizerr.KindUnauthenticated, "Tên đăng nhập hoặc mật khẩu không đúng")
	ErrInvalidRole      = bizerr.New(bizerr.KindInvalidInput, "Vai trò không hợp lệ")
	ErrRoleUnchanged    = bizerr.New(bizerr.KindInvalidState, "Người dùng đã có vai trò này")
	ErrLastAdmin        = bizerr.New(bizerr.KindInvalidState, "Không thể hạ quyền quản trị viên cuối cùng")
	ErrRoleChangedRace  = bizerr.New(bizerr.KindInvalidState, "Vai trò của người dùng vừa được thay đổi, vui lòng thử lại")
	ErrCategoryNotFound = bizerr.New(bizerr.KindNotFound, "Chuyên mục không tồn tại")
	ErrCategoryExist    = bizerr.New(bizerr.KindConflict, "Tên hoặc đường dẫn chuyên mục đã tồn tại")
	ErrCategoryInUse    = bizerr.New(bizerr.KindConflict, "Chuyên mục vẫn còn bài viết, không thể xóa")
	ErrCategorySlug     = bizerr.New(bizerr.KindInvalidInput, "Không thể tạo đường dẫn từ tên chuyên mục")
	ErrArticleNotFound  = bizerr.New(bizerr.KindNotFound, "Bài viết không tồn tại")
	ErrArticleChanged   = bizerr.New(bizerr.KindInvalidState, "Bài viết vừa được người khác thay đổi, vui lòng tải lại")
	ErrCommentNotFound  = bizerr.New(bizerr.KindNotFound, "Bình luận không tồn tại")
	ErrCommentClosed    = bizerr.New(bizerr.KindInvalidState, "Chỉ có thể bình luận trên bài viết đã xuất bản")
	ErrCommentParent    = bizerr.New(bizerr.KindInvalidInput, "Bình luận gốc không thuộc bài viết này")
	ErrCommentEmpty     = bizerr.New(bizerr.KindInvalidInput, "Nội dung bình luận không được để trống")
	ErrDeletionNotFound = bizerr.New(bizerr.KindNotFound, "Yêu cầu xóa không tồn tại")
	ErrDeletionExist    = bizerr.New(bizerr.KindConflict, "Bài viết đã có một yêu cầu xóa đang chờ duyệt")
	ErrDeletionState    = bizerr.New(bizerr.KindInvalidState, "Chỉ có thể yêu cầu xóa bài viết đã xuất bản")
	ErrSysBoxNotFound   = bizerr.New(bizerr.KindNotFound, "Thông báo không tồn tại")
	ErrFileNotSupported = bizerr.New(bizerr.KindInvalidInput, "Định dạng tệp không được hỗ trợ")
	ErrFileTooLarge     = bizerr.New(bizerr.KindInvalidInput, "Tệp vượt quá dung lượng cho phép")
)
