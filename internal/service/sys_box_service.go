package service

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/event"
	"Toasoan/internal/pkg/mongo"
	"Toasoan/internal/policy"
	"Toasoan/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type SysBoxService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	Handle(ctx context.Context, e *event.Event) error
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	userRepo   repository.UserRepo
}

func NewSysBoxService(sysBox mongo.SysBoxRepo, user repository.UserRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
		userRepo:   user,
	}
}

// GetNotificationList 获取通知列表并补全发送者信息
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.sysBoxRepo.GetNotificationList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	for _, m := range list {
		if m.SenderID > 0 {
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	senders, err := loadUserBriefs(ctx, s.userRepo, senderIDs)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.SysBoxDTO{}
		_ = copier.Copy(d, m)
		d.ID = m.ID.Hex()
		d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)

		// SenderID 为 0 代表系统发送
		d.SenderName = "Hệ thống"
		if u := senders[m.SenderID]; u != nil {
			d.SenderName = u.Username
			if u.FullName != "" {
				d.SenderName = u.FullName
			}
		}
		res = append(res, d)
	}
	return res, nil
}

// GetUnreadCount 获取未读数
func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读，只能操作自己的通知
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.sysBoxRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrSysBoxNotFound
		}
		return err
	}
	if notice.ReceiverID != userID {
		return policy.ErrForbidden
	}
	if notice.IsRead {
		return nil
	}
	return s.sysBoxRepo.MarkAsRead(ctx, userID, objectID)
}

// MarkAllRead 一键已读
func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}

// Handle 把事件按接收者展开写入通知箱，操作者本人不会收到通知
func (s *sysBoxServiceImpl) Handle(ctx context.Context, e *event.Event) error {
	receivers, err := s.receivers(ctx, e)
	if err != nil {
		return err
	}
	if len(receivers) == 0 {
		return nil
	}

	content := notificationContent(e)
	createdAt := e.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	msgs := make([]*mongo.SysBoxModel, 0, len(receivers))
	for _, id := range receivers {
		msgs = append(msgs, &mongo.SysBoxModel{
			ReceiverID: id,
			SenderID:   e.ActorID,
			Type:       string(e.Type),
			TargetID:   e.ArticleID,
			Content:    content,
			Payload:    e.Payload,
			EventID:    e.ID,
			CreatedAt:  createdAt,
		})
	}
	return s.sysBoxRepo.CreateNotifications(ctx, msgs)
}

func (s *sysBoxServiceImpl) receivers(ctx context.Context, e *event.Event) ([]uint64, error) {
	ids := append([]uint64(nil), e.Recipients...)
	if e.Audience == event.AudienceStaff {
		staff, err := s.userRepo.GetUserIdsByRoles(ctx, []string{policy.RoleAdmin.String(), policy.RoleEditor.String()})
		if err != nil {
			return nil, err
		}
		ids = append(ids, staff...)
	}

	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || id == e.ActorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func notificationContent(e *event.Event) string {
	title, _ := e.Payload["title"].(string)
	switch e.Type {
	case event.ArticleSubmitted:
		return fmt.Sprintf("Bài viết \"%s\" đang chờ duyệt", title)
	case event.ArticleApproved:
		return fmt.Sprintf("Bài viết \"%s\" đã được duyệt", title)
	case event.ArticleRejected:
		return fmt.Sprintf("Bài viết \"%s\" bị từ chối và đã chuyển về bản nháp", title)
	case event.ArticlePublished:
		return fmt.Sprintf("Bài viết \"%s\" đã được xuất bản", title)
	case event.ArticleDeleted:
		return fmt.Sprintf("Bài viết \"%s\" đã bị xóa", title)
	case event.DeletionRequested:
		return fmt.Sprintf("Có yêu cầu xóa bài viết \"%s\"", title)
	case event.DeletionApproved:
		return "Yêu cầu xóa bài viết của bạn đã được chấp thuận"
	case event.DeletionRejected:
		return "Yêu cầu xóa bài viết của bạn đã bị từ chối"
	case event.CommentReplied:
		p, _ := e.Payload["preview"].(string)
		return "Có người trả lời bình luận của bạn: " + p
	case event.RoleChanged:
		r, _ := e.Payload["new_role"].(string)
		return "Vai trò của bạn đã được đổi thành " + r
	}
	return string(e.Type)
}
