package service

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/event"
	"Toasoan/internal/model"
	"Toasoan/internal/repository"
	"context"
	log "log/slog"
)

// publishEvent 业务已提交，事件发布失败只记日志
func publishEvent(ctx context.Context, p event.Publisher, e *event.Event) {
	if p == nil || e == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.WarnContext(ctx, "publish event failed", "type", e.Type, "event_id", e.ID, "err", err)
	}
}

func toUserBrief(u *model.User) *dto.UserBriefDTO {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &dto.UserBriefDTO{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

// loadUserBriefs 批量查询作者信息
func loadUserBriefs(ctx context.Context, repo repository.UserRepo, ids []uint64) (map[uint64]*dto.UserBriefDTO, error) {
	out := make(map[uint64]*dto.UserBriefDTO, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := repo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = toUserBrief(u)
	}
	return out, nil
}

func newPage(list interface{}, total int64, page, pageSize int) *dto.PageResult {
	page, pageSize = repository.NormalizePage(page, pageSize)
	return &dto.PageResult{List: list, Total: total, Page: page, PageSize: pageSize}
}
